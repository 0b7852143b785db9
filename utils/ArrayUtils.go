// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package utils

func SliceContains(slice []string, value string) bool {
	for _, el := range slice {
		if el == value {
			return true
		}
	}
	return false
}

// UniqueSlice keeps the first occurrence of every value, preserving order.
func UniqueSlice(slice []string) []string {
	seen := make(map[string]struct{}, len(slice))
	result := make([]string, 0, len(slice))
	for _, el := range slice {
		if _, ok := seen[el]; ok {
			continue
		}
		seen[el] = struct{}{}
		result = append(result, el)
	}
	return result
}
