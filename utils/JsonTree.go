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

import "strings"

// JsonTreeGet resolves a dotted path ("zaaktype.omschrijving") inside a decoded
// JSON object. Missing intermediate keys or non-object intermediates yield
// (nil, false) instead of a panic; the zaak snapshot is upstream data we do not
// control.
func JsonTreeGet(tree map[string]interface{}, path string) (interface{}, bool) {
	if tree == nil || path == "" {
		return nil, false
	}
	keys := strings.Split(path, ".")
	var current interface{} = tree
	for _, key := range keys {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// JsonTreeGetString is JsonTreeGet restricted to string leaves, returning ""
// for anything else.
func JsonTreeGetString(tree map[string]interface{}, path string) string {
	value, ok := JsonTreeGet(tree, path)
	if !ok {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	return ""
}
