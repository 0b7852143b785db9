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

import (
	"fmt"
	"reflect"
	"unicode"

	log "github.com/sirupsen/logrus"
)

// PrintConfig logs the effective configuration, masking fields tagged as sensitive.
func PrintConfig(config interface{}) {
	log.Info("Loaded configuration:")
	printStruct("", reflect.ValueOf(config))
}

func printStruct(prefix string, v reflect.Value) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		value := v.Field(i)

		runes := []rune(field.Name)
		if len(runes) > 0 {
			runes[0] = unicode.ToLower(runes[0])
		}
		key := string(runes)
		if prefix != "" {
			key = prefix + "." + key
		}

		_, isSensitive := field.Tag.Lookup("sensitive")

		if value.Kind() == reflect.Ptr {
			if value.IsNil() {
				log.Infof("%s=<nil>", key)
				continue
			}
			value = value.Elem()
		}

		switch value.Kind() {
		case reflect.Struct:
			printStruct(key, value)
		case reflect.Slice:
			if value.Type().Elem().Kind() == reflect.Struct && value.Len() > 0 {
				for j := 0; j < value.Len(); j++ {
					printStruct(fmt.Sprintf("%s[%d]", key, j), value.Index(j))
				}
			} else {
				printValue(key, value, isSensitive)
			}
		default:
			printValue(key, value, isSensitive)
		}
	}
}

func isValueEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func printValue(key string, value reflect.Value, isSensitive bool) {
	var valStr string
	if isSensitive && !isValueEmpty(value) {
		valStr = "*****"
	} else if value.IsValid() && value.CanInterface() {
		valStr = fmt.Sprintf("%v", value.Interface())
	}
	log.Infof("%s=%s", key, valStr)
}
