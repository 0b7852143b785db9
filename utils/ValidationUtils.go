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
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maykinmedia/archiefbeheer/exception"
)

var validate = validator.New()

// ValidateObject runs the struct validation tags and converts the first
// failure into a CustomError suitable for an HTTP response.
func ValidateObject(obj interface{}) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		missing := make([]string, 0)
		for _, fieldError := range validationErrors {
			if fieldError.Tag() == "required" {
				missing = append(missing, fieldError.Field())
				continue
			}
			return &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.InvalidParameterValue,
				Message: exception.InvalidParameterValueMsg,
				Params:  map[string]interface{}{"param": fieldError.Field(), "value": fieldError.Value()},
				Debug:   fieldError.Error(),
			}
		}
		if len(missing) > 0 {
			return &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.RequiredParamsMissing,
				Message: exception.RequiredParamsMissingMsg,
				Params:  map[string]interface{}{"params": strings.Join(missing, ", ")},
			}
		}
	}
	return err
}
