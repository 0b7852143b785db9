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
	"errors"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

type noPanicFunc func()
type noPanicFuncWErr func() error

func (f noPanicFunc) run() {
	defer internalRecover()
	f()
}

func (f noPanicFuncWErr) run() error {
	var err error
	defer func() {
		if recoverErr := recoverToErr(); recoverErr != nil {
			err = recoverErr
		}
	}()
	err = f()
	return err
}

func SafeAsync(function noPanicFunc) {
	go function.run()
}

func SafeSync(function noPanicFuncWErr) error {
	return function.run()
}

func internalRecover() {
	if err := recover(); err != nil {
		log.Errorf("Goroutine failed with panic: %v", err)
		log.Tracef("Stacktrace: %v", string(debug.Stack()))
	}
}

func recoverToErr() error {
	if e := recover(); e != nil {
		log.Errorf("Call failed with panic: %v", e)
		log.Tracef("Stacktrace: %v", string(debug.Stack()))
		switch x := e.(type) {
		case string:
			return errors.New(x)
		case error:
			return x
		default:
			return errors.New("unknown panic error type")
		}
	}
	return nil
}
