// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Define leaf errors here,
// WARN: take care to add new error,
// check whether you can use the errors below before adding a new one.
// Name: Err + related prefix + error name
var (
	// Argument related, reported to the caller as is
	ErrArity            = newFunctionError("insufficient arguments", 100, false)
	ErrTypeConsistency  = newFunctionError("arguments have different types", 101, false)
	ErrUnsupportedType  = newFunctionError("data type not supported", 102, false)
	ErrRowCountMismatch = newFunctionError("arguments have different row counts", 103, false)
	ErrParameterInvalid = newFunctionError("invalid parameter", 104, false)
	ErrColumnNotFound   = newFunctionError("column not found", 105, false)

	// Builder related, these indicate a defect in type propagation and never come from user input
	ErrTypeMismatch         = newFunctionError("scalar type mismatch", 200, true)
	ErrBuilderFinished      = newFunctionError("builder already finished", 201, true)
	ErrPreconditionViolated = newFunctionError("precondition violated", 202, true)

	// Registry related
	ErrFunctionNotFound  = newFunctionError("function not found", 300, false)
	ErrFunctionDuplicate = newFunctionError("function already registered", 301, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to functionError
	errUnexpected = newFunctionError("unexpected error", (1<<16)-1, false)
)

var knownErrors = []functionError{
	ErrArity,
	ErrTypeConsistency,
	ErrUnsupportedType,
	ErrRowCountMismatch,
	ErrParameterInvalid,
	ErrColumnNotFound,
	ErrTypeMismatch,
	ErrBuilderFinished,
	ErrPreconditionViolated,
	ErrFunctionNotFound,
	ErrFunctionDuplicate,
}

type functionError struct {
	msg      string
	errCode  int32
	internal bool
}

func newFunctionError(msg string, code int32, internal bool) functionError {
	return functionError{
		msg:      msg,
		errCode:  code,
		internal: internal,
	}
}

func (e functionError) code() int32 {
	return e.errCode
}

func (e functionError) Error() string {
	return e.msg
}

func (e functionError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(functionError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// To make merr work for multi errors,
	// we need cause of multi errors, which defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
