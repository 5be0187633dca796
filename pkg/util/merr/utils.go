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
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code returns the error code of the given error,
// 0 for nil and the code of errUnexpected for errors defined elsewhere.
func Code(err error) int32 {
	if err == nil {
		return 0
	}
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return known.code()
		}
	}
	return errUnexpected.code()
}

// IsInternal reports whether err signals a programming error
// (a broken invariant) rather than invalid input.
func IsInternal(err error) bool {
	if err == nil {
		return false
	}
	if errors.IsAssertionFailure(err) {
		return true
	}
	for _, known := range knownErrors {
		if known.internal && errors.Is(err, known) {
			return true
		}
	}
	return false
}

// withMsg returns a copy of target printing exactly the formatted message.
// The copy keeps the code, so errors.Is still matches target.
func withMsg(target functionError, format string, args ...any) error {
	target.msg = fmt.Sprintf(format, args...)
	return target
}

// Argument related

// WrapErrArity is returned when fn receives fewer arguments than it needs.
// The message is stable and shown to users verbatim.
func WrapErrArity(fn string) error {
	return withMsg(ErrArity, "%s() requires at least two argument", fn)
}

// WrapErrTypeConsistency is returned when the arguments of fn are not all of the same type.
func WrapErrTypeConsistency(fn string) error {
	return withMsg(ErrTypeConsistency, "%s() requires all arguments to have the same type", fn)
}

func WrapErrUnsupportedType(dt fmt.Stringer) error {
	return withMsg(ErrUnsupportedType, "Data type %s is not currently supported", dt)
}

func WrapErrRowCountMismatch(expected, actual int, msg ...string) error {
	err := wrapFields(ErrRowCountMismatch,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, msg[0])
	}
	return err
}

func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, msg[0])
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

func WrapErrColumnNotFound(name string, msg ...string) error {
	err := wrapFields(ErrColumnNotFound, value("column", name))
	if len(msg) > 0 {
		err = errors.Wrap(err, msg[0])
	}
	return err
}

// Builder related

// WrapErrTypeMismatch is returned by a builder bound to kind that received a scalar of type got.
// It is an assertion failure: the caller computed the output type wrongly.
func WrapErrTypeMismatch(kind string, got fmt.Stringer) error {
	return errors.WithAssertionFailure(
		errors.Wrapf(ErrTypeMismatch, "Invalid scalar value for %s, got %s", kind, got))
}

func WrapErrBuilderFinished(kind string) error {
	return errors.Wrapf(ErrBuilderFinished, "%s received an operation after finish", kind)
}

func WrapErrPreconditionViolated(msg string, args ...any) error {
	return errors.Wrapf(ErrPreconditionViolated, msg, args...)
}

// Registry related

func WrapErrFunctionNotFound(name string) error {
	return wrapFields(ErrFunctionNotFound, value("function", name))
}

func WrapErrFunctionDuplicate(name string) error {
	return wrapFields(ErrFunctionDuplicate, value("function", name))
}

type errorField interface {
	String() string
}

type valueField[T any] struct {
	name  string
	value T
}

func value[T any](name string, value T) valueField[T] {
	return valueField[T]{
		name:  name,
		value: value,
	}
}

func (f valueField[T]) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

func wrapFields(err functionError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	return err
}
