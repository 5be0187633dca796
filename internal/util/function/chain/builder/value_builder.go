/*
 * # Licensed to the LF AI & Data foundation under one
 * # or more contributor license agreements. See the NOTICE file
 * # distributed with this work for additional information
 * # regarding copyright ownership. The ASF licenses this file
 * # to you under the Apache License, Version 2.0 (the
 * # "License"); you may not use this file except in compliance
 * # with the License. You may obtain a copy of the License at
 * #
 * #     http://www.apache.org/licenses/LICENSE-2.0
 * #
 * # Unless required by applicable law or agreed to in writing, software
 * # distributed under the License is distributed on an "AS IS" BASIS,
 * # WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * # See the License for the specific language governing permissions and
 * # limitations under the License.
 */

package builder

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/montaglue/greaters/internal/util/function/chain/scalarutil"
	"github.com/montaglue/greaters/pkg/util/merr"
)

// appender is an Arrow builder that supports typed append.
type appender[T any] interface {
	array.Builder
	Append(T)
}

// valueBuilder adapts the Arrow builder of a non-nested type. S is the scalar
// type accepted by the builder and value extracts the value to append.
type valueBuilder[T any, S scalar.Scalar] struct {
	baseBuilder
	typed appender[T]
	value func(S) T
}

func newValueBuilder[T any, S scalar.Scalar](typed appender[T], dt arrow.DataType, value func(S) T) *valueBuilder[T, S] {
	return &valueBuilder[T, S]{
		baseBuilder: baseBuilder{
			raw:   typed,
			dtype: dt,
			kind:  fmt.Sprintf("%T", typed),
		},
		typed: typed,
		value: value,
	}
}

func (b *valueBuilder[T, S]) AppendScalar(s scalar.Scalar) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if scalarutil.IsPlaceholder(s) {
		b.raw.AppendNull()
		return nil
	}
	typed, ok := s.(S)
	if !ok || !arrow.TypeEqual(s.DataType(), b.dtype) {
		return merr.WrapErrTypeMismatch(b.kind, s.DataType())
	}
	if !s.IsValid() {
		b.raw.AppendNull()
		return nil
	}
	b.typed.Append(b.value(typed))
	return nil
}

func (b *valueBuilder[T, S]) Finish() (arrow.Array, error) {
	return b.finish()
}

func (b *valueBuilder[T, S]) FinishCloned() (arrow.Array, error) {
	return b.finishCloned(b.AppendScalar)
}

// nullBuilder builds NULL columns and accepts only NULL typed scalars.
type nullBuilder struct {
	baseBuilder
}

func newNullBuilder(raw array.Builder, dt arrow.DataType) *nullBuilder {
	return &nullBuilder{
		baseBuilder: baseBuilder{
			raw:   raw,
			dtype: dt,
			kind:  fmt.Sprintf("%T", raw),
		},
	}
}

func (b *nullBuilder) AppendScalar(s scalar.Scalar) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if !scalarutil.IsPlaceholder(s) {
		return merr.WrapErrTypeMismatch(b.kind, s.DataType())
	}
	b.raw.AppendNull()
	return nil
}

func (b *nullBuilder) Finish() (arrow.Array, error) {
	return b.finish()
}

func (b *nullBuilder) FinishCloned() (arrow.Array, error) {
	return b.finishCloned(b.AppendScalar)
}
