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
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/montaglue/greaters/internal/util/function/chain/scalarutil"
	"github.com/montaglue/greaters/pkg/util/merr"
)

// DefaultDataCapacity is the byte capacity reserved by text and binary builders.
const DefaultDataCapacity = 1024

// ColumnBuilder accumulates scalars of one declared type into a column.
type ColumnBuilder interface {
	// Type returns the declared type of the column being built.
	Type() arrow.DataType
	// Len returns the number of rows appended so far.
	Len() int
	// AppendScalar appends one row. The untyped null placeholder, a nil
	// scalar and a typed null of the declared type append a null row.
	// Any other type fails with merr.ErrTypeMismatch.
	AppendScalar(s scalar.Scalar) error
	// Finish returns the column and closes the builder.
	Finish() (arrow.Array, error)
	// FinishCloned returns the column built so far and keeps the builder open
	// with the same content.
	FinishCloned() (arrow.Array, error)
	Release()
}

// ListColumnBuilder is the ColumnBuilder of list-like types.
type ListColumnBuilder interface {
	ColumnBuilder
	ElemType() arrow.DataType
	// ValueBuilder returns the builder of the flattened elements.
	ValueBuilder() ColumnBuilder
}

type options struct {
	dataCapacity int
}

type Option func(*options)

// WithDataCapacity sets the number of bytes reserved up front by
// variable length text and binary builders.
func WithDataCapacity(n int) Option {
	return func(o *options) {
		o.dataCapacity = n
	}
}

func newOptions(opts ...Option) *options {
	o := &options{dataCapacity: DefaultDataCapacity}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// baseBuilder holds the state every adapter shares.
type baseBuilder struct {
	raw      array.Builder
	dtype    arrow.DataType
	kind     string
	finished bool
	released bool
}

func (b *baseBuilder) Type() arrow.DataType {
	return b.dtype
}

func (b *baseBuilder) Len() int {
	return b.raw.Len()
}

func (b *baseBuilder) Release() {
	if b.released {
		return
	}
	b.released = true
	b.raw.Release()
}

func (b *baseBuilder) checkOpen() error {
	if b.finished || b.released {
		return merr.WrapErrBuilderFinished(b.kind)
	}
	return nil
}

func (b *baseBuilder) finish() (arrow.Array, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	b.finished = true
	return b.raw.NewArray(), nil
}

// finishCloned finishes the underlying builder and replays the column
// through appendFn so the builder keeps its content.
func (b *baseBuilder) finishCloned(appendFn func(scalar.Scalar) error) (arrow.Array, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	arr := b.raw.NewArray()
	for i := 0; i < arr.Len(); i++ {
		s, err := scalarutil.ScalarAt(arr, i)
		if err != nil {
			arr.Release()
			return nil, err
		}
		err = appendFn(s)
		scalarutil.Release(s)
		if err != nil {
			arr.Release()
			return nil, err
		}
	}
	return arr, nil
}
