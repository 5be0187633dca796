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

// listAppender is implemented by the list, large list and fixed size list builders.
type listAppender interface {
	array.Builder
	Append(bool)
	ValueBuilder() array.Builder
}

type listBuilder struct {
	baseBuilder
	list   listAppender
	elem   arrow.DataType
	size   int // element count of fixed size lists, -1 otherwise
	values ColumnBuilder
}

var _ ListColumnBuilder = (*listBuilder)(nil)

func newListBuilder(list listAppender, dt, elem arrow.DataType, size int, values ColumnBuilder) *listBuilder {
	return &listBuilder{
		baseBuilder: baseBuilder{
			raw:   list,
			dtype: dt,
			kind:  fmt.Sprintf("%T", list),
		},
		list:   list,
		elem:   elem,
		size:   size,
		values: values,
	}
}

func (b *listBuilder) ElemType() arrow.DataType {
	return b.elem
}

func (b *listBuilder) ValueBuilder() ColumnBuilder {
	return b.values
}

// AppendScalar appends the elements of a list scalar as one row.
// Every check runs before the row is opened, so a rejected scalar leaves the
// builder unchanged.
// Element types are compared rather than list types since extracted list
// scalars do not keep the field nullability of their column.
func (b *listBuilder) AppendScalar(s scalar.Scalar) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if scalarutil.IsPlaceholder(s) {
		b.raw.AppendNull()
		return nil
	}
	if s.DataType().ID() != b.dtype.ID() {
		return merr.WrapErrTypeMismatch(b.kind, s.DataType())
	}
	if !s.IsValid() {
		b.raw.AppendNull()
		return nil
	}
	values, ok := scalarutil.ListValues(s)
	if !ok || values == nil || !arrow.TypeEqual(values.DataType(), b.elem) {
		return merr.WrapErrTypeMismatch(b.kind, s.DataType())
	}
	if b.size >= 0 && values.Len() != b.size {
		return merr.WrapErrPreconditionViolated("%s expects %d elements per row, got %d", b.kind, b.size, values.Len())
	}

	elems := make([]scalar.Scalar, 0, values.Len())
	defer func() {
		for _, v := range elems {
			scalarutil.Release(v)
		}
	}()
	for i := 0; i < values.Len(); i++ {
		v, err := scalarutil.ScalarAt(values, i)
		if err != nil {
			return err
		}
		elems = append(elems, v)
	}

	// Element types were checked above, so the appends below only fail on a
	// broken inner builder, which leaves this builder unusable.
	b.list.Append(true)
	for _, v := range elems {
		if err := b.values.AppendScalar(v); err != nil {
			return err
		}
	}
	return nil
}

func (b *listBuilder) Finish() (arrow.Array, error) {
	return b.finish()
}

func (b *listBuilder) FinishCloned() (arrow.Array, error) {
	return b.finishCloned(b.AppendScalar)
}
