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

package types

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/cockroachdb/errors"

	"github.com/montaglue/greaters/pkg/util/merr"
)

// ColumnarValue is a function argument: either a realized column or a
// single scalar standing for every row of the batch.
// A ColumnarValue does not own the array or scalar it wraps.
type ColumnarValue struct {
	array  arrow.Array
	scalar scalar.Scalar
}

func NewArrayValue(arr arrow.Array) ColumnarValue {
	return ColumnarValue{array: arr}
}

func NewScalarValue(s scalar.Scalar) ColumnarValue {
	if s == nil {
		s = scalar.ScalarNull
	}
	return ColumnarValue{scalar: s}
}

func (v ColumnarValue) IsScalar() bool {
	return v.array == nil
}

func (v ColumnarValue) Array() arrow.Array {
	return v.array
}

func (v ColumnarValue) Scalar() scalar.Scalar {
	return v.scalar
}

func (v ColumnarValue) DataType() arrow.DataType {
	if v.array != nil {
		return v.array.DataType()
	}
	if v.scalar == nil {
		return arrow.Null
	}
	return v.scalar.DataType()
}

// ToArray returns v as a column of rows rows. An array value is returned
// retained and must have exactly rows rows; a scalar value is broadcast.
// The caller releases the result.
func (v ColumnarValue) ToArray(mem memory.Allocator, rows int) (arrow.Array, error) {
	if !v.IsScalar() {
		if v.array.Len() != rows {
			return nil, merr.WrapErrRowCountMismatch(rows, v.array.Len())
		}
		v.array.Retain()
		return v.array, nil
	}
	s := v.scalar
	if s == nil {
		s = scalar.ScalarNull
	}
	arr, err := scalar.MakeArrayFromScalar(s, rows, mem)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to broadcast scalar of type %s", s.DataType())
	}
	return arr, nil
}

// RowCount returns the length of the first array value, or 1 when every value is a scalar.
func RowCount(values []ColumnarValue) int {
	for _, v := range values {
		if !v.IsScalar() {
			return v.array.Len()
		}
	}
	return 1
}

// ValuesToArrays converts values into columns of a common row count.
// On error nothing is left allocated; on success the caller releases every array.
func ValuesToArrays(mem memory.Allocator, values []ColumnarValue) ([]arrow.Array, error) {
	rows := RowCount(values)
	arrays := make([]arrow.Array, 0, len(values))
	for i, v := range values {
		arr, err := v.ToArray(mem, rows)
		if err != nil {
			ReleaseArrays(arrays)
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		arrays = append(arrays, arr)
	}
	return arrays, nil
}

// ReleaseArrays releases every non-nil array.
func ReleaseArrays(arrays []arrow.Array) {
	for _, arr := range arrays {
		if arr != nil {
			arr.Release()
		}
	}
}
