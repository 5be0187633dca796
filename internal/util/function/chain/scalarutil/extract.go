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

package scalarutil

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/cockroachdb/errors"

	"github.com/montaglue/greaters/internal/util/function/chain/types"
	"github.com/montaglue/greaters/pkg/util/merr"
)

// ScalarAt returns row i of arr as a scalar.
// A null row of a NULL column yields scalar.ScalarNull, a null row of any
// other column yields a typed null. Release the result with Release.
func ScalarAt(arr arrow.Array, i int) (scalar.Scalar, error) {
	if arr == nil {
		return nil, merr.WrapErrPreconditionViolated("nil column")
	}
	if i < 0 || i >= arr.Len() {
		return nil, merr.WrapErrPreconditionViolated("row %d out of range [0, %d)", i, arr.Len())
	}
	dt := arr.DataType()
	if err := types.CheckSupportedType(dt); err != nil {
		return nil, err
	}
	if dt.ID() == arrow.NULL {
		return scalar.ScalarNull, nil
	}
	if arr.IsNull(i) {
		return scalar.MakeNullScalar(dt), nil
	}
	switch dt.ID() {
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return listAt(arr, i)
	}
	s, err := scalar.GetScalar(arr, i)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to extract row %d of %s", i, dt)
	}
	return s, nil
}

// listAt slices the elements of row i out of the child array.
// Offsets are resolved against the slice offset of arr, so rows of sliced
// columns and of inner lists in nested columns map to their own elements.
func listAt(arr arrow.Array, i int) (scalar.Scalar, error) {
	var (
		values     arrow.Array
		start, end int64
	)
	switch a := arr.(type) {
	case *array.List:
		values = a.ListValues()
		start, end = a.ValueOffsets(i)
	case *array.LargeList:
		values = a.ListValues()
		start, end = a.ValueOffsets(i)
	case *array.FixedSizeList:
		n := int64(a.DataType().(*arrow.FixedSizeListType).Len())
		values = a.ListValues()
		start = int64(a.Offset()+i) * n
		end = start + n
	default:
		return nil, merr.WrapErrTypeMismatch("list column", arr.DataType())
	}
	if start < 0 || end < start || end > int64(values.Len()) {
		return nil, merr.WrapErrPreconditionViolated("row %d of %s has elements [%d, %d) out of [0, %d)",
			i, arr.DataType(), start, end, values.Len())
	}

	slice := array.NewSlice(values, start, end)
	defer slice.Release()
	switch arr.DataType().ID() {
	case arrow.LIST:
		return scalar.NewListScalar(slice), nil
	case arrow.LARGE_LIST:
		return scalar.NewLargeListScalar(slice), nil
	default:
		return scalar.NewFixedSizeListScalarWithType(slice, arr.DataType()), nil
	}
}

// IsPlaceholder reports whether s is the untyped null placeholder.
func IsPlaceholder(s scalar.Scalar) bool {
	return s == nil || s.DataType().ID() == arrow.NULL
}

// IsNull reports whether s carries no value.
func IsNull(s scalar.Scalar) bool {
	return s == nil || !s.IsValid()
}

// Release drops the buffers held by a present scalar extracted with ScalarAt.
// Scalars without buffers are left alone.
func Release(s scalar.Scalar) {
	if IsNull(s) {
		return
	}
	if r, ok := s.(interface{ Release() }); ok {
		r.Release()
	}
}

// ListValues returns the element array of a list-like scalar.
func ListValues(s scalar.Scalar) (arrow.Array, bool) {
	switch s := s.(type) {
	case *scalar.List:
		return s.Value, true
	case *scalar.LargeList:
		return s.Value, true
	case *scalar.FixedSizeList:
		return s.Value, true
	default:
		return nil, false
	}
}
