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
	"bytes"
	"cmp"
	"fmt"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/montaglue/greaters/pkg/util/merr"
)

type binaryLike interface {
	Data() []byte
}

// Compare orders two scalars of the same type and returns -1, 0 or +1.
//
// Nulls sort below present values and equal to each other. Floats sort NaN
// above every other value. Lists compare element-wise, a shorter prefix
// sorts first. Scalars of different types fail with merr.ErrTypeMismatch.
func Compare(a, b scalar.Scalar) (int, error) {
	aNull, bNull := IsNull(a), IsNull(b)
	switch {
	case aNull && bNull:
		return 0, nil
	case aNull:
		return -1, nil
	case bNull:
		return 1, nil
	}
	if !sameType(a, b) {
		return 0, merr.WrapErrTypeMismatch(a.DataType().String(), b.DataType())
	}

	switch a := a.(type) {
	case *scalar.Null:
		return 0, nil
	case *scalar.Boolean:
		return compareWith(a, b, func(x, y *scalar.Boolean) int { return compareBool(x.Value, y.Value) })
	case *scalar.Int8:
		return compareWith(a, b, func(x, y *scalar.Int8) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Int16:
		return compareWith(a, b, func(x, y *scalar.Int16) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Int32:
		return compareWith(a, b, func(x, y *scalar.Int32) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Int64:
		return compareWith(a, b, func(x, y *scalar.Int64) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Uint8:
		return compareWith(a, b, func(x, y *scalar.Uint8) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Uint16:
		return compareWith(a, b, func(x, y *scalar.Uint16) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Uint32:
		return compareWith(a, b, func(x, y *scalar.Uint32) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Uint64:
		return compareWith(a, b, func(x, y *scalar.Uint64) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Float16:
		return compareWith(a, b, func(x, y *scalar.Float16) int { return compareFloat(x.Value.Float32(), y.Value.Float32()) })
	case *scalar.Float32:
		return compareWith(a, b, func(x, y *scalar.Float32) int { return compareFloat(x.Value, y.Value) })
	case *scalar.Float64:
		return compareWith(a, b, func(x, y *scalar.Float64) int { return compareFloat(x.Value, y.Value) })
	case *scalar.Decimal128:
		return compareWith(a, b, func(x, y *scalar.Decimal128) int { return x.Value.BigInt().Cmp(y.Value.BigInt()) })
	case *scalar.Decimal256:
		return compareWith(a, b, func(x, y *scalar.Decimal256) int { return x.Value.BigInt().Cmp(y.Value.BigInt()) })
	case *scalar.Date32:
		return compareWith(a, b, func(x, y *scalar.Date32) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Date64:
		return compareWith(a, b, func(x, y *scalar.Date64) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Time32:
		return compareWith(a, b, func(x, y *scalar.Time32) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Time64:
		return compareWith(a, b, func(x, y *scalar.Time64) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Timestamp:
		return compareWith(a, b, func(x, y *scalar.Timestamp) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.Duration:
		return compareWith(a, b, func(x, y *scalar.Duration) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.MonthInterval:
		return compareWith(a, b, func(x, y *scalar.MonthInterval) int { return cmp.Compare(x.Value, y.Value) })
	case *scalar.DayTimeInterval:
		return compareWith(a, b, func(x, y *scalar.DayTimeInterval) int {
			return cmp.Or(
				cmp.Compare(x.Value.Days, y.Value.Days),
				cmp.Compare(x.Value.Milliseconds, y.Value.Milliseconds),
			)
		})
	case *scalar.MonthDayNanoInterval:
		return compareWith(a, b, func(x, y *scalar.MonthDayNanoInterval) int {
			return cmp.Or(
				cmp.Compare(x.Value.Months, y.Value.Months),
				cmp.Compare(x.Value.Days, y.Value.Days),
				cmp.Compare(x.Value.Nanoseconds, y.Value.Nanoseconds),
			)
		})
	case *scalar.Binary, *scalar.LargeBinary, *scalar.String, *scalar.LargeString, *scalar.FixedSizeBinary:
		x, xok := a.(binaryLike)
		y, yok := b.(binaryLike)
		if !xok || !yok {
			return 0, merr.WrapErrTypeMismatch(fmt.Sprintf("%T", a), b.DataType())
		}
		return bytes.Compare(x.Data(), y.Data()), nil
	case *scalar.List, *scalar.LargeList, *scalar.FixedSizeList:
		x, _ := ListValues(a)
		y, _ := ListValues(b)
		return compareLists(x, y)
	default:
		return 0, merr.WrapErrUnsupportedType(a.DataType())
	}
}

func compareWith[S scalar.Scalar](a S, b scalar.Scalar, fn func(x, y S) int) (int, error) {
	other, ok := b.(S)
	if !ok {
		return 0, merr.WrapErrTypeMismatch(fmt.Sprintf("%T", a), b.DataType())
	}
	return fn(a, other), nil
}

func compareBool(x, y bool) int {
	switch {
	case x == y:
		return 0
	case x:
		return 1
	default:
		return -1
	}
}

// compareFloat is cmp.Compare with NaN moved to the top.
func compareFloat[T float32 | float64](x, y T) int {
	xNaN, yNaN := math.IsNaN(float64(x)), math.IsNaN(float64(y))
	switch {
	case xNaN && yNaN:
		return 0
	case xNaN:
		return 1
	case yNaN:
		return -1
	}
	return cmp.Compare(x, y)
}

func compareLists(x, y arrow.Array) (int, error) {
	if x == nil || y == nil {
		return 0, merr.WrapErrPreconditionViolated("list scalar without values")
	}
	n := min(x.Len(), y.Len())
	for i := 0; i < n; i++ {
		c, err := compareAt(x, y, i)
		if err != nil || c != 0 {
			return c, err
		}
	}
	return cmp.Compare(x.Len(), y.Len()), nil
}

func compareAt(x, y arrow.Array, i int) (int, error) {
	xs, err := ScalarAt(x, i)
	if err != nil {
		return 0, err
	}
	defer Release(xs)
	ys, err := ScalarAt(y, i)
	if err != nil {
		return 0, err
	}
	defer Release(ys)
	return Compare(xs, ys)
}

// sameType compares list scalars by element type only, since list
// scalars extracted from a column may not keep its field nullability.
func sameType(a, b scalar.Scalar) bool {
	if a.DataType().ID() != b.DataType().ID() {
		return false
	}
	if x, ok := ListValues(a); ok {
		y, ok := ListValues(b)
		return ok && x != nil && y != nil && arrow.TypeEqual(x.DataType(), y.DataType())
	}
	return arrow.TypeEqual(a.DataType(), b.DataType())
}
