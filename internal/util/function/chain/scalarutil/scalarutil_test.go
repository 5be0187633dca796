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
	"math"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/float16"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/stretchr/testify/suite"

	"github.com/montaglue/greaters/pkg/util/merr"
)

type ScalarUtilTestSuite struct {
	suite.Suite
	pool *memory.CheckedAllocator
}

func (s *ScalarUtilTestSuite) SetupTest() {
	s.pool = memory.NewCheckedAllocator(memory.NewGoAllocator())
}

func (s *ScalarUtilTestSuite) TearDownTest() {
	s.pool.AssertSize(s.T(), 0)
}

func TestScalarUtilTestSuite(t *testing.T) {
	suite.Run(t, new(ScalarUtilTestSuite))
}

// listArray builds a list<int64> column; valid[i][j] == false marks a null element.
func (s *ScalarUtilTestSuite) listArray(rows [][]int64, valid [][]bool) arrow.Array {
	lb := array.NewListBuilder(s.pool, arrow.PrimitiveTypes.Int64)
	defer lb.Release()
	vb := lb.ValueBuilder().(*array.Int64Builder)
	for i, row := range rows {
		lb.Append(true)
		var v []bool
		if valid != nil {
			v = valid[i]
		}
		vb.AppendValues(row, v)
	}
	return lb.NewArray()
}

// =============================================================================
// ScalarAt
// =============================================================================

func (s *ScalarUtilTestSuite) TestScalarAt() {
	b := array.NewInt64Builder(s.pool)
	b.AppendValues([]int64{1, 0}, []bool{true, false})
	arr := b.NewArray()
	b.Release()
	defer arr.Release()

	v, err := ScalarAt(arr, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), v.(*scalar.Int64).Value)
	s.False(IsNull(v))

	v, err = ScalarAt(arr, 1)
	s.Require().NoError(err)
	s.True(IsNull(v))
	s.False(IsPlaceholder(v))
	s.True(arrow.TypeEqual(arrow.PrimitiveTypes.Int64, v.DataType()))

	_, err = ScalarAt(arr, 2)
	s.ErrorIs(err, merr.ErrPreconditionViolated)
	_, err = ScalarAt(arr, -1)
	s.ErrorIs(err, merr.ErrPreconditionViolated)
	_, err = ScalarAt(nil, 0)
	s.ErrorIs(err, merr.ErrPreconditionViolated)
}

func (s *ScalarUtilTestSuite) TestScalarAtNullColumn() {
	arr := array.NewNull(2)
	defer arr.Release()

	v, err := ScalarAt(arr, 1)
	s.Require().NoError(err)
	s.Equal(scalar.ScalarNull, v)
	s.True(IsPlaceholder(v))
	s.True(IsPlaceholder(nil))
}

func (s *ScalarUtilTestSuite) TestScalarAtUnsupported() {
	sb := array.NewStructBuilder(s.pool, arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int64}))
	sb.Append(true)
	sb.FieldBuilder(0).(*array.Int64Builder).Append(1)
	arr := sb.NewArray()
	sb.Release()
	defer arr.Release()

	_, err := ScalarAt(arr, 0)
	s.ErrorIs(err, merr.ErrUnsupportedType)
}

func (s *ScalarUtilTestSuite) TestScalarAtList() {
	arr := s.listArray([][]int64{{1, 2}, {3}}, nil)
	defer arr.Release()

	v, err := ScalarAt(arr, 0)
	s.Require().NoError(err)
	defer Release(v)

	values, ok := ListValues(v)
	s.Require().True(ok)
	s.Equal([]int64{1, 2}, values.(*array.Int64).Int64Values())

	_, ok = ListValues(scalar.NewInt64Scalar(1))
	s.False(ok)
}

func (s *ScalarUtilTestSuite) TestScalarAtSlicedList() {
	arr := s.listArray([][]int64{{9, 9}, {1}, {5, 6}}, nil)
	defer arr.Release()
	sliced := array.NewSlice(arr, 1, 3)
	defer sliced.Release()

	for i, expected := range [][]int64{{1}, {5, 6}} {
		v, err := ScalarAt(sliced, i)
		s.Require().NoError(err)
		values, ok := ListValues(v)
		s.Require().True(ok)
		s.Equal(expected, values.(*array.Int64).Int64Values())
		Release(v)
	}

	fixed := array.NewFixedSizeListBuilder(s.pool, 2, arrow.PrimitiveTypes.Int64)
	fvb := fixed.ValueBuilder().(*array.Int64Builder)
	for _, row := range [][]int64{{1, 2}, {3, 4}, {5, 6}} {
		fixed.Append(true)
		fvb.AppendValues(row, nil)
	}
	farr := fixed.NewArray()
	fixed.Release()
	defer farr.Release()
	fsliced := array.NewSlice(farr, 2, 3)
	defer fsliced.Release()

	v, err := ScalarAt(fsliced, 0)
	s.Require().NoError(err)
	defer Release(v)
	values, ok := ListValues(v)
	s.Require().True(ok)
	s.Equal([]int64{5, 6}, values.(*array.Int64).Int64Values())
	s.True(arrow.TypeEqual(farr.DataType(), v.DataType()))
}

func (s *ScalarUtilTestSuite) TestScalarAtNestedList() {
	b := array.NewListBuilder(s.pool, arrow.ListOf(arrow.PrimitiveTypes.Int64))
	inner := b.ValueBuilder().(*array.ListBuilder)
	values := inner.ValueBuilder().(*array.Int64Builder)
	// [[1, 2]], [[3], [4, 5]]
	b.Append(true)
	inner.Append(true)
	values.AppendValues([]int64{1, 2}, nil)
	b.Append(true)
	inner.Append(true)
	values.Append(3)
	inner.Append(true)
	values.AppendValues([]int64{4, 5}, nil)
	arr := b.NewArray()
	b.Release()
	defer arr.Release()

	row, err := ScalarAt(arr, 1)
	s.Require().NoError(err)
	defer Release(row)
	rowValues, ok := ListValues(row)
	s.Require().True(ok)
	s.Equal(2, rowValues.Len())

	for i, expected := range [][]int64{{3}, {4, 5}} {
		v, err := ScalarAt(rowValues, i)
		s.Require().NoError(err)
		elems, ok := ListValues(v)
		s.Require().True(ok)
		s.Equal(expected, elems.(*array.Int64).Int64Values())
		Release(v)
	}
}

// =============================================================================
// Compare
// =============================================================================

func (s *ScalarUtilTestSuite) assertOrder(expected int, a, b scalar.Scalar) {
	c, err := Compare(a, b)
	s.Require().NoError(err, "%s vs %s", a, b)
	s.Equal(expected, c, "%s vs %s", a, b)
	c, err = Compare(b, a)
	s.Require().NoError(err)
	s.Equal(-expected, c, "%s vs %s", b, a)
}

func (s *ScalarUtilTestSuite) TestCompareNumeric() {
	s.assertOrder(1, scalar.NewInt64Scalar(100), scalar.NewInt64Scalar(1))
	s.assertOrder(0, scalar.NewInt32Scalar(7), scalar.NewInt32Scalar(7))
	s.assertOrder(-1, scalar.NewInt8Scalar(-3), scalar.NewInt8Scalar(2))
	s.assertOrder(1, scalar.NewUint64Scalar(math.MaxUint64), scalar.NewUint64Scalar(0))
	s.assertOrder(1, scalar.NewBooleanScalar(true), scalar.NewBooleanScalar(false))
	s.assertOrder(-1, scalar.NewFloat64Scalar(2.0), scalar.NewFloat64Scalar(50.0))
	s.assertOrder(1, scalar.NewFloat16Scalar(float16.New(1.5)), scalar.NewFloat16Scalar(float16.New(-2)))
}

func (s *ScalarUtilTestSuite) TestCompareNaN() {
	nan := scalar.NewFloat64Scalar(math.NaN())
	s.assertOrder(1, nan, scalar.NewFloat64Scalar(math.Inf(1)))
	s.assertOrder(0, nan, scalar.NewFloat64Scalar(math.NaN()))
	s.assertOrder(1, scalar.NewFloat32Scalar(float32(math.NaN())), scalar.NewFloat32Scalar(1))
}

func (s *ScalarUtilTestSuite) TestCompareNulls() {
	typedNull := scalar.MakeNullScalar(arrow.PrimitiveTypes.Int64)
	s.assertOrder(-1, typedNull, scalar.NewInt64Scalar(math.MinInt64))
	s.assertOrder(-1, scalar.ScalarNull, scalar.NewInt64Scalar(0))
	s.assertOrder(0, typedNull, scalar.ScalarNull)
	s.assertOrder(0, nil, typedNull)
}

func (s *ScalarUtilTestSuite) TestCompareBinary() {
	s.assertOrder(-1, scalar.NewStringScalar("abc"), scalar.NewStringScalar("abd"))
	s.assertOrder(-1, scalar.NewStringScalar("ab"), scalar.NewStringScalar("abc"))
	s.assertOrder(1, scalar.NewLargeStringScalar("b"), scalar.NewLargeStringScalar("a"))
	s.assertOrder(0,
		scalar.NewBinaryScalar(memory.NewBufferBytes([]byte{1, 2}), arrow.BinaryTypes.Binary),
		scalar.NewBinaryScalar(memory.NewBufferBytes([]byte{1, 2}), arrow.BinaryTypes.Binary))
}

func (s *ScalarUtilTestSuite) TestCompareDecimalAndTemporal() {
	dt := &arrow.Decimal128Type{Precision: 10, Scale: 2}
	s.assertOrder(1,
		scalar.NewDecimal128Scalar(decimal128.FromI64(100), dt),
		scalar.NewDecimal128Scalar(decimal128.FromI64(-5), dt))

	ts := arrow.FixedWidthTypes.Timestamp_us
	s.assertOrder(-1, scalar.NewTimestampScalar(1, ts), scalar.NewTimestampScalar(2, ts))
	s.assertOrder(1, scalar.NewDate32Scalar(19000), scalar.NewDate32Scalar(18000))
	s.assertOrder(-1,
		scalar.NewDayTimeIntervalScalar(arrow.DayTimeInterval{Days: 1, Milliseconds: 5}),
		scalar.NewDayTimeIntervalScalar(arrow.DayTimeInterval{Days: 1, Milliseconds: 7}))
	s.assertOrder(1,
		scalar.NewMonthDayNanoIntervalScalar(arrow.MonthDayNanoInterval{Months: 2}),
		scalar.NewMonthDayNanoIntervalScalar(arrow.MonthDayNanoInterval{Months: 1, Days: 40}))
}

func (s *ScalarUtilTestSuite) TestCompareLists() {
	arr := s.listArray(
		[][]int64{{2, 1}, {1, 4}, {2}, {2, 0}},
		[][]bool{{true, true}, {true, true}, {true}, {true, false}},
	)
	defer arr.Release()

	rows := make([]scalar.Scalar, arr.Len())
	for i := range rows {
		v, err := ScalarAt(arr, i)
		s.Require().NoError(err)
		rows[i] = v
	}
	defer func() {
		for _, v := range rows {
			Release(v)
		}
	}()

	s.assertOrder(1, rows[0], rows[1])
	s.assertOrder(-1, rows[2], rows[0])
	s.assertOrder(-1, rows[3], rows[0])
	s.assertOrder(0, rows[0], rows[0])
}

func (s *ScalarUtilTestSuite) TestCompareTypeMismatch() {
	_, err := Compare(scalar.NewInt64Scalar(1), scalar.NewInt32Scalar(1))
	s.ErrorIs(err, merr.ErrTypeMismatch)
	s.True(merr.IsInternal(err))

	_, err = Compare(
		scalar.NewTimestampScalar(1, arrow.FixedWidthTypes.Timestamp_us),
		scalar.NewTimestampScalar(1, arrow.FixedWidthTypes.Timestamp_ms))
	s.ErrorIs(err, merr.ErrTypeMismatch)
}
