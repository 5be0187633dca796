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
	"context"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"
	"github.com/stretchr/testify/suite"

	"github.com/montaglue/greaters/pkg/util/merr"
)

type ColumnarValueTestSuite struct {
	suite.Suite
	pool *memory.CheckedAllocator
}

func (s *ColumnarValueTestSuite) SetupTest() {
	s.pool = memory.NewCheckedAllocator(memory.NewGoAllocator())
}

func (s *ColumnarValueTestSuite) TearDownTest() {
	s.pool.AssertSize(s.T(), 0)
}

func TestColumnarValueTestSuite(t *testing.T) {
	suite.Run(t, new(ColumnarValueTestSuite))
}

func (s *ColumnarValueTestSuite) int64Array(values ...int64) arrow.Array {
	b := array.NewInt64Builder(s.pool)
	defer b.Release()
	b.AppendValues(values, nil)
	return b.NewArray()
}

func (s *ColumnarValueTestSuite) TestDataType() {
	arr := s.int64Array(1, 2)
	defer arr.Release()

	s.Equal(arrow.PrimitiveTypes.Int64, NewArrayValue(arr).DataType())
	s.False(NewArrayValue(arr).IsScalar())
	s.Equal(arrow.BinaryTypes.String, NewScalarValue(scalar.NewStringScalar("x")).DataType())
	s.Equal(arrow.Null, NewScalarValue(nil).DataType())
	s.True(NewScalarValue(nil).IsScalar())
}

func (s *ColumnarValueTestSuite) TestBroadcast() {
	arr := s.int64Array(1, 2, 3)
	defer arr.Release()

	values := []ColumnarValue{
		NewScalarValue(scalar.NewInt64Scalar(7)),
		NewArrayValue(arr),
		NewScalarValue(scalar.MakeNullScalar(arrow.PrimitiveTypes.Int64)),
	}
	s.Equal(3, RowCount(values))

	arrays, err := ValuesToArrays(s.pool, values)
	s.Require().NoError(err)
	defer ReleaseArrays(arrays)

	s.Len(arrays, 3)
	s.Equal([]int64{7, 7, 7}, arrays[0].(*array.Int64).Int64Values())
	s.True(array.Equal(arr, arrays[1]))
	s.Equal(3, arrays[2].NullN())
}

func (s *ColumnarValueTestSuite) TestAllScalars() {
	values := []ColumnarValue{
		NewScalarValue(scalar.NewInt64Scalar(1)),
		NewScalarValue(scalar.NewInt64Scalar(2)),
	}
	s.Equal(1, RowCount(values))

	arrays, err := ValuesToArrays(s.pool, values)
	s.Require().NoError(err)
	defer ReleaseArrays(arrays)
	s.Equal(1, arrays[0].Len())
	s.Equal(1, arrays[1].Len())
}

func (s *ColumnarValueTestSuite) TestRowCountMismatch() {
	a := s.int64Array(1, 2, 3)
	defer a.Release()
	b := s.int64Array(1, 2)
	defer b.Release()

	_, err := ValuesToArrays(s.pool, []ColumnarValue{
		NewScalarValue(scalar.NewInt64Scalar(1)),
		NewArrayValue(a),
		NewArrayValue(b),
	})
	s.ErrorIs(err, merr.ErrRowCountMismatch)
}

func (s *ColumnarValueTestSuite) TestFuncContext() {
	ctx := NewFuncContext(s.pool)
	s.Equal(s.pool, ctx.Pool())
	s.NoError(ctx.Err())

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	cctx := ctx.WithContext(cancelled)
	s.ErrorIs(cctx.Err(), context.Canceled)
	s.NoError(ctx.Err())

	s.Equal(memory.DefaultAllocator, NewFuncContext(nil).Pool())

	var nilCtx *FuncContext
	s.Equal(memory.DefaultAllocator, nilCtx.Pool())
	s.NoError(nilCtx.Err())
	s.Equal(context.Background(), nilCtx.Context())
	s.ErrorIs(nilCtx.WithContext(cancelled).Err(), context.Canceled)
}
