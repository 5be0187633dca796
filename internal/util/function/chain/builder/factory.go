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
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"
	"github.com/apache/arrow/go/v17/arrow/float16"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/montaglue/greaters/internal/util/function/chain/types"
	"github.com/montaglue/greaters/pkg/util/merr"
)

// NewBuilder creates a ColumnBuilder for dt with room for capacity rows.
// dt must belong to the supported type set, see types.CheckSupportedType.
func NewBuilder(mem memory.Allocator, dt arrow.DataType, capacity int, opts ...Option) (ColumnBuilder, error) {
	if err := types.CheckSupportedType(dt); err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	raw := array.NewBuilder(mem, dt)
	b, err := bind(raw, dt, capacity, newOptions(opts...))
	if err != nil {
		raw.Release()
		return nil, err
	}
	return b, nil
}

// bind wraps raw, the Arrow builder of dt, into the adapter of dt.
func bind(raw array.Builder, dt arrow.DataType, capacity int, o *options) (ColumnBuilder, error) {
	if capacity > 0 {
		raw.Reserve(capacity)
	}
	if rd, ok := raw.(interface{ ReserveData(int) }); ok && o.dataCapacity > 0 {
		rd.ReserveData(o.dataCapacity)
	}

	switch dt.ID() {
	case arrow.NULL:
		return newNullBuilder(raw, dt), nil
	case arrow.BOOL:
		return bindValue(raw, dt, func(s *scalar.Boolean) bool { return s.Value })
	case arrow.INT8:
		return bindValue(raw, dt, func(s *scalar.Int8) int8 { return s.Value })
	case arrow.INT16:
		return bindValue(raw, dt, func(s *scalar.Int16) int16 { return s.Value })
	case arrow.INT32:
		return bindValue(raw, dt, func(s *scalar.Int32) int32 { return s.Value })
	case arrow.INT64:
		return bindValue(raw, dt, func(s *scalar.Int64) int64 { return s.Value })
	case arrow.UINT8:
		return bindValue(raw, dt, func(s *scalar.Uint8) uint8 { return s.Value })
	case arrow.UINT16:
		return bindValue(raw, dt, func(s *scalar.Uint16) uint16 { return s.Value })
	case arrow.UINT32:
		return bindValue(raw, dt, func(s *scalar.Uint32) uint32 { return s.Value })
	case arrow.UINT64:
		return bindValue(raw, dt, func(s *scalar.Uint64) uint64 { return s.Value })
	case arrow.FLOAT16:
		return bindValue(raw, dt, func(s *scalar.Float16) float16.Num { return s.Value })
	case arrow.FLOAT32:
		return bindValue(raw, dt, func(s *scalar.Float32) float32 { return s.Value })
	case arrow.FLOAT64:
		return bindValue(raw, dt, func(s *scalar.Float64) float64 { return s.Value })
	case arrow.STRING:
		return bindValue(raw, dt, func(s *scalar.String) string { return string(s.Data()) })
	case arrow.LARGE_STRING:
		return bindValue(raw, dt, func(s *scalar.LargeString) string { return string(s.Data()) })
	case arrow.BINARY:
		return bindValue(raw, dt, func(s *scalar.Binary) []byte { return s.Data() })
	case arrow.LARGE_BINARY:
		return bindValue(raw, dt, func(s *scalar.LargeBinary) []byte { return s.Data() })
	case arrow.FIXED_SIZE_BINARY:
		return bindValue(raw, dt, func(s *scalar.FixedSizeBinary) []byte { return s.Data() })
	case arrow.DECIMAL128:
		return bindValue(raw, dt, func(s *scalar.Decimal128) decimal128.Num { return s.Value })
	case arrow.DECIMAL256:
		return bindValue(raw, dt, func(s *scalar.Decimal256) decimal256.Num { return s.Value })
	case arrow.DATE32:
		return bindValue(raw, dt, func(s *scalar.Date32) arrow.Date32 { return s.Value })
	case arrow.DATE64:
		return bindValue(raw, dt, func(s *scalar.Date64) arrow.Date64 { return s.Value })
	case arrow.TIME32:
		return bindValue(raw, dt, func(s *scalar.Time32) arrow.Time32 { return s.Value })
	case arrow.TIME64:
		return bindValue(raw, dt, func(s *scalar.Time64) arrow.Time64 { return s.Value })
	case arrow.TIMESTAMP:
		return bindValue(raw, dt, func(s *scalar.Timestamp) arrow.Timestamp { return s.Value })
	case arrow.DURATION:
		return bindValue(raw, dt, func(s *scalar.Duration) arrow.Duration { return s.Value })
	case arrow.INTERVAL_MONTHS:
		return bindValue(raw, dt, func(s *scalar.MonthInterval) arrow.MonthInterval { return s.Value })
	case arrow.INTERVAL_DAY_TIME:
		return bindValue(raw, dt, func(s *scalar.DayTimeInterval) arrow.DayTimeInterval { return s.Value })
	case arrow.INTERVAL_MONTH_DAY_NANO:
		return bindValue(raw, dt, func(s *scalar.MonthDayNanoInterval) arrow.MonthDayNanoInterval { return s.Value })
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return bindList(raw, dt, capacity, o)
	default:
		return nil, merr.WrapErrUnsupportedType(dt)
	}
}

func bindValue[T any, S scalar.Scalar](raw array.Builder, dt arrow.DataType, value func(S) T) (ColumnBuilder, error) {
	typed, ok := raw.(appender[T])
	if !ok {
		return nil, merr.WrapErrTypeMismatch(fmt.Sprintf("%T", raw), dt)
	}
	return newValueBuilder(typed, dt, value), nil
}

func bindList(raw array.Builder, dt arrow.DataType, capacity int, o *options) (ColumnBuilder, error) {
	lb, ok := raw.(listAppender)
	if !ok {
		return nil, merr.WrapErrTypeMismatch(fmt.Sprintf("%T", raw), dt)
	}
	elem := types.ElemType(dt)
	values, err := bind(lb.ValueBuilder(), elem, capacity, o)
	if err != nil {
		return nil, err
	}
	size := -1
	if fixed, ok := dt.(*arrow.FixedSizeListType); ok {
		size = int(fixed.Len())
	}
	return newListBuilder(lb, dt, elem, size, values), nil
}
