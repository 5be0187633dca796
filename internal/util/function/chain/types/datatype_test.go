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
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/assert"

	"github.com/montaglue/greaters/pkg/util/merr"
)

func TestCheckSupportedType(t *testing.T) {
	supported := []arrow.DataType{
		arrow.Null,
		arrow.FixedWidthTypes.Boolean,
		arrow.PrimitiveTypes.Int8,
		arrow.PrimitiveTypes.Uint64,
		arrow.FixedWidthTypes.Float16,
		arrow.PrimitiveTypes.Float64,
		arrow.BinaryTypes.String,
		arrow.BinaryTypes.LargeBinary,
		&arrow.FixedSizeBinaryType{ByteWidth: 4},
		&arrow.Decimal128Type{Precision: 10, Scale: 2},
		&arrow.Decimal256Type{Precision: 40, Scale: 2},
		arrow.FixedWidthTypes.Date32,
		arrow.FixedWidthTypes.Time64ns,
		arrow.FixedWidthTypes.Timestamp_us,
		arrow.FixedWidthTypes.MonthInterval,
		arrow.FixedWidthTypes.DayTimeInterval,
		arrow.FixedWidthTypes.MonthDayNanoInterval,
		arrow.FixedWidthTypes.Duration_ms,
		arrow.ListOf(arrow.PrimitiveTypes.Int64),
		arrow.LargeListOf(arrow.BinaryTypes.String),
		arrow.FixedSizeListOf(3, arrow.PrimitiveTypes.Float32),
		arrow.ListOf(arrow.ListOf(arrow.PrimitiveTypes.Int32)),
	}
	for _, dt := range supported {
		assert.NoError(t, CheckSupportedType(dt), dt.String())
		assert.True(t, IsSupportedType(dt), dt.String())
	}

	unsupported := []arrow.DataType{
		arrow.StructOf(arrow.Field{Name: "a", Type: arrow.PrimitiveTypes.Int64}),
		arrow.MapOf(arrow.BinaryTypes.String, arrow.PrimitiveTypes.Int64),
		&arrow.DictionaryType{IndexType: arrow.PrimitiveTypes.Int32, ValueType: arrow.BinaryTypes.String},
		arrow.ListOf(arrow.StructOf()),
		nil,
	}
	for _, dt := range unsupported {
		err := CheckSupportedType(dt)
		assert.ErrorIs(t, err, merr.ErrUnsupportedType)
		assert.False(t, IsSupportedType(dt))
	}

	err := CheckSupportedType(arrow.ListOf(arrow.StructOf()))
	assert.Contains(t, err.Error(), "list")
}

func TestElemType(t *testing.T) {
	assert.Equal(t, arrow.PrimitiveTypes.Int64, ElemType(arrow.ListOf(arrow.PrimitiveTypes.Int64)))
	assert.Equal(t, arrow.BinaryTypes.String, ElemType(arrow.LargeListOf(arrow.BinaryTypes.String)))
	assert.Equal(t, arrow.PrimitiveTypes.Int8, ElemType(arrow.FixedSizeListOf(2, arrow.PrimitiveTypes.Int8)))
	assert.Nil(t, ElemType(arrow.PrimitiveTypes.Int64))
}
