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

	"github.com/montaglue/greaters/pkg/util/merr"
)

type typeName string

func (n typeName) String() string { return string(n) }

// CheckSupportedType returns nil if dt belongs to the closed set of types
// functions in this package can compare and build. List types are checked
// recursively through their element type.
func CheckSupportedType(dt arrow.DataType) error {
	if dt == nil {
		return merr.WrapErrUnsupportedType(typeName("<nil>"))
	}
	switch dt.ID() {
	case arrow.NULL, arrow.BOOL,
		arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64,
		arrow.BINARY, arrow.LARGE_BINARY, arrow.STRING, arrow.LARGE_STRING, arrow.FIXED_SIZE_BINARY,
		arrow.DECIMAL128, arrow.DECIMAL256,
		arrow.DATE32, arrow.DATE64, arrow.TIME32, arrow.TIME64, arrow.TIMESTAMP,
		arrow.INTERVAL_MONTHS, arrow.INTERVAL_DAY_TIME, arrow.INTERVAL_MONTH_DAY_NANO,
		arrow.DURATION:
		return nil
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		elem := ElemType(dt)
		if elem == nil {
			return merr.WrapErrUnsupportedType(dt)
		}
		if err := CheckSupportedType(elem); err != nil {
			return merr.WrapErrUnsupportedType(dt)
		}
		return nil
	default:
		return merr.WrapErrUnsupportedType(dt)
	}
}

// IsSupportedType is the boolean form of CheckSupportedType.
func IsSupportedType(dt arrow.DataType) bool {
	return CheckSupportedType(dt) == nil
}

// ElemType returns the element type of a list-like type, or nil.
func ElemType(dt arrow.DataType) arrow.DataType {
	switch t := dt.(type) {
	case *arrow.ListType:
		return t.Elem()
	case *arrow.LargeListType:
		return t.Elem()
	case *arrow.FixedSizeListType:
		return t.Elem()
	default:
		return nil
	}
}
