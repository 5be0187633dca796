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

package expr

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/arrow/scalar"

	"github.com/montaglue/greaters/internal/util/function/chain/builder"
	"github.com/montaglue/greaters/internal/util/function/chain/scalarutil"
	"github.com/montaglue/greaters/pkg/util/merr"
)

// Greatest returns, for every row, the greatest value among columns.
//
// Nulls never win over a present value and a row where every value is null
// yields null. On ties the value of the earlier column is kept. columns must
// share one type and one length; the caller releases the result.
func Greatest(mem memory.Allocator, columns []arrow.Array, opts ...builder.Option) (arrow.Array, error) {
	if len(columns) < 2 {
		return nil, merr.WrapErrArity(GreatestName)
	}
	for i, col := range columns {
		if col == nil {
			return nil, merr.WrapErrPreconditionViolated("column %d is nil", i)
		}
	}
	dt := columns[0].DataType()
	rows := columns[0].Len()
	for i, col := range columns[1:] {
		if !arrow.TypeEqual(col.DataType(), dt) {
			return nil, merr.WrapErrTypeConsistency(GreatestName)
		}
		if col.Len() != rows {
			return nil, merr.WrapErrRowCountMismatch(rows, col.Len(), fmt.Sprintf("column %d", i+1))
		}
	}

	b, err := builder.NewBuilder(mem, dt, rows, opts...)
	if err != nil {
		return nil, err
	}
	defer b.Release()

	for row := 0; row < rows; row++ {
		greatest, err := greatestAt(columns, row)
		if err != nil {
			return nil, err
		}
		err = b.AppendScalar(greatest)
		scalarutil.Release(greatest)
		if err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

// greatestAt folds row of every column, starting from the untyped null.
func greatestAt(columns []arrow.Array, row int) (scalar.Scalar, error) {
	var acc scalar.Scalar = scalar.ScalarNull
	for _, col := range columns {
		v, err := scalarutil.ScalarAt(col, row)
		if err != nil {
			scalarutil.Release(acc)
			return nil, err
		}
		replace := scalarutil.IsPlaceholder(acc)
		if !replace {
			c, err := scalarutil.Compare(v, acc)
			if err != nil {
				scalarutil.Release(v)
				scalarutil.Release(acc)
				return nil, err
			}
			replace = c > 0
		}
		if replace {
			scalarutil.Release(acc)
			acc = v
		} else {
			scalarutil.Release(v)
		}
	}
	return acc, nil
}
