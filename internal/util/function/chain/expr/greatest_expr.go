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
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/montaglue/greaters/configs"
	"github.com/montaglue/greaters/internal/util/function/chain/builder"
	"github.com/montaglue/greaters/internal/util/function/chain/types"
	"github.com/montaglue/greaters/pkg/log"
	"github.com/montaglue/greaters/pkg/metrics"
	"github.com/montaglue/greaters/pkg/util/merr"
)

const (
	GreatestName = "greatest"

	// ParamDataCapacity overrides the byte capacity reserved by text and binary output builders.
	ParamDataCapacity = "data_capacity"
)

// =============================================================================
// GreatestExpr
// =============================================================================

// GreatestExpr is the row-wise maximum over two or more arguments of one type.
type GreatestExpr struct {
	dataCapacity int
}

var _ types.FunctionExpr = (*GreatestExpr)(nil)

func NewGreatestExpr(dataCapacity int) *GreatestExpr {
	return &GreatestExpr{dataCapacity: dataCapacity}
}

// NewGreatestExprFromParams creates a GreatestExpr from registry params.
// Without data_capacity the configured default is used.
func NewGreatestExprFromParams(params map[string]interface{}) (types.FunctionExpr, error) {
	capacity := configs.GetGlobalConfig().Function.Greatest.DataCapacity
	if v, ok := params[ParamDataCapacity]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return nil, merr.WrapErrParameterInvalid("int", cast.ToString(v), ParamDataCapacity)
		}
		if n < 0 {
			return nil, merr.WrapErrParameterInvalidMsg("%s must not be negative, got %d", ParamDataCapacity, n)
		}
		capacity = n
	}
	return NewGreatestExpr(capacity), nil
}

func (e *GreatestExpr) Name() string { return GreatestName }

func (e *GreatestExpr) Signature() types.Signature {
	return types.NewVariadicAnySignature(types.VolatilityImmutable)
}

// OutputDataTypes is nil, the output type is the common argument type.
func (e *GreatestExpr) OutputDataTypes() []arrow.DataType { return nil }

func (e *GreatestExpr) DataCapacity() int { return e.dataCapacity }

func (e *GreatestExpr) ValidateArgs(n int) error {
	if n < 2 {
		return merr.WrapErrArity(GreatestName)
	}
	return nil
}

func (e *GreatestExpr) ValidateArgTypes(argTypes []arrow.DataType) error {
	if err := e.ValidateArgs(len(argTypes)); err != nil {
		return err
	}
	for i := 1; i < len(argTypes); i++ {
		if argTypes[i-1] == nil || argTypes[i] == nil || !arrow.TypeEqual(argTypes[i-1], argTypes[i]) {
			return merr.WrapErrTypeConsistency(GreatestName)
		}
	}
	return nil
}

func (e *GreatestExpr) ReturnType(argTypes []arrow.DataType) (arrow.DataType, error) {
	if err := e.ValidateArgTypes(argTypes); err != nil {
		return nil, err
	}
	if err := types.CheckSupportedType(argTypes[0]); err != nil {
		return nil, err
	}
	return argTypes[0], nil
}

func (e *GreatestExpr) Invoke(ctx *types.FuncContext, args []types.ColumnarValue) (arrow.Array, error) {
	start := time.Now()
	out, err := e.invoke(ctx, args)
	rows := 0
	if out != nil {
		rows = out.Len()
	}
	e.observe(start, rows, lo.Map(args, func(v types.ColumnarValue, _ int) arrow.DataType { return v.DataType() }), err)
	return out, err
}

func (e *GreatestExpr) invoke(ctx *types.FuncContext, args []types.ColumnarValue) (arrow.Array, error) {
	if err := e.ValidateArgs(len(args)); err != nil {
		return nil, err
	}
	arrays, err := types.ValuesToArrays(ctx.Pool(), args)
	if err != nil {
		return nil, err
	}
	defer types.ReleaseArrays(arrays)
	return Greatest(ctx.Pool(), arrays, builder.WithDataCapacity(e.dataCapacity))
}

// Execute reduces chunked columns. Inputs sharing one chunk layout are
// reduced chunk by chunk, other inputs are concatenated first.
func (e *GreatestExpr) Execute(ctx *types.FuncContext, inputs []*arrow.Chunked) ([]*arrow.Chunked, error) {
	start := time.Now()
	argTypes := lo.Map(inputs, func(c *arrow.Chunked, _ int) arrow.DataType {
		if c == nil {
			return nil
		}
		return c.DataType()
	})
	out, err := e.execute(ctx, inputs, argTypes)
	rows := 0
	if out != nil {
		rows = out.Len()
	}
	e.observe(start, rows, argTypes, err)
	if err != nil {
		return nil, err
	}
	return []*arrow.Chunked{out}, nil
}

func (e *GreatestExpr) execute(ctx *types.FuncContext, inputs []*arrow.Chunked, argTypes []arrow.DataType) (*arrow.Chunked, error) {
	dt, err := e.ReturnType(argTypes)
	if err != nil {
		return nil, err
	}

	var batches [][]arrow.Array
	if chunkAligned(inputs) {
		batches = make([][]arrow.Array, len(inputs[0].Chunks()))
		for i := range batches {
			batches[i] = lo.Map(inputs, func(c *arrow.Chunked, _ int) arrow.Array { return c.Chunk(i) })
		}
	} else {
		columns, err := concatChunks(ctx.Pool(), inputs)
		if err != nil {
			return nil, err
		}
		defer types.ReleaseArrays(columns)
		batches = [][]arrow.Array{columns}
	}

	outs := make([]arrow.Array, 0, len(batches))
	defer func() { types.ReleaseArrays(outs) }()
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "greatest cancelled")
		}
		out, err := Greatest(ctx.Pool(), batch, builder.WithDataCapacity(e.dataCapacity))
		if err != nil {
			return nil, err
		}
		outs = append(outs, out)
	}
	return arrow.NewChunked(dt, outs), nil
}

// chunkAligned reports whether every input has the chunk lengths of the first one.
func chunkAligned(inputs []*arrow.Chunked) bool {
	first := inputs[0].Chunks()
	for _, c := range inputs[1:] {
		chunks := c.Chunks()
		if len(chunks) != len(first) {
			return false
		}
		for i := range chunks {
			if chunks[i].Len() != first[i].Len() {
				return false
			}
		}
	}
	return true
}

func concatChunks(mem memory.Allocator, inputs []*arrow.Chunked) ([]arrow.Array, error) {
	columns := make([]arrow.Array, 0, len(inputs))
	for _, c := range inputs {
		var (
			col arrow.Array
			err error
		)
		switch chunks := c.Chunks(); len(chunks) {
		case 0:
			col = array.MakeArrayOfNull(mem, c.DataType(), 0)
		case 1:
			col = chunks[0]
			col.Retain()
		default:
			col, err = array.Concatenate(chunks, mem)
		}
		if err != nil {
			types.ReleaseArrays(columns)
			return nil, errors.Wrap(err, "failed to concatenate chunks")
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func (e *GreatestExpr) observe(start time.Time, rows int, argTypes []arrow.DataType, err error) {
	metrics.ObserveInvocation(GreatestName, start, rows, err == nil, merr.Code(err))
	typeNames := lo.Map(argTypes, func(dt arrow.DataType, _ int) string {
		if dt == nil {
			return "<nil>"
		}
		return dt.String()
	})
	if err == nil {
		log.Debug("function invoked",
			log.FieldFunction(GreatestName),
			zap.Strings("argTypes", typeNames),
			zap.Int("rows", rows),
			zap.Duration("elapsed", time.Since(start)))
		return
	}
	fields := []zap.Field{
		log.FieldFunction(GreatestName),
		zap.Strings("argTypes", typeNames),
		zap.Int32("code", merr.Code(err)),
		zap.Error(err),
	}
	if merr.IsInternal(err) {
		log.Warn("function failed on broken invariant", fields...)
		return
	}
	log.Debug("function rejected arguments", fields...)
}

func init() {
	types.MustRegisterFunction(GreatestName, NewGreatestExprFromParams)
}
