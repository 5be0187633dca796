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

package chain

import (
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/montaglue/greaters/internal/util/function/chain/types"
	"github.com/montaglue/greaters/pkg/log"
	"github.com/montaglue/greaters/pkg/util/merr"
)

// Operator transforms a record batch. OutputSchema derives the output
// schema from the input schema before any data is seen.
type Operator interface {
	Name() string
	Inputs() []string
	Outputs() []string
	OutputSchema(in *arrow.Schema) (*arrow.Schema, error)
	// Execute returns a new record owned by the caller; input is not released.
	Execute(ctx *types.FuncContext, input arrow.Record) (arrow.Record, error)
}

// =============================================================================
// Column Helpers
// =============================================================================

func fieldIndex(schema *arrow.Schema, name string) (int, bool) {
	indices := schema.FieldIndices(name)
	if len(indices) == 0 {
		return -1, false
	}
	return indices[0], true
}

// flatten returns the chunks of c as one array owned by the caller.
func flatten(mem memory.Allocator, c *arrow.Chunked) (arrow.Array, error) {
	chunks := c.Chunks()
	switch len(chunks) {
	case 0:
		return array.MakeArrayOfNull(mem, c.DataType(), 0), nil
	case 1:
		chunks[0].Retain()
		return chunks[0], nil
	default:
		return array.Concatenate(chunks, mem)
	}
}

func releaseChunked(cols []*arrow.Chunked) {
	for _, c := range cols {
		if c != nil {
			c.Release()
		}
	}
}

// =============================================================================
// Operators
// =============================================================================

// BaseOp is the base operator with common fields.
type BaseOp struct {
	inputs  []string
	outputs []string
}

func (o *BaseOp) Inputs() []string  { return o.inputs }
func (o *BaseOp) Outputs() []string { return o.outputs }

// -----------------------------------------------------------------------------
// MapOp
// -----------------------------------------------------------------------------

// MapOp applies a function to specified columns of the record.
// Column mapping is handled at the Operator layer, not the Function layer.
// Output columns replace input columns of the same name and are appended last.
type MapOp struct {
	BaseOp
	function types.FunctionExpr
}

var _ Operator = (*MapOp)(nil)

// NewMapOp creates a new MapOp with explicit column mappings.
func NewMapOp(function types.FunctionExpr, inputCols, outputCols []string) (*MapOp, error) {
	if function == nil {
		return nil, merr.WrapErrParameterInvalidMsg("map_op: function is nil")
	}
	if len(outputCols) == 0 {
		return nil, merr.WrapErrParameterInvalidMsg("map_op: no output column for %s", function.Name())
	}

	// Functions with dynamic output types return a single column.
	outputTypes := function.OutputDataTypes()
	expected := lo.Ternary(outputTypes == nil, 1, len(outputTypes))
	if len(outputCols) != expected {
		return nil, merr.WrapErrParameterInvalid(expected, len(outputCols), "map_op: output columns count")
	}

	return &MapOp{
		BaseOp: BaseOp{
			inputs:  inputCols,
			outputs: outputCols,
		},
		function: function,
	}, nil
}

// NewFunctionMapOp resolves name in the global function registry and maps it over inputCols.
func NewFunctionMapOp(name string, params map[string]interface{}, inputCols, outputCols []string) (*MapOp, error) {
	function, err := types.CreateFunction(name, params)
	if err != nil {
		return nil, err
	}
	return NewMapOp(function, inputCols, outputCols)
}

func (o *MapOp) Name() string { return "Map" }

// OutputSchema type checks the function against in.
func (o *MapOp) OutputSchema(in *arrow.Schema) (*arrow.Schema, error) {
	argTypes := make([]arrow.DataType, len(o.inputs))
	for i, name := range o.inputs {
		idx, ok := fieldIndex(in, name)
		if !ok {
			return nil, merr.WrapErrColumnNotFound(name, "map_op")
		}
		argTypes[i] = in.Field(idx).Type
	}

	outputTypes := o.function.OutputDataTypes()
	if outputTypes == nil {
		dt, err := o.function.ReturnType(argTypes)
		if err != nil {
			return nil, err
		}
		outputTypes = []arrow.DataType{dt}
	}
	return o.mergeSchema(in, outputTypes), nil
}

func (o *MapOp) mergeSchema(in *arrow.Schema, outputTypes []arrow.DataType) *arrow.Schema {
	fields := make([]arrow.Field, 0, in.NumFields()+len(o.outputs))
	for _, f := range in.Fields() {
		if !lo.Contains(o.outputs, f.Name) {
			fields = append(fields, f)
		}
	}
	for i, name := range o.outputs {
		fields = append(fields, arrow.Field{Name: name, Type: outputTypes[i], Nullable: true})
	}
	meta := in.Metadata()
	return arrow.NewSchema(fields, &meta)
}

func (o *MapOp) Execute(ctx *types.FuncContext, input arrow.Record) (arrow.Record, error) {
	// 1. Read input columns from the record using inputs
	inputs := make([]*arrow.Chunked, 0, len(o.inputs))
	defer func() { releaseChunked(inputs) }()
	for _, name := range o.inputs {
		idx, ok := fieldIndex(input.Schema(), name)
		if !ok {
			return nil, merr.WrapErrColumnNotFound(name, "map_op")
		}
		col := input.Column(idx)
		inputs = append(inputs, arrow.NewChunked(col.DataType(), []arrow.Array{col}))
	}

	// 2. Call FunctionExpr to process columns
	outputs, err := o.function.Execute(ctx, inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "map_op: %s", o.function.Name())
	}
	defer releaseChunked(outputs)

	// 3. Validate output count, dynamic output types skipped it at creation time
	if len(outputs) != len(o.outputs) {
		return nil, merr.WrapErrPreconditionViolated("map_op: function returned %d outputs, expected %d",
			len(outputs), len(o.outputs))
	}

	columns := make([]arrow.Array, 0, input.NumCols()+int64(len(outputs)))
	defer func() { types.ReleaseArrays(columns) }()
	for i, f := range input.Schema().Fields() {
		if lo.Contains(o.outputs, f.Name) {
			continue
		}
		col := input.Column(i)
		col.Retain()
		columns = append(columns, col)
	}
	outputTypes := make([]arrow.DataType, len(outputs))
	for i, out := range outputs {
		if int64(out.Len()) != input.NumRows() {
			return nil, merr.WrapErrRowCountMismatch(int(input.NumRows()), out.Len(), "map_op: "+o.outputs[i])
		}
		col, err := flatten(ctx.Pool(), out)
		if err != nil {
			return nil, errors.Wrap(err, "map_op: failed to flatten output")
		}
		columns = append(columns, col)
		outputTypes[i] = out.DataType()
	}

	// 4. Assemble the record, it retains the columns
	schema := o.mergeSchema(input.Schema(), outputTypes)
	return array.NewRecord(schema, columns, input.NumRows()), nil
}

func (o *MapOp) String() string {
	if o.function != nil {
		return fmt.Sprintf("Map(%s)", o.function.Name())
	}
	return "Map(nil)"
}

// -----------------------------------------------------------------------------
// SelectOp
// -----------------------------------------------------------------------------

// SelectOp selects specific columns from the record.
// Note: Uses BaseOp.inputs as the column names to select.
// BaseOp.outputs is set to the same as inputs since selected columns are output.
type SelectOp struct {
	BaseOp
}

var _ Operator = (*SelectOp)(nil)

// NewSelectOp creates a new SelectOp with the given columns.
func NewSelectOp(columns []string) *SelectOp {
	return &SelectOp{
		BaseOp: BaseOp{
			inputs:  columns,
			outputs: columns,
		},
	}
}

func (o *SelectOp) Name() string { return "Select" }

func (o *SelectOp) OutputSchema(in *arrow.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(o.inputs))
	for _, name := range o.inputs {
		idx, ok := fieldIndex(in, name)
		if !ok {
			return nil, merr.WrapErrColumnNotFound(name, "select_op")
		}
		fields = append(fields, in.Field(idx))
	}
	meta := in.Metadata()
	return arrow.NewSchema(fields, &meta), nil
}

func (o *SelectOp) Execute(ctx *types.FuncContext, input arrow.Record) (arrow.Record, error) {
	schema, err := o.OutputSchema(input.Schema())
	if err != nil {
		return nil, err
	}
	columns := make([]arrow.Array, 0, len(o.inputs))
	for _, name := range o.inputs {
		idx, _ := fieldIndex(input.Schema(), name)
		columns = append(columns, input.Column(idx))
	}
	return array.NewRecord(schema, columns, input.NumRows()), nil
}

func (o *SelectOp) String() string {
	return fmt.Sprintf("Select(%v)", o.inputs)
}

// =============================================================================
// Chain
// =============================================================================

// Chain runs operators in order, feeding each output to the next operator.
type Chain struct {
	ops []Operator
}

func NewChain(ops ...Operator) *Chain {
	return &Chain{ops: ops}
}

func (c *Chain) Operators() []Operator { return c.ops }

// OutputSchema derives the schema produced by the whole chain.
func (c *Chain) OutputSchema(in *arrow.Schema) (*arrow.Schema, error) {
	schema := in
	for _, op := range c.ops {
		next, err := op.OutputSchema(schema)
		if err != nil {
			return nil, errors.Wrapf(err, "chain: %s", op.Name())
		}
		schema = next
	}
	return schema, nil
}

// Execute runs the chain over input. The caller owns the returned record.
func (c *Chain) Execute(ctx *types.FuncContext, input arrow.Record) (arrow.Record, error) {
	current := input
	current.Retain()
	for _, op := range c.ops {
		next, err := op.Execute(ctx, current)
		current.Release()
		if err != nil {
			log.Debug("chain failed",
				log.FieldComponent("chain"),
				zap.String("operator", op.Name()),
				zap.Error(err))
			return nil, err
		}
		current = next
	}
	return current, nil
}

func (c *Chain) String() string {
	names := lo.Map(c.ops, func(op Operator, _ int) string { return fmt.Sprint(op) })
	return strings.Join(names, " -> ")
}
