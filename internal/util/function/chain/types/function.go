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
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

// =============================================================================
// Signature
// =============================================================================

// TypeSignature describes the argument list a function accepts.
type TypeSignature int

const (
	// TypeSignatureVariadicAny accepts one or more arguments of any type.
	// Type agreement between arguments is checked by ReturnType.
	TypeSignatureVariadicAny TypeSignature = iota
	// TypeSignatureExact accepts a fixed list of argument types.
	TypeSignatureExact
)

func (t TypeSignature) String() string {
	switch t {
	case TypeSignatureVariadicAny:
		return "VariadicAny"
	case TypeSignatureExact:
		return "Exact"
	default:
		return fmt.Sprintf("TypeSignature(%d)", int(t))
	}
}

// Volatility tells the planner whether results may be cached or folded.
type Volatility int

const (
	// VolatilityImmutable functions always return the same output for the same input.
	VolatilityImmutable Volatility = iota
	VolatilityStable
	VolatilityVolatile
)

func (v Volatility) String() string {
	switch v {
	case VolatilityImmutable:
		return "Immutable"
	case VolatilityStable:
		return "Stable"
	case VolatilityVolatile:
		return "Volatile"
	default:
		return fmt.Sprintf("Volatility(%d)", int(v))
	}
}

type Signature struct {
	Type       TypeSignature
	Volatility Volatility
}

func NewVariadicAnySignature(volatility Volatility) Signature {
	return Signature{Type: TypeSignatureVariadicAny, Volatility: volatility}
}

func (s Signature) String() string {
	return fmt.Sprintf("%s(%s)", s.Type, s.Volatility)
}

// =============================================================================
// FunctionExpr
// =============================================================================

// FunctionExpr is a scalar function evaluated column-wise over Arrow data.
// Operators resolve column names; a FunctionExpr only sees positional inputs.
type FunctionExpr interface {
	// Name returns the registered name of the function.
	Name() string
	Signature() Signature
	// OutputDataTypes returns the static output types, or nil when the
	// output type depends on the argument types (see ReturnType).
	OutputDataTypes() []arrow.DataType
	// ReturnType validates the argument types and returns the output type.
	ReturnType(argTypes []arrow.DataType) (arrow.DataType, error)
	// Invoke evaluates the function over one batch. Scalars are broadcast to
	// the batch row count. The caller owns the returned array.
	Invoke(ctx *FuncContext, args []ColumnarValue) (arrow.Array, error)
	// Execute evaluates the function over chunked columns. The caller owns the returned columns.
	Execute(ctx *FuncContext, inputs []*arrow.Chunked) ([]*arrow.Chunked, error)
}

// FunctionFactory creates a FunctionExpr from user supplied params.
type FunctionFactory func(params map[string]interface{}) (FunctionExpr, error)
