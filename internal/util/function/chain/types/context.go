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

	"github.com/apache/arrow/go/v17/arrow/memory"
)

// FuncContext carries the per-invocation state shared by operators and functions.
type FuncContext struct {
	ctx  context.Context
	pool memory.Allocator
}

// NewFuncContext creates a FuncContext allocating from pool.
// A nil pool falls back to memory.DefaultAllocator.
func NewFuncContext(pool memory.Allocator) *FuncContext {
	if pool == nil {
		pool = memory.DefaultAllocator
	}
	return &FuncContext{
		ctx:  context.Background(),
		pool: pool,
	}
}

// WithContext returns a copy of c bound to ctx.
func (c *FuncContext) WithContext(ctx context.Context) *FuncContext {
	nc := FuncContext{pool: c.Pool()}
	nc.ctx = ctx
	return &nc
}

// Context returns the bound context. A nil FuncContext is bound to context.Background.
func (c *FuncContext) Context() context.Context {
	if c == nil || c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Pool returns the allocator. A nil FuncContext allocates from memory.DefaultAllocator.
func (c *FuncContext) Pool() memory.Allocator {
	if c == nil || c.pool == nil {
		return memory.DefaultAllocator
	}
	return c.pool
}

// Err reports whether the bound context has been cancelled.
func (c *FuncContext) Err() error {
	return c.Context().Err()
}
