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
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/montaglue/greaters/pkg/util/merr"
)

// =============================================================================
// Function Registry
// =============================================================================

// FunctionRegistry maps function names to factories.
type FunctionRegistry struct {
	mu        sync.RWMutex
	factories map[string]FunctionFactory
}

func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		factories: make(map[string]FunctionFactory),
	}
}

// Register registers factory under name.
// Registering the same name twice fails with merr.ErrFunctionDuplicate.
func (r *FunctionRegistry) Register(name string, factory FunctionFactory) error {
	if name == "" {
		return merr.WrapErrParameterInvalidMsg("function name cannot be empty")
	}
	if factory == nil {
		return merr.WrapErrParameterInvalidMsg("function factory cannot be nil for %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return merr.WrapErrFunctionDuplicate(name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister registers a function factory and panics on error.
// Use this in init() functions to fail fast on registration errors.
func (r *FunctionRegistry) MustRegister(name string, factory FunctionFactory) {
	if err := r.Register(name, factory); err != nil {
		panic(fmt.Sprintf("failed to register function: %v", err))
	}
}

func (r *FunctionRegistry) Get(name string) (FunctionFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// Create creates a FunctionExpr using the factory registered with the given name.
func (r *FunctionRegistry) Create(name string, params map[string]interface{}) (FunctionExpr, error) {
	factory, ok := r.Get(name)
	if !ok {
		return nil, merr.WrapErrFunctionNotFound(name)
	}
	return factory(params)
}

func (r *FunctionRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns all registered function names in ascending order.
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.factories)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// =============================================================================
// Global Registry
// =============================================================================

var globalRegistry = NewFunctionRegistry()

func RegisterFunction(name string, factory FunctionFactory) error {
	return globalRegistry.Register(name, factory)
}

// MustRegisterFunction registers a function factory in the global registry and panics on error.
func MustRegisterFunction(name string, factory FunctionFactory) {
	globalRegistry.MustRegister(name, factory)
}

func GetFunctionFactory(name string) (FunctionFactory, bool) {
	return globalRegistry.Get(name)
}

// CreateFunction creates a FunctionExpr using the global registry.
func CreateFunction(name string, params map[string]interface{}) (FunctionExpr, error) {
	return globalRegistry.Create(name, params)
}

func HasFunction(name string) bool {
	return globalRegistry.Has(name)
}

func FunctionNames() []string {
	return globalRegistry.Names()
}
