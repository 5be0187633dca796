// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterFunction(t *testing.T) {
	r := prometheus.NewRegistry()
	// Make sure it doesn't panic, even when called twice.
	RegisterFunction(r)
	RegisterFunction(r)
}

func TestObserveInvocation(t *testing.T) {
	name := "metrics_test_fn"
	ObserveInvocation(name, time.Now(), 3, true, 0)
	ObserveInvocation(name, time.Now(), 2, true, 0)
	ObserveInvocation(name, time.Now(), 0, false, 100)

	assert.Equal(t, float64(2), testutil.ToFloat64(FunctionInvocationCounter.WithLabelValues(name, SuccessLabel)))
	assert.Equal(t, float64(1), testutil.ToFloat64(FunctionInvocationCounter.WithLabelValues(name, FailLabel)))
	assert.Equal(t, float64(5), testutil.ToFloat64(FunctionRowsCounter.WithLabelValues(name)))
	assert.Equal(t, float64(1), testutil.ToFloat64(FunctionErrorCounter.WithLabelValues(name, "100")))
}
