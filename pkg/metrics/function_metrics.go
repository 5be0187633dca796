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
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	FunctionInvocationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: greatersNamespace,
			Subsystem: functionSubsystem,
			Name:      "invocation_total",
			Help:      "count of function invocations",
		}, []string{
			functionNameLabelName,
			statusLabelName,
		})

	FunctionRowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: greatersNamespace,
			Subsystem: functionSubsystem,
			Name:      "rows_total",
			Help:      "count of rows produced by functions",
		}, []string{
			functionNameLabelName,
		})

	FunctionErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: greatersNamespace,
			Subsystem: functionSubsystem,
			Name:      "error_total",
			Help:      "count of function failures by error code",
		}, []string{
			functionNameLabelName,
			errorCodeLabelName,
		})

	FunctionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: greatersNamespace,
			Subsystem: functionSubsystem,
			Name:      "invocation_latency_seconds",
			Help:      "latency of function invocations",
			Buckets:   buckets,
		}, []string{
			functionNameLabelName,
		})

	registerOnce sync.Once
)

// RegisterFunction registers the function metrics.
func RegisterFunction(registry prometheus.Registerer) {
	registerOnce.Do(func() {
		registry.MustRegister(FunctionInvocationCounter)
		registry.MustRegister(FunctionRowsCounter)
		registry.MustRegister(FunctionErrorCounter)
		registry.MustRegister(FunctionLatency)
	})
}

// ObserveInvocation records one finished invocation of function name.
// code is the merr code of the failure, ignored when ok.
func ObserveInvocation(name string, start time.Time, rows int, ok bool, code int32) {
	FunctionLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if !ok {
		FunctionInvocationCounter.WithLabelValues(name, FailLabel).Inc()
		FunctionErrorCounter.WithLabelValues(name, strconv.Itoa(int(code))).Inc()
		return
	}
	FunctionInvocationCounter.WithLabelValues(name, SuccessLabel).Inc()
	FunctionRowsCounter.WithLabelValues(name).Add(float64(rows))
}
