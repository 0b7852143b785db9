// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var TotalRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "archiefbeheer_http_requests_total",
		Help: "Number of http requests.",
	},
	[]string{"path", "code", "method"},
)

var HttpDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "archiefbeheer_http_request_duration_seconds_histogram",
		Buckets: []float64{
			0.1, // 100 ms
			0.2,
			0.25,
			0.5,
			1,
			1.5,
			3,
			5,
			10,
		},
	},
	[]string{"path", "code", "method"},
)

var ListTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "archiefbeheer_list_transitions_total",
		Help: "Destruction list workflow transitions.",
	},
	[]string{"action", "to"},
)

var ItemsDestroyed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "archiefbeheer_items_destroyed_total",
		Help: "Destruction list items fully processed.",
	},
	[]string{"outcome"},
)

var UpstreamDeletes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "archiefbeheer_upstream_deletes_total",
		Help: "Delete calls issued to upstream registries.",
	},
	[]string{"kind"},
)

var RecoveredTasks = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "archiefbeheer_recovered_tasks_total",
		Help: "Stale destruction tasks reclaimed by the recovery sweep.",
	},
	[]string{},
)

func RegisterAllPrometheusApplicationMetrics() {
	prometheus.Register(TotalRequests)
	prometheus.Register(HttpDuration)
	prometheus.Register(ListTransitions)
	prometheus.Register(ItemsDestroyed)
	prometheus.Register(UpstreamDeletes)
	prometheus.Register(RecoveredTasks)
}
