// Package metrics holds the process-wide prometheus collectors
package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "asmgraph"

var (
	// TraceSteps counts recursive steps taken by the path tracer, by walk
	// ("paths" or "reach")
	TraceSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asmgraph_trace_steps_total",
			Help: "Recursive steps taken while tracing paths through the graph",
		},
		[]string{"walk"},
	)

	// TracesCancelled counts walks abandoned because their context ended
	TracesCancelled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asmgraph_trace_cancelled_total",
			Help: "Path traces stopped by cancellation",
		},
		[]string{"walk"},
	)

	// OverlapsDetected counts overlap searches by outcome ("found" or "none")
	OverlapsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asmgraph_overlaps_detected_total",
			Help: "Exact overlap searches between adjacent nodes",
		},
		[]string{"outcome"},
	)

	// QueryPathsScored counts candidate paths kept and scored for a query
	QueryPathsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "asmgraph_query_paths_scored_total",
			Help: "Candidate paths kept and scored against a query's hits",
		},
	)
)

// Write prints the gathered asmgraph metrics from g in the prometheus text
// format. Runtime and process collectors are left out
func Write(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	for _, f := range families {
		if !ours(f) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, f); err != nil {
			return fmt.Errorf("writing %s: %w", f.GetName(), err)
		}
	}
	return nil
}

func ours(f *dto.MetricFamily) bool {
	return strings.HasPrefix(f.GetName(), namespace+"_")
}
