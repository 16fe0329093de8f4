package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"phrasegen/internal/generator"
	"phrasegen/internal/grammar"
)

// Recorder collects the metrics of one generation run on a private registry
type Recorder struct {
	registry *prometheus.Registry

	phrases  prometheus.Counter
	failures *prometheus.CounterVec
	rules    prometheus.Gauge
	depth    prometheus.Histogram
	coverage prometheus.Gauge
}

// NewRecorder creates a recorder with all metrics registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		phrases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "phrasegen_phrases_generated_total",
			Help: "Number of phrases generated.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "phrasegen_generation_errors_total",
			Help: "Number of failed generation runs by error kind.",
		}, []string{"kind"}),
		rules: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phrasegen_rules_loaded",
			Help: "Number of rules in the loaded grammar.",
		}),
		depth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "phrasegen_derivation_depth",
			Help:    "Nonterminal nesting depth of generated phrases.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}),
		coverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "phrasegen_coverage_ratio",
			Help: "Share of selectable productions chosen at least once.",
		}),
	}

	r.registry.MustRegister(r.phrases, r.failures, r.rules, r.depth, r.coverage)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveGrammar records the size of the loaded rule table
func (r *Recorder) ObserveGrammar(table *grammar.RuleTable) {
	r.rules.Set(float64(table.Len()))
}

// ObserveTrees records generated derivations
func (r *Recorder) ObserveTrees(trees []*generator.DerivationTree) {
	for _, tree := range trees {
		r.phrases.Inc()
		r.depth.Observe(float64(tree.Depth()))
	}
}

// ObserveCoverage records the coverage ratio
func (r *Recorder) ObserveCoverage(stats generator.CoverageStats) {
	r.coverage.Set(stats.Percent / 100)
}

// ObserveError counts a failed run by error kind
func (r *Recorder) ObserveError(err error) {
	r.failures.WithLabelValues(ErrorKind(err)).Inc()
}

// WriteTextfile writes all metrics in the text exposition format to path
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// ErrorKind maps a generation error to a metric label
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, grammar.ErrNoRules):
		return "no_rules"
	case errors.Is(err, grammar.ErrUnresolvedNonterminal):
		return "unresolved_nonterminal"
	case errors.Is(err, generator.ErrDegenerateRule):
		return "degenerate_rule"
	case errors.Is(err, generator.ErrMaxDepth):
		return "max_depth"
	}
	return "other"
}
