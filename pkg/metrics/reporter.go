package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rnagen"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Reporter records metrics about digests, code emission and preset
// application.
type Reporter interface {
	ReportDigest(allTypes bool, outcome string, chainLength int)
	ReportEmit(kind string, items, lines int)
	ReportUnresolved(kind string, n int)
	ReportApply(applied, failed int)
}

// reporter implements Reporter on top of a prometheus registry.
type reporter struct {
	digests     *prometheus.CounterVec
	chainLength prometheus.Histogram
	emitted     *prometheus.CounterVec
	lines       *prometheus.CounterVec
	unresolved  *prometheus.CounterVec
	properties  *prometheus.CounterVec
}

// NewReporter creates a Reporter and registers its collectors with reg.
func NewReporter(reg prometheus.Registerer) (Reporter, error) {
	r := &reporter{
		digests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_total",
			Help:      "Number of datapath digests, by mode and outcome.",
		}, []string{"all_types", "outcome"}),
		chainLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "digest_chain_length",
			Help:      "Length of the typed root chains produced by successful digests.",
			Buckets:   []float64{1, 2, 3, 5, 8},
		}),
		emitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emitted_items_total",
			Help:      "Number of items (drivers, nodes, links, properties) written as code.",
		}, []string{"kind"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emitted_lines_total",
			Help:      "Number of generated source lines.",
		}, []string{"kind"}),
		unresolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_references_total",
			Help:      "Number of cross references written as placeholders.",
		}, []string{"kind"}),
		properties: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preset_properties_total",
			Help:      "Number of preset properties applied, by outcome.",
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{r.digests, r.chainLength, r.emitted, r.lines, r.unresolved, r.properties} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *reporter) ReportDigest(allTypes bool, outcome string, chainLength int) {
	mode := "false"
	if allTypes {
		mode = "true"
	}
	r.digests.WithLabelValues(mode, outcome).Inc()
	if outcome == OutcomeSuccess {
		r.chainLength.Observe(float64(chainLength))
	}
}

func (r *reporter) ReportEmit(kind string, items, lines int) {
	r.emitted.WithLabelValues(kind).Add(float64(items))
	r.lines.WithLabelValues(kind).Add(float64(lines))
}

func (r *reporter) ReportUnresolved(kind string, n int) {
	r.unresolved.WithLabelValues(kind).Add(float64(n))
}

func (r *reporter) ReportApply(applied, failed int) {
	r.properties.WithLabelValues(OutcomeSuccess).Add(float64(applied))
	r.properties.WithLabelValues(OutcomeError).Add(float64(failed))
}

type noopReporter struct{}

// NoopReporter returns a Reporter that records nothing.
func NoopReporter() Reporter {
	return noopReporter{}
}

func (noopReporter) ReportDigest(bool, string, int) {}
func (noopReporter) ReportEmit(string, int, int) {}
func (noopReporter) ReportUnresolved(string, int) {}
func (noopReporter) ReportApply(int, int) {}

// WriteTextfile writes every metric gathered by g to filename in the text
// exposition format.
func WriteTextfile(filename string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(filename, g)
}
