package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestReporter(t *testing.T) {
	reg := prometheus.NewRegistry()
	rep, err := NewReporter(reg)
	require.NoError(t, err)
	r := rep.(*reporter)

	rep.ReportDigest(false, OutcomeSuccess, 2)
	rep.ReportDigest(false, OutcomeError, 0)
	rep.ReportDigest(true, OutcomeSuccess, 3)
	require.Equal(t, 1.0, testutil.ToFloat64(r.digests.WithLabelValues("false", OutcomeSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.digests.WithLabelValues("false", OutcomeError)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.digests.WithLabelValues("true", OutcomeSuccess)))

	rep.ReportEmit("driver", 2, 30)
	rep.ReportEmit("driver", 1, 12)
	require.Equal(t, 3.0, testutil.ToFloat64(r.emitted.WithLabelValues("driver")))
	require.Equal(t, 42.0, testutil.ToFloat64(r.lines.WithLabelValues("driver")))

	rep.ReportUnresolved("driver", 1)
	require.Equal(t, 1.0, testutil.ToFloat64(r.unresolved.WithLabelValues("driver")))

	rep.ReportApply(3, 1)
	require.Equal(t, 3.0, testutil.ToFloat64(r.properties.WithLabelValues(OutcomeSuccess)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.properties.WithLabelValues(OutcomeError)))

	// Registering twice on the same registry fails.
	_, err = NewReporter(reg)
	require.Error(t, err)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	rep, err := NewReporter(reg)
	require.NoError(t, err)
	rep.ReportEmit("node", 4, 20)

	out := filepath.Join(t.TempDir(), "rnagen.prom")
	require.NoError(t, WriteTextfile(out, reg))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(b), `rnagen_emitted_items_total{kind="node"} 4`)
}
