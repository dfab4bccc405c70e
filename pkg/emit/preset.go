package emit

import (
	"fmt"

	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/metrics"
	"github.com/bpytools/rnagen/pkg/preset"
	"github.com/go-logr/logr"
)

// PresetExporter writes code that applies a preset without the preset
// library being present.
type PresetExporter struct {
	log      logr.Logger
	reporter metrics.Reporter
}

func NewPresetExporter(opts ...ExporterOption) *PresetExporter {
	c := newConfig(opts)
	return &PresetExporter{log: c.log.WithName("preset"), reporter: c.reporter}
}

// PresetCode writes the assignments of p against targetPath with default
// exporter settings.
func PresetCode(sink Sink, p *preset.Preset, targetPath string, opts Options) error {
	return NewPresetExporter().Export(sink, p, targetPath, opts)
}

// Export writes one assignment per property of p, relative to the instance
// at targetPath. The preset is validated first; nothing is written for an
// invalid preset.
func (e *PresetExporter) Export(sink Sink, p *preset.Preset, targetPath string, opts Options) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := datapath.Parse(targetPath); err != nil {
		return fmt.Errorf("target path: %w", err)
	}

	w := &writer{sink: sink}
	start := sink.LineCount()
	err := w.script(opts, "apply_preset", func() error {
		w.line("# %s (%s)", p.Name, p.BaseType)
		w.line("target = %s", targetPath)
		for _, prop := range p.Properties {
			w.line("%s = %s", datapath.Join("target", prop.Path), prop.Value.Literal())
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.log.V(logging.Debug).Info("exported preset", logging.Preset, p.Name, logging.Path, targetPath)
	e.reporter.ReportEmit(kindPreset, len(p.Properties), sink.LineCount()-start)
	return nil
}
