/*

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package emit

import (
	"errors"
	"fmt"

	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/metrics"
	"github.com/bpytools/rnagen/pkg/reverse"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// ErrSelection is returned when the selection vector does not match the
// source list.
var ErrSelection = errors.New("selection does not match sources")

const (
	kindDriver = "driver"
	kindNode   = "node"
	kindLink   = "link"
	kindPreset = "preset"
)

// Driver target fields written for each variable type, in assignment order.
// id_type has to be set before id.
var targetFields = map[string][]string{
	"SINGLE_PROP":   {"id_type", "id", "data_path"},
	"CONTEXT_PROP":  {"context_property", "data_path"},
	"TRANSFORMS":    {"id", "bone_target", "transform_type", "transform_space", "rotation_mode"},
	"ROTATION_DIFF": {"id", "bone_target", "rotation_mode"},
	"LOC_DIFF":      {"id", "bone_target", "transform_space"},
}

var allTargetFields = []string{
	"id_type", "id", "data_path", "bone_target", "transform_type", "transform_space", "rotation_mode",
}

// DriverStats summarizes one export run.
type DriverStats struct {
	RunID      string
	Items      int
	Drivers    int
	Variables  int
	Unresolved int
}

// DriverExporter writes code that recreates the drivers found on animatable
// sources.
type DriverExporter struct {
	ns       *host.Namespace
	ser      *literal.Serializer
	log      logr.Logger
	reporter metrics.Reporter
}

// ExporterOption configures an exporter.
type ExporterOption func(*exporterConfig)

type exporterConfig struct {
	log      logr.Logger
	reporter metrics.Reporter
}

func WithLogger(l logr.Logger) ExporterOption {
	return func(c *exporterConfig) {
		c.log = l
	}
}

func WithReporter(r metrics.Reporter) ExporterOption {
	return func(c *exporterConfig) {
		c.reporter = r
	}
}

func newConfig(opts []ExporterOption) exporterConfig {
	c := exporterConfig{log: logr.Discard(), reporter: metrics.NoopReporter()}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func NewDriverExporter(ns *host.Namespace, opts ...ExporterOption) *DriverExporter {
	c := newConfig(opts)
	return &DriverExporter{
		ns:       ns,
		ser:      literal.NewSerializer(ns),
		log:      c.log.WithName("drivers"),
		reporter: c.reporter,
	}
}

// Export writes every driver found on the selected sources. selected must be
// nil, meaning all sources, or have one entry per source. Cross references
// are resolved through a reverse map built once over all sources.
func (e *DriverExporter) Export(sink Sink, sources []reverse.Source, selected []bool, opts Options) (DriverStats, error) {
	if selected != nil && len(selected) != len(sources) {
		return DriverStats{}, fmt.Errorf("%w: %d flags for %d sources", ErrSelection, len(selected), len(sources))
	}

	stats := DriverStats{RunID: uuid.New().String()}
	log := e.log.WithValues(logging.RunID, stats.RunID)

	refs, err := reverse.Build(e.ns, sources)
	if err != nil {
		return stats, err
	}

	w := &writer{sink: sink}
	start := sink.LineCount()
	err = w.script(opts, "make_drivers", func() error {
		for i, src := range sources {
			if selected != nil && !selected[i] {
				continue
			}
			err := reverse.Walk(e.ns, src, func(path string, v any) {
				item, ok := v.(*host.Struct)
				if !ok {
					return
				}
				drivers := driversOf(item)
				if len(drivers) == 0 {
					return
				}
				stats.Items++
				for _, fc := range drivers {
					e.writeDriver(w, log, refs, src, path, item, fc, &stats)
				}
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	log.Info("exported drivers", "drivers", stats.Drivers, "unresolved", stats.Unresolved)
	e.reporter.ReportEmit(kindDriver, stats.Drivers, sink.LineCount()-start)
	e.reporter.ReportUnresolved(kindDriver, stats.Unresolved)
	return stats, nil
}

func driversOf(item *host.Struct) []*host.Struct {
	anim, ok := attrStruct(item, "animation_data")
	if !ok {
		return nil
	}
	coll, ok := attrCollection(anim, "drivers")
	if !ok {
		return nil
	}
	return structs(coll)
}

func (e *DriverExporter) writeDriver(w *writer, log logr.Logger, refs *reverse.Map, src reverse.Source, path string, item, fc *host.Struct, stats *DriverStats) {
	dataPath, _ := attrString(fc, "data_path")
	log = log.WithValues(logging.Source, src.Name, logging.Path, path, logging.DataPath, dataPath)

	call := fmt.Sprintf("driver_add(%s)", literal.Quote(dataPath))
	if e.isArray(log, item, dataPath) {
		idx, _ := fc.Attr("array_index")
		i, _ := host.ToInt(idx)
		call = fmt.Sprintf("driver_add(%s, %d)", literal.Quote(dataPath), i)
	}

	if stats.Drivers > 0 {
		w.line("")
	}
	w.line("# %s: %s", src.Name, path)
	w.line("fc = %s.%s", path, call)
	stats.Drivers++

	drv, ok := attrStruct(fc, "driver")
	if !ok {
		log.Info("fcurve has no driver")
		return
	}
	w.line("drv = fc.driver")
	for _, field := range []string{"type", "expression", "use_self"} {
		if v, ok := drv.Attr(field); ok {
			w.line("drv.%s = %s", field, e.value(v))
		}
	}

	vars, _ := attrCollection(drv, "variables")
	for _, variable := range structs(vars) {
		stats.Variables++
		w.line("var = drv.variables.new()")
		varType, _ := attrString(variable, "type")
		for _, field := range []string{"name", "type"} {
			if v, ok := variable.Attr(field); ok {
				w.line("var.%s = %s", field, e.value(v))
			}
		}

		fields, ok := targetFields[varType]
		if !ok {
			fields = allTargetFields
		}
		targets, _ := attrCollection(variable, "targets")
		for i, tgt := range structs(targets) {
			w.line("tgt = var.targets[%d]", i)
			for _, field := range fields {
				v, ok := tgt.Attr(field)
				if !ok {
					continue
				}
				if field == "id" {
					e.writeTargetID(w, log, refs, v, stats)
					continue
				}
				w.line("tgt.%s = %s", field, e.value(v))
			}
		}
	}
}

// isArray reports whether the driven property is an array, in which case
// driver_add needs the array index.
func (e *DriverExporter) isArray(log logr.Logger, item *host.Struct, dataPath string) bool {
	v, err := e.ns.EvalFrom(item, dataPath)
	if err != nil {
		log.Error(err, "cannot evaluate driven property")
		return false
	}
	switch host.Classify(v) {
	case host.TagVector, host.TagEuler, host.TagBoolArray, host.TagSequence:
		return true
	}
	return false
}

func (e *DriverExporter) writeTargetID(w *writer, log logr.Logger, refs *reverse.Map, id any, stats *DriverStats) {
	if id == nil {
		return
	}
	if path, ok := refs.PathFor(id); ok {
		w.line("tgt.id = %s", path)
		return
	}
	if lit, ok := e.ser.ToLiteral(id); ok {
		w.line("tgt.id = %s", lit)
		return
	}
	stats.Unresolved++
	log.Info("unresolved driver target", "target", describeValue(id))
	w.line("tgt.id = None  # unresolved: %s", describeValue(id))
}

// value renders a driver field; strings are escaped.
func (e *DriverExporter) value(v any) string {
	if s, ok := v.(string); ok {
		return literal.Quote(s)
	}
	if lit, ok := e.ser.ToLiteral(v); ok {
		return lit
	}
	return literal.None
}
