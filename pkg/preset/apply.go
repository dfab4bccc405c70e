package preset

import (
	"fmt"

	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/digest"
	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/metrics"
	"github.com/go-logr/logr"
)

// PropertyError is a failure to apply one property. It does not stop the
// remaining properties from being applied.
type PropertyError struct {
	Path string
	Err  error
}

func (e PropertyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e PropertyError) Unwrap() error {
	return e.Err
}

// ApplyReport lists what happened to each property of an applied preset.
type ApplyReport struct {
	// Root is the path of the base type instance the preset was applied to.
	Root    string
	Applied []string
	Errors  []PropertyError
}

func (r *ApplyReport) OK() bool {
	return len(r.Errors) == 0
}

// Applier writes preset values into a live graph.
type Applier struct {
	ns       *host.Namespace
	digester *digest.Digester
	log      logr.Logger
	reporter metrics.Reporter
}

type Option func(*Applier)

func Logger(l logr.Logger) Option {
	return func(a *Applier) {
		a.log = l
	}
}

func Reporter(r metrics.Reporter) Option {
	return func(a *Applier) {
		a.reporter = r
	}
}

func NewApplier(ns *host.Namespace, opts ...Option) *Applier {
	a := &Applier{
		ns:       ns,
		log:      logr.Discard(),
		reporter: metrics.NoopReporter(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.digester = digest.New(ns, digest.Logger(a.log), digest.Reporter(a.reporter))
	a.log = a.log.WithName("preset")
	return a
}

// Apply sets every property of p on the target. targetPath either addresses
// an instance of the preset's base type or any path below one, in which case
// the innermost ancestor of that type is used.
//
// An error is returned only when no target can be found. Failures of single
// properties are collected in the report.
func (a *Applier) Apply(p *Preset, targetPath string) (*ApplyReport, error) {
	log := a.log.WithValues(logging.Preset, p.Name, logging.BaseType, p.BaseType, logging.FullPath, targetPath)

	root, err := a.root(p.BaseType, targetPath)
	if err != nil {
		log.Error(err, "no target for preset")
		return nil, err
	}

	report := &ApplyReport{Root: root}
	for _, prop := range p.Properties {
		path := datapath.Join(root, prop.Path)
		if err := a.applyOne(path, prop); err != nil {
			log.Error(err, "applying property failed", logging.Property, prop.Path)
			report.Errors = append(report.Errors, PropertyError{Path: prop.Path, Err: err})
			continue
		}
		report.Applied = append(report.Applied, prop.Path)
	}

	log.Info("applied preset", "applied", len(report.Applied), "failed", len(report.Errors))
	a.reporter.ReportApply(len(report.Applied), len(report.Errors))
	return report, nil
}

func (a *Applier) applyOne(path string, prop Property) error {
	v, err := prop.Value.Restore(a.ns)
	if err != nil {
		return err
	}
	return a.ns.Assign(path, v)
}

func (a *Applier) root(baseType, targetPath string) (string, error) {
	v, err := a.ns.Eval(targetPath)
	if err != nil {
		return "", err
	}
	if name, ok := host.TypedRootName(v); ok && name == baseType {
		return targetPath, nil
	}

	res, err := a.digester.Digest(targetPath, true)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrBaseTypeMismatch, targetPath, err)
	}
	r, ok := res.Chain.Find(baseType)
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s ancestor", ErrBaseTypeMismatch, targetPath, baseType)
	}
	return r.Path, nil
}
