package commons

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bpytools/rnagen/pkg/emit"
	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/metrics"
	"github.com/bpytools/rnagen/pkg/reverse"
	"github.com/go-logr/logr"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/yaml"
)

// Global flags, bound by the root command.
var (
	FlagLogLevel    string
	FlagLogFile     string
	FlagMetricsFile string
	FlagConfig      string
)

const (
	FlagNameScene  = "scene"
	FlagNameOutput = "output"
)

// Config is the optional file passed with --config.
type Config struct {
	// Sources replaces the built-in animatable sources.
	Sources []reverse.Source `json:"sources,omitempty"`
	// MakeIntoFunction and FunctionName are defaults for generated scripts.
	MakeIntoFunction bool   `json:"makeIntoFunction,omitempty"`
	FunctionName     string `json:"functionName,omitempty"`
	// Library is the document preset library file.
	Library string `json:"library,omitempty"`
	// Preferences overrides the preference preset library file.
	Preferences string `json:"preferences,omitempty"`
}

// Env holds what every subcommand shares for one invocation.
type Env struct {
	Log      logr.Logger
	Reporter metrics.Reporter
	Config   Config

	registry *prometheus.Registry
	logFile  io.Closer
}

var current *Env

// Setup builds the shared environment from the global flags.
func Setup() error {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if FlagLogFile != "" {
		f, err := os.OpenFile(FlagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}

	log, err := logging.New(FlagLogLevel, w)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reporter, err := metrics.NewReporter(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	cfg, err := ReadConfig(FlagConfig)
	if err != nil {
		return err
	}

	current = &Env{
		Log:      log.WithValues(logging.Process, "rnagen"),
		Reporter: reporter,
		Config:   cfg,
		registry: reg,
		logFile:  closer,
	}
	return nil
}

// Current returns the environment built by Setup. Commands run without Setup,
// as in tests, get a silent one.
func Current() *Env {
	if current == nil {
		return &Env{Log: logr.Discard(), Reporter: metrics.NoopReporter()}
	}
	return current
}

// Teardown writes the metrics file, if requested, and closes the log file.
func Teardown() error {
	if current == nil {
		return nil
	}
	defer func() { current = nil }()

	if FlagMetricsFile != "" {
		if err := metrics.WriteTextfile(FlagMetricsFile, current.registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if current.logFile != nil {
		return current.logFile.Close()
	}
	return nil
}

// ReadConfig decodes the config file at path. An empty path yields the zero
// config.
func ReadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Sources returns the configured animatable sources.
func (e *Env) Sources() []reverse.Source {
	if len(e.Config.Sources) > 0 {
		return e.Config.Sources
	}
	return reverse.DefaultSources()
}

// ScriptOptions merges the config defaults with the flags of a command.
func (e *Env) ScriptOptions(function string, makeFunc bool) emit.Options {
	opts := emit.Options{
		MakeIntoFunction: e.Config.MakeIntoFunction || makeFunc,
		FunctionName:     e.Config.FunctionName,
	}
	if function != "" {
		opts.MakeIntoFunction = true
		opts.FunctionName = function
	}
	return opts
}

// LoadScene reads the scene document at path.
func LoadScene(path string) (*host.Namespace, error) {
	if path == "" {
		return nil, fmt.Errorf("--%s is required", FlagNameScene)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()
	ns, err := host.LoadScene(f)
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", path, err)
	}
	return ns, nil
}

// OutputSink returns a sink writing to path, or to stdout when path is
// empty. The returned function must be called with the result of the export:
// it closes the file, removes it again when the export failed, and otherwise
// reports write errors.
func OutputSink(path string) (*emit.WriterSink, func(error) error, error) {
	if path == "" {
		s := emit.NewWriterSink(os.Stdout)
		return s, func(exportErr error) error {
			if exportErr != nil {
				return exportErr
			}
			return s.Err()
		}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	s := emit.NewWriterSink(f)
	return s, func(exportErr error) error {
		if exportErr == nil {
			exportErr = s.Err()
		}
		if exportErr != nil {
			f.Close()
			if err := os.Remove(path); err != nil {
				return errors.Join(exportErr, err)
			}
			return exportErr
		}
		return f.Close()
	}, nil
}

// RenderTable writes rows under header as a plain text table.
func RenderTable(w io.Writer, header []any, rows [][]any) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))
	table.Header(header...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
