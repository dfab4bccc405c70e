package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured log keys.
const (
	Process     = "process"
	RunID       = "run_id"
	Path        = "path"
	FullPath    = "full_path"
	Prefix      = "prefix"
	TypeName    = "type_name"
	BaseType    = "base_type"
	Source      = "source"
	DataPath    = "data_path"
	NodeName    = "node_name"
	Preset      = "preset"
	Collection  = "collection"
	DataSource  = "data_source"
	Property    = "property"
	ChainLength = "chain_length"
	LineCount   = "line_count"
)

// Debug is the logr verbosity used for per-prefix and per-item tracing.
const Debug = 1

// New returns a JSON logger writing to w at the given minimum level: DEBUG,
// INFO, WARNING or ERROR. An empty level means INFO.
func New(level string, w io.Writer) (logr.Logger, error) {
	var lvl zapcore.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = zapcore.DebugLevel
	case "", "INFO":
		lvl = zapcore.InfoLevel
	case "WARNING":
		lvl = zapcore.WarnLevel
	case "ERROR":
		lvl = zapcore.ErrorLevel
	default:
		return logr.Discard(), fmt.Errorf("unknown log level %q", level)
	}

	sink := zapcore.AddSync(w)
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
		zap.ErrorOutput(sink),
		zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSampler(core, time.Second, 100, 100)
		}),
	}
	zlog := zap.New(zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(lvl)), opts...)
	return zapr.NewLogger(zlog), nil
}
