// Package rsxlog provides the component-scoped loggers used by the shader
// analyzer to report semantic anomalies (possible infinite loops, dangling
// RETs, unresolved jump targets). These are never fatal: the analyzer logs
// and keeps producing a best-effort result, matching rsx_log.error() in the
// original RSX implementation.
package rsxlog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type OutputFormat uint8

const (
	ConsoleOutput OutputFormat = iota
	JSONOutput
)

type Options struct {
	Level  zerolog.Level
	Format OutputFormat
}

var (
	// Root is the base logger; Vertex and Fragment are its two component
	// children, one per analyzer.
	Root     zerolog.Logger
	Vertex   zerolog.Logger
	Fragment zerolog.Logger
)

func init() {
	Init(Options{Level: zerolog.InfoLevel, Format: ConsoleOutput})
}

// Init (re)configures Root and the component loggers derived from it. Call
// it once at process start; tests that want to capture or silence log
// output may call it again.
func Init(opts Options) {
	var w zerolog.ConsoleWriter
	var out *os.File = os.Stdout

	switch opts.Format {
	case ConsoleOutput:
		w = newConsoleWriter(out)
		Root = zerolog.New(w).Level(opts.Level).With().Timestamp().Logger()
	default:
		Root = zerolog.New(out).Level(opts.Level).With().Timestamp().Logger()
	}

	Vertex = Root.With().Str("component", "vp_analyser").Logger()
	Fragment = Root.With().Str("component", "fp_analyser").Logger()
}

func newConsoleWriter(out *os.File) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.RFC3339}
	cw.FormatLevel = func(i any) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	cw.FormatMessage = func(i any) string {
		return fmt.Sprintf("message: %q |", i)
	}
	return cw
}
