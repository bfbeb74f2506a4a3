package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/andrescamacho/railbot-go/internal/infrastructure/config"
)

// Logger provides leveled logging for agent operations
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a no-op logger if not found
func FromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
}

var levelRank = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// writerLogger writes leveled lines to a stream in text or json format
type writerLogger struct {
	out      io.Writer
	minLevel int
	jsonFmt  bool
}

// NewLogger builds a logger from LoggingConfig
func NewLogger(cfg *config.LoggingConfig) Logger {
	out := os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}
	min, ok := levelRank[strings.ToUpper(cfg.Level)]
	if !ok {
		min = levelRank["INFO"]
	}
	return &writerLogger{
		out:      out,
		minLevel: min,
		jsonFmt:  cfg.Format == "json",
	}
}

func (l *writerLogger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	rank, ok := levelRank[level]
	if !ok {
		rank = levelRank["INFO"]
	}
	if rank < l.minLevel {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if l.jsonFmt {
		entry := map[string]interface{}{
			"time":    now,
			"level":   level,
			"message": message,
		}
		for k, v := range metadata {
			entry[k] = v
		}
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.out, `{"time":%q,"level":"ERROR","message":"log marshal failed"}`+"\n", now)
			return
		}
		fmt.Fprintln(l.out, string(data))
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-5s %s", now, level, message)
	if len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, metadata[k])
		}
	}
	fmt.Fprintln(l.out, sb.String())
}
