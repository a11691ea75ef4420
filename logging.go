package main

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds a levelled logger writing to w.
func NewLogger(cfg LogConfig, w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, newSimError(CodeConfigInvalid, "unknown log level").
			WithContext("level", cfg.Level).
			WithCause(err)
	}

	var formatter log.Formatter
	switch cfg.Format {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return nil, newSimError(CodeConfigInvalid, "unknown log format").
			WithContext("format", cfg.Format)
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "zenoprobe",
	}), nil
}
