// Package config provides configuration helpers for go-plume commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default pipeline configuration.
const (
	DefaultLogLevel = "info"
	DefaultOutDir   = "out"
)

// LogLevel returns the log level from PLUME_LOG_LEVEL, or the default.
func LogLevel() string {
	if lvl := os.Getenv("PLUME_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}

// OutDir returns the output directory from PLUME_OUT_DIR, or the default.
func OutDir() string {
	if dir := os.Getenv("PLUME_OUT_DIR"); dir != "" {
		return dir
	}
	return DefaultOutDir
}

// ParsePoint parses an "x,y" pair as used by the -origin flag.
func ParsePoint(s string) (x, y float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected x,y pair, got %q", s)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse x: %w", err)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse y: %w", err)
	}
	return x, y, nil
}

// ParseRange parses an "a:b" frame range. An empty string or "a:-1" leaves
// the end open (-1), matching the frame-source convention.
func ParseRange(s string) (start, end int, err error) {
	if s == "" {
		return 0, -1, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected a:b range, got %q", s)
	}
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse range start: %w", err)
	}
	end, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse range end: %w", err)
	}
	return start, end, nil
}
