package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default file name patterns written by the scale.
const (
	DefaultDataPattern    = "DATA*.CSV"
	DefaultProfilePattern = "PROF*.CSV"
)

var (
	// ErrFileNotFound is returned when an input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileUnreadable is returned when an input exists but cannot be
	// opened or is not a regular file.
	ErrFileUnreadable = errors.New("file unreadable")

	// ErrDirectoryNotFound is returned when a discovery directory does not exist.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrUnrecognizedInput is returned for a file whose name matches neither
	// measurement nor profile exports.
	ErrUnrecognizedInput = errors.New("unrecognized input")
)

// ClassifyInput infers the record type from a file name the way the
// scale names its exports: DATA*.CSV holds measurements, PROF*.CSV holds
// profiles. Matching is case-insensitive on the base name.
func ClassifyInput(path string) (RecordType, error) {
	name := strings.ToUpper(filepath.Base(path))
	switch {
	case strings.Contains(name, "DATA"):
		return RecordMeasurement, nil
	case strings.Contains(name, "PROF"):
		return RecordProfile, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnrecognizedInput, filepath.Base(path))
	}
}

// DiscoverInputs lists the files in dir matching pattern, in lexical order.
func DiscoverInputs(dir, pattern string, typ RecordType) ([]Input, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, dir)
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	inputs := make([]Input, 0, len(matches))
	for _, path := range matches {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			continue
		}
		inputs = append(inputs, Input{Path: path, Type: typ})
	}
	return inputs, nil
}
