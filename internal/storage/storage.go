// Package storage keeps a local journal of issued calls.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one recorded call.
type Entry struct {
	Method     string    `json:"method"`
	Input      string    `json:"input"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	StatusText string    `json:"status_text"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// Journal records calls and lists the most recent ones.
type Journal interface {
	Close() error
	Record(e Entry) error
	// Recent returns up to limit unexpired entries, newest first.
	Recent(limit int) ([]Entry, error)
}

// Options controls retention characteristics for concrete journal implementations.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewJournal creates the configured journal backend.
func NewJournal(typ, path string, opts Options) (Journal, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopJournal{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopJournal struct{}

func (noopJournal) Close() error                { return nil }
func (noopJournal) Record(Entry) error          { return nil }
func (noopJournal) Recent(int) ([]Entry, error) { return nil, nil }
