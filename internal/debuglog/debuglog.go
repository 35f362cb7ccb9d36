// Package debuglog writes debug entries to JSONL files so backend traffic
// can be inspected after the fact. Disabled by default; each process run
// gets its own file.
package debuglog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type entry struct {
	Timestamp string         `json:"timestamp"`
	Type      string         `json:"type"`
	Fields    map[string]any `json:"fields,omitempty"`
}

var (
	mu      sync.Mutex
	enabled bool
	file    *os.File
	writer  *bufio.Writer
)

// Enable turns on debug logging, writing to a timestamped file under dir.
// An empty dir uses $XDG_DATA_HOME/voyager/debug (or ~/.local/share fallback).
func Enable(dir string) error {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		return nil
	}

	if dir == "" {
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			dir = filepath.Join(xdgData, "voyager", "debug")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			dir = filepath.Join(home, ".local", "share", "voyager", "debug")
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, time.Now().Format("20060102-150405")+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	file = f
	writer = bufio.NewWriter(f)
	enabled = true
	return nil
}

// Enabled reports whether debug logging is active.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes one entry. A no-op while logging is disabled; never fails the
// caller.
func Log(entryType string, fields map[string]any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}

	data, err := json.Marshal(entry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Type:      entryType,
		Fields:    fields,
	})
	if err != nil {
		return
	}
	writer.Write(data)
	writer.WriteByte('\n')
	writer.Flush()
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}
	writer.Flush()
	file.Close()
	enabled = false
	file = nil
	writer = nil
}
