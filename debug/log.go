package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	out     io.Writer
	closer  io.Closer
	mu      sync.Mutex
	enabled bool
)

// Path returns the debug log location, ~/.config/go-pianokey/debug.log
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pianokey", "debug.log"), nil
}

// Enable starts debug logging to Path()
func Enable() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if !enable(f, f) {
		f.Close()
	}
	return nil
}

// EnableWriter sends debug output to w instead of the log file
func EnableWriter(w io.Writer) {
	enable(w, nil)
}

func enable(w io.Writer, c io.Closer) bool {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return false
	}
	out = w
	closer = c
	enabled = true

	// can't call Log - we hold the mutex
	write("debug", "=== debug logging started ===")
	return true
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if closer != nil {
		closer.Close()
		closer = nil
	}
	out = nil
	enabled = false
}

// Enabled reports whether logging is on
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message under category
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || out == nil {
		return
	}
	write(category, fmt.Sprintf(format, args...))
}

func write(category, msg string) {
	ts := time.Now().Format("15:04:05.000")
	fmt.Fprintf(out, "[%s] %-10s %s\n", ts, category, msg)
	if f, ok := out.(*os.File); ok {
		f.Sync() // flush so the log survives a crash
	}
}
