package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// DevReloader watches the running executable and fires a callback when a
// newer build appears on disk, so a development session can offer to restart
// itself after recompilation. It also exposes a periodic tick hook that the
// main window uses for housekeeping such as autosaving preferences.
type DevReloader struct {
	execPath string
	baseline time.Time
	interval time.Duration
	stop     chan struct{}

	onNewBinary func()
	onTick      func()
}

// NewDevReloader watches the current executable, checking every interval.
// Returns nil when the executable cannot be resolved, in which case hot
// reload is simply unavailable.
func NewDevReloader(interval time.Duration) *DevReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build writes a new file; follow the symlink so we stat the real one.
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
	}

	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}

	return &DevReloader{
		execPath: execPath,
		baseline: info.ModTime(),
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// OnNewBinary sets the callback fired when a newer binary is detected.
// It runs on a background goroutine.
func (r *DevReloader) OnNewBinary(fn func()) { r.onNewBinary = fn }

// OnTick sets a callback fired on every check interval, also from the
// background goroutine.
func (r *DevReloader) OnTick(fn func()) { r.onTick = fn }

// Start launches the background watch loop.
func (r *DevReloader) Start() {
	r.stop = make(chan struct{})
	go r.loop()
}

// Stop terminates the watch loop.
func (r *DevReloader) Stop() { close(r.stop) }

func (r *DevReloader) loop() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if r.onTick != nil {
				r.onTick()
			}
			if r.updated() && r.onNewBinary != nil {
				r.onNewBinary()
				// Fire once; the user either restarts or calls ResetBaseline.
				return
			}
		}
	}
}

// updated reports whether the binary on disk is newer than the baseline.
func (r *DevReloader) updated() bool {
	info, err := os.Stat(r.execPath)
	if err != nil {
		return false
	}
	return info.ModTime().After(r.baseline)
}

// ResetBaseline accepts the current binary as the baseline. Call when the
// user declines a restart so the prompt does not repeat, then Start again.
func (r *DevReloader) ResetBaseline() {
	if info, err := os.Stat(r.execPath); err == nil {
		r.baseline = info.ModTime()
	}
}

// Restart replaces the current process with a fresh instance of the binary,
// keeping arguments and environment. Does not return on success.
func (r *DevReloader) Restart() error {
	return syscall.Exec(r.execPath, os.Args, os.Environ())
}
