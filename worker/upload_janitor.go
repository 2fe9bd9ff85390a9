package worker

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
)

// UploadJanitor is a background worker that removes stale temp files left in
// the evidence directory by aborted uploads (client disconnect mid-copy).
// Completed uploads are renamed away from the temp prefix and are never
// touched.
type UploadJanitor struct {
	dir        string
	tempPrefix string
	maxAge     time.Duration
	interval   time.Duration
	stopChan   chan struct{}
	running    bool
}

// NewUploadJanitor creates a new upload janitor
func NewUploadJanitor(dir, tempPrefix string, maxAge, interval time.Duration) *UploadJanitor {
	return &UploadJanitor{
		dir:        dir,
		tempPrefix: tempPrefix,
		maxAge:     maxAge,
		interval:   interval,
		stopChan:   make(chan struct{}),
	}
}

// Start starts the janitor in its own goroutine.
func (w *UploadJanitor) Start() {
	if w.running {
		log.Warn("upload janitor is already running")
		return
	}

	w.running = true
	log.Infof("upload janitor started (interval: %v, max age: %v)", w.interval, w.maxAge)

	go w.run()
}

// Stop stops the janitor.
func (w *UploadJanitor) Stop() {
	if !w.running {
		return
	}
	close(w.stopChan)
	w.running = false
	log.Info("upload janitor stopped")
}

func (w *UploadJanitor) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			return
		}
	}
}

// sweep removes temp files older than maxAge.
func (w *UploadJanitor) sweep() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Errorf("upload janitor: failed to read %s: %v", w.dir, err)
		}
		return
	}

	cutoff := time.Now().Add(-w.maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), w.tempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Errorf("upload janitor: failed to remove %s: %v", path, err)
			continue
		}
		log.Infof("upload janitor: removed stale temp file %s", entry.Name())
	}
}
