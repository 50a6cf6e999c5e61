package watcher

import (
	"fmt"
	"os"
	"time"

	"go.trai.ch/zyphar/internal/core/ports"
)

// Poller detects changes to a fixed set of files by comparing mtimes. A
// missing file is tolerated: its mtime is recorded as zero with a warning,
// so a later reappearance registers as a change.
type Poller struct {
	files  []string
	mtimes map[string]time.Time
	log    ports.Logger
}

// NewPoller creates a poller over the given files and records their
// current mtimes as the baseline.
func NewPoller(files []string, log ports.Logger) *Poller {
	p := &Poller{
		files:  append([]string(nil), files...),
		mtimes: make(map[string]time.Time, len(files)),
		log:    log,
	}
	for _, file := range p.files {
		p.mtimes[file] = p.stat(file)
	}
	return p
}

// Files returns the watched file list.
func (p *Poller) Files() []string {
	return append([]string(nil), p.files...)
}

// Mtime returns the recorded mtime for a file; the zero time means the
// file was missing at the last observation.
func (p *Poller) Mtime(file string) time.Time {
	return p.mtimes[file]
}

// Poll compares current mtimes against the recorded ones, updates the
// record, and returns the changed files.
func (p *Poller) Poll() []string {
	var changed []string
	for _, file := range p.files {
		mtime := p.stat(file)
		if !mtime.Equal(p.mtimes[file]) {
			p.mtimes[file] = mtime
			changed = append(changed, file)
		}
	}
	return changed
}

// Stable re-checks the given files after the debounce window and reports
// whether their mtimes held still. Files still being written re-enter the
// pending state via the updated record.
func (p *Poller) Stable(files []string) bool {
	stable := true
	for _, file := range files {
		mtime := p.stat(file)
		if !mtime.Equal(p.mtimes[file]) {
			p.mtimes[file] = mtime
			stable = false
		}
	}
	return stable
}

func (p *Poller) stat(file string) time.Time {
	info, err := os.Stat(file)
	if err != nil {
		p.log.Warn(fmt.Sprintf("cannot stat watched file %s: %v", file, err))
		return time.Time{}
	}
	return info.ModTime()
}
