package mmapbuf

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

// FlushResult reports the outcome of one scheduled sync cycle, the mmap
// counterpart to the teacher's pager GCResult (internal/storage/pager/gc.go)
// — both are background maintenance passes the hot write path shouldn't have
// to pay for synchronously.
type FlushResult struct {
	Synced bool
	Errors []string
}

// Flusher periodically msyncs an mmap-backed Buffer's current mapping to
// disk on a cron schedule.
type Flusher struct {
	mu   sync.Mutex
	buf  *Buffer
	cron *cron.Cron
	last FlushResult
}

// NewFlusher builds a flusher that syncs buf on schedule, a standard
// 5-field cron expression or a "@every 30s"-style descriptor understood by
// robfig/cron/v3.
func NewFlusher(buf *Buffer, schedule string) (*Flusher, error) {
	f := &Flusher{buf: buf, cron: cron.New()}
	if _, err := f.cron.AddFunc(schedule, f.runOnce); err != nil {
		return nil, fmt.Errorf("pagebuf/mmapbuf: invalid flush schedule %q: %w", schedule, err)
	}
	return f, nil
}

// Start begins the background schedule.
func (f *Flusher) Start() { f.cron.Start() }

// Stop halts the schedule, waiting for any in-flight cycle to finish.
func (f *Flusher) Stop() { <-f.cron.Stop().Done() }

// LastResult returns the outcome of the most recently completed sync cycle.
func (f *Flusher) LastResult() FlushResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *Flusher) runOnce() {
	result := FlushResult{}
	if err := f.buf.Sync(); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("sync: %v", err))
	} else {
		result.Synced = true
	}
	f.mu.Lock()
	f.last = result
	f.mu.Unlock()
}
