// Copyright (c) 2025 Neomantra Corp

package convert

import (
	"slices"
	"sync"
	"time"
)

// JobState mirrors a conversion job's lifecycle, the same shape as the
// teacher's DownloadState.
type JobState string

const (
	JobQueued   JobState = "queued"
	JobActive   JobState = "active"
	JobComplete JobState = "complete"
	JobFailed   JobState = "failed"
)

///////////////////////////////////////////////////////////////////////////////

// JobItem is one queued or in-flight file conversion.
type JobItem struct {
	Opts  Options
	State JobState
}

// ProgressMsg is emitted on the manager's progress channel as a job moves
// through the queue, matching the teacher's DownloadProgressMsg shape.
type ProgressMsg struct {
	Opts   Options
	State  JobState
	Result Result
	Error  error
}

///////////////////////////////////////////////////////////////////////////////

// ConversionManager drives N wpilog->parquet conversions concurrently with
// a bounded worker pool, adapted from the teacher's DownloadManager
// queue/active-slot/progress-channel pattern (internal/tui/download_manager.go),
// generalized from HTTP downloads to local file conversions. Conversions
// across distinct input files are independent (spec.md §5's "parallelism
// across files is safe"), so the same queue-drain design applies unchanged.
type ConversionManager struct {
	maxActiveJobs int

	progressCh chan ProgressMsg

	queueTicker *time.Ticker
	queueExitCh chan int

	queueMtx    sync.Mutex
	queuedJobs  []JobItem
	activeJobs  []JobItem
	pastJobs    []JobItem

	progressMtx     sync.Mutex
	progressBacklog []ProgressMsg
}

// NewConversionManager starts a manager allowing up to maxActiveJobs
// concurrent file conversions.
func NewConversionManager(maxActiveJobs int) *ConversionManager {
	if maxActiveJobs < 1 {
		maxActiveJobs = 1
	}
	cm := &ConversionManager{
		maxActiveJobs: maxActiveJobs,
		progressCh:    make(chan ProgressMsg, 500),
		queueExitCh:   make(chan int, 10),
		queueTicker:   time.NewTicker(50 * time.Millisecond),
	}
	go cm.queueHandler()
	return cm
}

// ProgressChannel returns the channel progress updates are delivered on.
func (cm *ConversionManager) ProgressChannel() chan ProgressMsg {
	return cm.progressCh
}

// Counts returns the number of queued, active, and completed/failed jobs.
func (cm *ConversionManager) Counts() (queued, active, past int) {
	cm.queueMtx.Lock()
	defer cm.queueMtx.Unlock()
	return len(cm.queuedJobs), len(cm.activeJobs), len(cm.pastJobs)
}

// QueueFile queues opts for conversion. Returns false if an identical
// Options is already queued, active, or past.
func (cm *ConversionManager) QueueFile(opts Options) bool {
	added := cm.enqueueJob(opts)
	if added {
		cm.sendProgress(&ProgressMsg{Opts: opts, State: JobQueued})
	}
	return added
}

// Close stops the queue handler. It does not cancel in-flight conversions.
func (cm *ConversionManager) Close() {
	cm.queueTicker.Stop()
	cm.queueExitCh <- 0
}

func (cm *ConversionManager) enqueueJob(opts Options) bool {
	cm.queueMtx.Lock()
	defer cm.queueMtx.Unlock()

	for _, j := range cm.queuedJobs {
		if j.Opts == opts {
			return false
		}
	}
	for _, j := range cm.activeJobs {
		if j.Opts == opts {
			return false
		}
	}
	for _, j := range cm.pastJobs {
		if j.Opts == opts {
			return false
		}
	}

	cm.queuedJobs = append(cm.queuedJobs, JobItem{Opts: opts, State: JobQueued})
	return true
}

func (cm *ConversionManager) completeJob(opts Options, state JobState) bool {
	cm.queueMtx.Lock()
	defer cm.queueMtx.Unlock()

	for i, j := range cm.activeJobs {
		if j.Opts == opts {
			j.State = state
			cm.activeJobs = slices.Delete(cm.activeJobs, i, i+1)
			cm.pastJobs = append(cm.pastJobs, j)
			return true
		}
	}
	return false
}

func (cm *ConversionManager) sendProgress(msg *ProgressMsg) {
	cm.progressMtx.Lock()
	defer cm.progressMtx.Unlock()

	if msg != nil {
		cm.progressBacklog = append(cm.progressBacklog, *msg)
	}

	for i, m := range cm.progressBacklog {
		select {
		case cm.progressCh <- m:
		default:
			cm.progressBacklog = cm.progressBacklog[i:]
			return
		}
	}
	cm.progressBacklog = nil
}

///////////////////////////////////////////////////////////////////////////////

// queueHandler runs on every tick: it flushes the progress backlog and
// activates queued jobs. The job slices are also touched by QueueFile,
// Counts and finishing workers; every access holds queueMtx.
func (cm *ConversionManager) queueHandler() {
	for {
		select {
		case <-cm.queueExitCh:
			return
		case <-cm.queueTicker.C:
			cm.sendProgress(nil)
			for cm.checkQueue() {
			}
		}
	}
}

// checkQueue activates one queued job if a worker slot is free. Returns
// true if a job was activated.
func (cm *ConversionManager) checkQueue() bool {
	cm.queueMtx.Lock()

	if len(cm.queuedJobs) == 0 || len(cm.activeJobs) >= cm.maxActiveJobs {
		cm.queueMtx.Unlock()
		return false
	}

	var item JobItem
	item, cm.queuedJobs = cm.queuedJobs[0], cm.queuedJobs[1:]
	item.State = JobActive
	cm.activeJobs = append(cm.activeJobs, item)
	cm.queueMtx.Unlock()

	go func() {
		progressMsg := ProgressMsg{Opts: item.Opts}
		result, err := File(item.Opts)
		if err != nil {
			progressMsg.State = JobFailed
			progressMsg.Error = err
		} else {
			progressMsg.State = JobComplete
			progressMsg.Result = result
		}
		cm.sendProgress(&progressMsg)
		cm.completeJob(item.Opts, progressMsg.State)
	}()
	return true
}
