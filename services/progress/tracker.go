// Package progress tracks pipeline task bookkeeping: per-upload stage
// counters with a time-to-live. This is housekeeping state, not
// authoritative: the conversation record's status is the source of
// truth for pipeline completion.
package progress

import (
	"context"
	"sync"
	"time"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Pipeline steps, in order.
const (
	StepUpload = iota
	StepConvert
	StepTranscribe
	StepAnalyze

	TotalSteps = 4
)

var stepDetails = [TotalSteps]string{
	"Uploading file",
	"Converting audio",
	"Transcribing",
	"Analyzing",
}

type task struct {
	startedAt   time.Time
	currentStep int
	status      Status
	err         string
}

// Report is the externally visible snapshot of one task.
type Report struct {
	TaskID      string    `json:"task_id"`
	Progress    float64   `json:"progress"`
	CurrentStep int       `json:"current_step"`
	StepDetail  string    `json:"step_detail"`
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// Tracker is an explicitly-owned task store with TTL eviction: finished
// tasks expire lazily on read and through the periodic sweeper.
type Tracker struct {
	mu    sync.RWMutex
	tasks map[string]*task
	ttl   time.Duration
	now   func() time.Time
}

func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		tasks: make(map[string]*task),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (t *Tracker) Create(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tasks[taskID] = &task{
		startedAt: t.now(),
		status:    StatusProcessing,
	}
}

func (t *Tracker) Update(taskID string, step int, status Status, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tk, ok := t.tasks[taskID]
	if !ok {
		return
	}
	tk.currentStep = step
	tk.status = status
	tk.err = errMsg
}

// Get returns the task snapshot, expiring it first if it finished
// longer than the TTL ago.
func (t *Tracker) Get(taskID string) (Report, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tk, ok := t.tasks[taskID]
	if !ok {
		return Report{}, false
	}
	if t.expired(tk) {
		delete(t.tasks, taskID)
		return Report{}, false
	}

	detail := ""
	if tk.currentStep >= 0 && tk.currentStep < TotalSteps {
		detail = stepDetails[tk.currentStep]
	}

	return Report{
		TaskID:      taskID,
		Progress:    float64(tk.currentStep) / TotalSteps * 100,
		CurrentStep: tk.currentStep,
		StepDetail:  detail,
		Status:      tk.status,
		Error:       tk.err,
		StartedAt:   tk.startedAt,
	}, true
}

// Sweep removes expired tasks and reports how many were dropped.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, tk := range t.tasks {
		if t.expired(tk) {
			delete(t.tasks, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on the given interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

func (t *Tracker) expired(tk *task) bool {
	if tk.status == StatusProcessing {
		return false
	}
	return t.now().Sub(tk.startedAt) > t.ttl
}
