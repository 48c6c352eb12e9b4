package progress

import (
	"testing"
	"time"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker(24 * time.Hour)
	tr.Create("task-1")

	report, ok := tr.Get("task-1")
	if !ok {
		t.Fatal("expected task to exist")
	}
	if report.Status != StatusProcessing || report.Progress != 0 {
		t.Errorf("unexpected initial report: %+v", report)
	}

	tr.Update("task-1", StepTranscribe, StatusProcessing, "")
	report, _ = tr.Get("task-1")
	if report.CurrentStep != StepTranscribe {
		t.Errorf("expected step %d, got %d", StepTranscribe, report.CurrentStep)
	}
	if report.Progress != 50 {
		t.Errorf("expected 50%% progress, got %f", report.Progress)
	}
	if report.StepDetail != "Transcribing" {
		t.Errorf("unexpected step detail %q", report.StepDetail)
	}

	tr.Update("task-1", StepAnalyze, StatusError, "asr timeout")
	report, _ = tr.Get("task-1")
	if report.Status != StatusError || report.Error != "asr timeout" {
		t.Errorf("unexpected error report: %+v", report)
	}

	if _, ok := tr.Get("missing"); ok {
		t.Error("expected missing task to be absent")
	}

	// Updating an unknown task is a no-op, not a resurrection.
	tr.Update("missing", 1, StatusProcessing, "")
	if _, ok := tr.Get("missing"); ok {
		t.Error("update must not create tasks")
	}
}

func TestTrackerExpiry(t *testing.T) {
	tr := NewTracker(time.Hour)
	now := time.Now()
	tr.now = func() time.Time { return now }

	tr.Create("done")
	tr.Update("done", StepAnalyze, StatusCompleted, "")
	tr.Create("running")

	// Two hours later the finished task is expired; the running one is
	// kept regardless of age.
	tr.now = func() time.Time { return now.Add(2 * time.Hour) }

	if _, ok := tr.Get("done"); ok {
		t.Error("finished task past TTL should lazily expire on read")
	}
	if _, ok := tr.Get("running"); !ok {
		t.Error("running task must never expire")
	}
}

func TestTrackerSweep(t *testing.T) {
	tr := NewTracker(time.Hour)
	now := time.Now()
	tr.now = func() time.Time { return now }

	for _, id := range []string{"a", "b"} {
		tr.Create(id)
		tr.Update(id, StepAnalyze, StatusCompleted, "")
	}

	// "fresh" finishes 90 minutes later; only a and b are past TTL.
	tr.now = func() time.Time { return now.Add(90 * time.Minute) }
	tr.Create("fresh")
	tr.Update("fresh", StepAnalyze, StatusError, "boom")

	if removed := tr.Sweep(); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, ok := tr.Get("fresh"); !ok {
		t.Error("recently finished task should survive the sweep")
	}
}
