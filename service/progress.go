package service

import (
	"fmt"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

// ExportUpdate is one polled snapshot of an export job.
type ExportUpdate struct {
	Job *apiclient.ExportJob
	// Violation is set when the snapshot breaks the progress rules against
	// the previous one.
	Violation *ProgressViolation
}

type ProgressViolation struct {
	JobID  int64
	Reason string
}

func (v *ProgressViolation) Error() string {
	return fmt.Sprintf("export job %d: %s", v.JobID, v.Reason)
}

// CheckProgress compares two consecutive snapshots of the same job. While a
// job runs, frames_done stays within total_frames and neither frames_done nor
// progress_pct go backwards. prev may be nil for the first snapshot.
func CheckProgress(prev, next *apiclient.ExportJob) *ProgressViolation {
	if next == nil {
		return nil
	}
	violation := func(format string, args ...any) *ProgressViolation {
		return &ProgressViolation{JobID: next.ID, Reason: fmt.Sprintf(format, args...)}
	}

	if next.Status == apiclient.ExportRunning && next.FramesDone > next.TotalFrames {
		return violation("frames_done %d exceeds total_frames %d", next.FramesDone, next.TotalFrames)
	}
	if prev == nil {
		return nil
	}

	// polling can skip running, so any live state may land on a terminal one
	skipped := !prev.Status.IsTerminal() && next.Status.IsTerminal()
	if prev.Status != next.Status && !skipped && !prev.Status.CanTransition(next.Status) {
		return violation("unexpected status change %s -> %s", prev.Status, next.Status)
	}
	if prev.Status == apiclient.ExportRunning && next.Status == apiclient.ExportRunning {
		if next.FramesDone < prev.FramesDone {
			return violation("frames_done went back from %d to %d", prev.FramesDone, next.FramesDone)
		}
		if next.ProgressPct < prev.ProgressPct {
			return violation("progress_pct went back from %.1f to %.1f", prev.ProgressPct, next.ProgressPct)
		}
	}
	return nil
}
