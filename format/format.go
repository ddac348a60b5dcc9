// Package format renders sizes, intervals and progress for terminal output.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

// Bytes renders n with binary (1024) units.
func Bytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

// Interval renders a capture interval: "45s", "5m", "1h 30m" in short form,
// "45 seconds", "1 hour 30 minutes" in long form.
func Interval(seconds int, short bool) string {
	switch {
	case seconds < 60:
		return unit(seconds, "s", "second", short)
	case seconds < 3600:
		return unit(roundDiv(seconds, 60), "m", "minute", short)
	}

	h := seconds / 3600
	m := roundDiv(seconds%3600, 60)
	if m == 0 {
		return unit(h, "h", "hour", short)
	}
	return unit(h, "h", "hour", short) + " " + unit(m, "m", "minute", short)
}

func unit(n int, abbr, word string, short bool) string {
	if short {
		return fmt.Sprintf("%d%s", n, abbr)
	}
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func roundDiv(n, d int) int {
	return (n + d/2) / d
}

// Progress renders an export job as "[#####.....]  50.0% (240/480)".
func Progress(job *apiclient.ExportJob) string {
	const width = 20
	pct := min(max(job.ProgressPct, 0), 100)
	filled := int(pct / 100 * width)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
	return fmt.Sprintf("[%s] %5.1f%% (%d/%d)", bar, pct, job.FramesDone, job.TotalFrames)
}

// Since renders a timestamp relative to now, "-" for nil.
func Since(ts *apiclient.Timestamp) string {
	if ts == nil || ts.IsZero() {
		return "-"
	}
	return humanize.RelTime(ts.Time, time.Now(), "ago", "from now")
}
