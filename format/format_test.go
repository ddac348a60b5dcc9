package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

func TestBytes(t *testing.T) {
	assert.Equal(t, "0 B", Bytes(0))
	assert.Equal(t, "1.0 KiB", Bytes(1024))
	assert.Equal(t, "70 MiB", Bytes(73400320))
	assert.Equal(t, "-1.0 KiB", Bytes(-1024))
}

func TestInterval(t *testing.T) {
	tests := []struct {
		seconds int
		short   string
		long    string
	}{
		{1, "1s", "1 second"},
		{45, "45s", "45 seconds"},
		{60, "1m", "1 minute"},
		{300, "5m", "5 minutes"},
		{3600, "1h", "1 hour"},
		{5400, "1h 30m", "1 hour 30 minutes"},
		{7260, "2h 1m", "2 hours 1 minute"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.short, Interval(tt.seconds, true), tt.seconds)
		assert.Equal(t, tt.long, Interval(tt.seconds, false), tt.seconds)
	}
}

func TestProgress(t *testing.T) {
	job := &apiclient.ExportJob{FramesDone: 240, TotalFrames: 480, ProgressPct: 50}
	assert.Equal(t, "[##########..........]  50.0% (240/480)", Progress(job))

	job = &apiclient.ExportJob{FramesDone: 0, TotalFrames: 0, ProgressPct: 0}
	assert.Equal(t, "[....................]   0.0% (0/0)", Progress(job))
}

func TestSince(t *testing.T) {
	assert.Equal(t, "-", Since(nil))
	ts := apiclient.NewTimestamp(time.Now().Add(-3 * time.Hour))
	assert.Equal(t, "3 hours ago", Since(&ts))
}
