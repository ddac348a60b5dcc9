package apiclient

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01T08:00:00Z", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{"2025-06-01T10:00:00+02:00", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{"2025-06-01T08:00:00.250000", time.Date(2025, 6, 1, 8, 0, 0, 250_000_000, time.UTC)},
		{"2025-06-01 08:00:00", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		ts, err := ParseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(ts.Time), "%s -> %s", tt.in, ts.Time)
	}

	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestTimestamp_JSON(t *testing.T) {
	var holder struct {
		At  Timestamp  `json:"at"`
		Opt *Timestamp `json:"opt"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2025-06-01T08:00:00+00:00","opt":null}`), &holder))
	assert.Nil(t, holder.Opt)
	assert.Equal(t, 2025, holder.At.Year())

	data, err := json.Marshal(NewTimestamp(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-01T08:00:00Z"`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"at":1717228800}`), &holder))
}
