package apiclient

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameJSON = `{"id":77,"timelapse_id":4,"file_path":"./data/4/frame_000077.webp","captured_at":"2025-06-01T09:00:00"}`

func TestListFrames(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/frames"), jsonResponder(200, "["+frameJSON+"]"))
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/frames/4"), jsonResponder(200, "["+frameJSON+"]"))

	all, err := c.ListFrames(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, all, 1)

	some, err := c.ListFrames(t.Context(), 4)
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, int64(4), some[0].TimelapseID)
	// naive datetimes are UTC
	assert.Equal(t, 9, some[0].CapturedAt.UTC().Hour())

	info := mt.GetCallCountInfo()
	assert.Equal(t, 1, info["GET "+endpoint("/api/v1/frames")])
	assert.Equal(t, 1, info["GET "+endpoint("/api/v1/frames/4")])
}

func TestListFramesForTimelapse(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponderWithQuery(http.MethodGet, endpoint("/api/v1/frames"), "timelapse_id=4",
		jsonResponder(200, "["+frameJSON+"]"))

	frames, err := c.ListFramesForTimelapse(t.Context(), 4)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, int64(77), frames[0].ID)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestCreateFrame_OmitsCapturedAt(t *testing.T) {
	c, mt := newTestClient(t)

	var sent map[string]any
	mt.RegisterResponder(http.MethodPost, endpoint("/api/v1/frames"),
		captureBody(t, &sent, http.StatusCreated, frameJSON))

	f, err := c.CreateFrame(t.Context(), FrameCreateRequest{TimelapseID: 4, FilePath: "./data/4/frame_000077.webp"})
	require.NoError(t, err)
	assert.NotContains(t, sent, "captured_at")
	assert.Equal(t, int64(77), f.ID)
}

func TestUpdateFrame_Relocate(t *testing.T) {
	c, mt := newTestClient(t)

	var sent map[string]any
	mt.RegisterResponder(http.MethodPatch, endpoint("/api/v1/frames/77"),
		captureBody(t, &sent, 200, `{"id":77,"timelapse_id":4,"file_path":"/mnt/archive/77.webp","captured_at":"2025-06-01T09:00:00Z"}`))

	f, err := c.UpdateFrame(t.Context(), 77, FrameUpdateRequest{FilePath: Set("/mnt/archive/77.webp")})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"file_path": "/mnt/archive/77.webp"}, sent)
	assert.Equal(t, "/mnt/archive/77.webp", f.FilePath)
}

func TestGetFrameImage(t *testing.T) {
	c, mt := newTestClient(t)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/frames/77/image"),
		httpmock.NewBytesResponder(200, png).HeaderSet(http.Header{"Content-Type": {"image/png"}}))

	blob, err := c.GetFrameImage(t.Context(), 77)
	require.NoError(t, err)
	assert.Equal(t, png, blob.Data)
	assert.Equal(t, ".png", blob.Extension())
}

func TestDeleteFrame_NotFound(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodDelete, endpoint("/api/v1/frames/1"),
		jsonResponder(404, `{"detail":"Frame not found"}`))

	err := c.DeleteFrame(t.Context(), 1)
	assert.True(t, IsNotFound(err))
}
