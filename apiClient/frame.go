package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const framesPath = "/api/v1/frames"

// Frame is a captured image. Only FilePath changes after capture.
type Frame struct {
	ID          int64     `json:"id"`
	TimelapseID int64     `json:"timelapse_id"`
	FilePath    string    `json:"file_path"`
	CapturedAt  Timestamp `json:"captured_at"`
}

type FrameCreateRequest struct {
	TimelapseID int64  `json:"timelapse_id"`
	FilePath    string `json:"file_path"`
	// CapturedAt defaults to the server's clock.
	CapturedAt *Timestamp `json:"captured_at,omitempty"`
}

type FrameUpdateRequest struct {
	FilePath Optional[string] `json:"file_path,omitzero"`
}

func framePath(id int64) string {
	return fmt.Sprintf("%s/%d", framesPath, id)
}

// ListFrames lists every frame, or only those of timelapseID when it is
// non-zero.
func (c *Client) ListFrames(ctx context.Context, timelapseID int64) ([]Frame, error) {
	path := framesPath
	if timelapseID != 0 {
		path = framePath(timelapseID)
	}
	return Dispatch[[]Frame](ctx, c, path)
}

// ListFramesForTimelapse filters with ?timelapse_id=, which unlike the path
// form of ListFrames cannot be mistaken for a frame id.
func (c *Client) ListFramesForTimelapse(ctx context.Context, timelapseID int64) ([]Frame, error) {
	return Dispatch[[]Frame](ctx, c, framesPath,
		WithQuery(url.Values{"timelapse_id": {strconv.FormatInt(timelapseID, 10)}}))
}

func (c *Client) GetFrame(ctx context.Context, id int64) (*Frame, error) {
	return Dispatch[*Frame](ctx, c, framePath(id))
}

func (c *Client) GetFrameImage(ctx context.Context, id int64) (Blob, error) {
	return Dispatch[Blob](ctx, c, framePath(id)+"/image")
}

func (c *Client) CreateFrame(ctx context.Context, data FrameCreateRequest) (*Frame, error) {
	return Dispatch[*Frame](ctx, c, framesPath,
		WithMethod(http.MethodPost), WithJSON(data))
}

func (c *Client) UpdateFrame(ctx context.Context, id int64, data FrameUpdateRequest) (*Frame, error) {
	return Dispatch[*Frame](ctx, c, framePath(id),
		WithMethod(http.MethodPatch), WithJSON(data))
}

func (c *Client) DeleteFrame(ctx context.Context, id int64) error {
	_, err := Dispatch[NoContent](ctx, c, framePath(id), WithMethod(http.MethodDelete))
	return err
}
