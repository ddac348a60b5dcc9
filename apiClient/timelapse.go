package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const timelapsesPath = "/api/v1/timelapses"

type Timelapse struct {
	ID              int64           `json:"id"`
	CameraID        int64           `json:"camera_id"`
	Name            string          `json:"name"`
	IntervalSeconds int             `json:"interval_seconds"`
	Status          TimelapseStatus `json:"status"`
	StartedAt       *Timestamp      `json:"started_at"`
	EndedAt         *Timestamp      `json:"ended_at"`
	CreatedAt       Timestamp       `json:"created_at"`
	LastFrameID     *int64          `json:"last_frame_id"`
	FrameCount      int             `json:"frame_count"`
	SizeBytes       int64           `json:"size_bytes"`
}

func (t *Timelapse) IsTerminal() bool {
	return t.Status.IsTerminal()
}

type TimelapseCreateRequest struct {
	CameraID        int64           `json:"camera_id"`
	Name            string          `json:"name"`
	IntervalSeconds int             `json:"interval_seconds"`
	Status          TimelapseStatus `json:"status,omitempty"`
	// StartedAt and EndedAt schedule a capture window.
	StartedAt *Timestamp `json:"started_at,omitempty"`
	EndedAt   *Timestamp `json:"ended_at,omitempty"`
}

type TimelapseUpdateRequest struct {
	Name            Optional[string]          `json:"name,omitzero"`
	IntervalSeconds Optional[int]             `json:"interval_seconds,omitzero"`
	Status          Optional[TimelapseStatus] `json:"status,omitzero"`
	StartedAt       Optional[Timestamp]       `json:"started_at,omitzero"`
	EndedAt         Optional[Timestamp]       `json:"ended_at,omitzero"`
}

func timelapsePath(id int64) string {
	return fmt.Sprintf("%s/%d", timelapsesPath, id)
}

func (c *Client) ListTimelapses(ctx context.Context) ([]Timelapse, error) {
	return Dispatch[[]Timelapse](ctx, c, timelapsesPath)
}

func (c *Client) ListTimelapsesForCamera(ctx context.Context, cameraID int64) ([]Timelapse, error) {
	return Dispatch[[]Timelapse](ctx, c, timelapsesPath,
		WithQuery(url.Values{"camera_id": {strconv.FormatInt(cameraID, 10)}}))
}

func (c *Client) GetTimelapse(ctx context.Context, id int64) (*Timelapse, error) {
	return Dispatch[*Timelapse](ctx, c, timelapsePath(id))
}

func (c *Client) CreateTimelapse(ctx context.Context, data TimelapseCreateRequest) (*Timelapse, error) {
	return Dispatch[*Timelapse](ctx, c, timelapsesPath,
		WithMethod(http.MethodPost), WithJSON(data))
}

func (c *Client) UpdateTimelapse(ctx context.Context, id int64, data TimelapseUpdateRequest) (*Timelapse, error) {
	return Dispatch[*Timelapse](ctx, c, timelapsePath(id),
		WithMethod(http.MethodPatch), WithJSON(data))
}

// SetTimelapseStatus asks the service for a status change. The returned
// Timelapse carries whatever status the service settled on.
func (c *Client) SetTimelapseStatus(ctx context.Context, id int64, status TimelapseStatus) (*Timelapse, error) {
	return c.UpdateTimelapse(ctx, id, TimelapseUpdateRequest{Status: Set(status)})
}

// DeleteTimelapse removes the timelapse with its frames. Deleting an id that
// is already gone returns a NotFound error from the service.
func (c *Client) DeleteTimelapse(ctx context.Context, id int64) error {
	_, err := Dispatch[NoContent](ctx, c, timelapsePath(id), WithMethod(http.MethodDelete))
	return err
}
