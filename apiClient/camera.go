package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

const camerasPath = "/api/v1/cameras"

type ConnectionType string

const (
	ConnectionNetwork  ConnectionType = "network"
	ConnectionHardware ConnectionType = "hardware"
)

// Camera is a configured capture source. Exactly one of RTSPURL and
// DeviceIndex is set, chosen by ConnectionType.
type Camera struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	ConnectionType ConnectionType `json:"connection_type"`
	RTSPURL        *string        `json:"rtsp_url"`
	DeviceIndex    *int           `json:"device_index"`
	Enabled        bool           `json:"enabled"`
	CreatedAt      Timestamp      `json:"created_at"`
}

// Source describes whichever source field the connection type selects.
func (c *Camera) Source() string {
	switch c.ConnectionType {
	case ConnectionNetwork:
		if c.RTSPURL != nil {
			return *c.RTSPURL
		}
	case ConnectionHardware:
		if c.DeviceIndex != nil {
			return fmt.Sprintf("device %d", *c.DeviceIndex)
		}
	}
	return ""
}

type CameraCreateRequest struct {
	Name           string         `json:"name"`
	ConnectionType ConnectionType `json:"connection_type"`
	RTSPURL        *string        `json:"rtsp_url,omitempty"`
	DeviceIndex    *int           `json:"device_index,omitempty"`
	// Enabled defaults to true on the server when omitted.
	Enabled *bool `json:"enabled,omitempty"`
}

func NewNetworkCamera(name, rtspURL string) CameraCreateRequest {
	return CameraCreateRequest{
		Name:           name,
		ConnectionType: ConnectionNetwork,
		RTSPURL:        &rtspURL,
	}
}

func NewHardwareCamera(name string, deviceIndex int) CameraCreateRequest {
	return CameraCreateRequest{
		Name:           name,
		ConnectionType: ConnectionHardware,
		DeviceIndex:    &deviceIndex,
	}
}

type CameraUpdateRequest struct {
	Name           Optional[string]         `json:"name,omitzero"`
	ConnectionType Optional[ConnectionType] `json:"connection_type,omitzero"`
	RTSPURL        Optional[string]         `json:"rtsp_url,omitzero"`
	DeviceIndex    Optional[int]            `json:"device_index,omitzero"`
	Enabled        Optional[bool]           `json:"enabled,omitzero"`
}

// TestCaptureRequest is an unsaved camera configuration to grab one image from.
type TestCaptureRequest struct {
	ConnectionType ConnectionType `json:"connection_type"`
	RTSPURL        *string        `json:"rtsp_url,omitempty"`
	DeviceIndex    *int           `json:"device_index,omitempty"`
}

// HardwareCameraInfo is a capture device the service host can see. It is not
// a configured Camera.
type HardwareCameraInfo struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

func cameraPath(id int64) string {
	return fmt.Sprintf("%s/%d", camerasPath, id)
}

func (c *Client) ListCameras(ctx context.Context) ([]Camera, error) {
	return Dispatch[[]Camera](ctx, c, camerasPath)
}

func (c *Client) GetCamera(ctx context.Context, id int64) (*Camera, error) {
	return Dispatch[*Camera](ctx, c, cameraPath(id))
}

func (c *Client) CreateCamera(ctx context.Context, data CameraCreateRequest) (*Camera, error) {
	return Dispatch[*Camera](ctx, c, camerasPath,
		WithMethod(http.MethodPost), WithJSON(data))
}

func (c *Client) UpdateCamera(ctx context.Context, id int64, data CameraUpdateRequest) (*Camera, error) {
	return Dispatch[*Camera](ctx, c, cameraPath(id),
		WithMethod(http.MethodPatch), WithJSON(data))
}

func (c *Client) DeleteCamera(ctx context.Context, id int64) error {
	_, err := Dispatch[NoContent](ctx, c, cameraPath(id), WithMethod(http.MethodDelete))
	return err
}

func (c *Client) GetHardwareCameras(ctx context.Context) ([]HardwareCameraInfo, error) {
	return Dispatch[[]HardwareCameraInfo](ctx, c, camerasPath+"/hardware")
}

// TestCamera grabs a single image with an unsaved configuration. The image
// format follows the service's capture settings.
func (c *Client) TestCamera(ctx context.Context, data TestCaptureRequest) (Blob, error) {
	return Dispatch[Blob](ctx, c, camerasPath+"/test-capture",
		WithMethod(http.MethodPost), WithJSON(data))
}
