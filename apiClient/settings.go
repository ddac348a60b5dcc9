package apiclient

import (
	"context"
	"net/http"
)

const settingsPath = "/api/v1/settings"

type RTSPTransport string

const (
	RTSPTransportTCP  RTSPTransport = "tcp"
	RTSPTransportUDP  RTSPTransport = "udp"
	RTSPTransportHTTP RTSPTransport = "http"
)

type CaptureImageFormat string

const (
	CaptureFormatWebP CaptureImageFormat = "webp"
	CaptureFormatJPEG CaptureImageFormat = "jpeg"
	CaptureFormatPNG  CaptureImageFormat = "png"
)

// AppSettings is the service-wide settings record. There is exactly one;
// nil pointers mean unlimited or disabled.
type AppSettings struct {
	ID                            int64              `json:"id"`
	Timezone                      string             `json:"timezone"`
	StoragePath                   string             `json:"storage_path"`
	MaxStorageGB                  *float64           `json:"max_storage_gb"`
	FFmpegTimeoutSeconds          int                `json:"ffmpeg_timeout_seconds"`
	FFmpegRTSPTransport           RTSPTransport      `json:"ffmpeg_rtsp_transport"`
	CaptureImageFormat            CaptureImageFormat `json:"capture_image_format"`
	CaptureImageQuality           int                `json:"capture_image_quality"`
	DefaultCaptureIntervalSeconds int                `json:"default_capture_interval_seconds"`
	MaxFramesPerTimelapse         *int               `json:"max_frames_per_timelapse"`
	RetentionDays                 *int               `json:"retention_days"`
}

type AppSettingsUpdateRequest struct {
	Timezone                      Optional[string]             `json:"timezone,omitzero"`
	StoragePath                   Optional[string]             `json:"storage_path,omitzero"`
	MaxStorageGB                  Optional[float64]            `json:"max_storage_gb,omitzero"`
	FFmpegTimeoutSeconds          Optional[int]                `json:"ffmpeg_timeout_seconds,omitzero"`
	FFmpegRTSPTransport           Optional[RTSPTransport]      `json:"ffmpeg_rtsp_transport,omitzero"`
	CaptureImageFormat            Optional[CaptureImageFormat] `json:"capture_image_format,omitzero"`
	CaptureImageQuality           Optional[int]                `json:"capture_image_quality,omitzero"`
	DefaultCaptureIntervalSeconds Optional[int]                `json:"default_capture_interval_seconds,omitzero"`
	MaxFramesPerTimelapse         Optional[int]                `json:"max_frames_per_timelapse,omitzero"`
	RetentionDays                 Optional[int]                `json:"retention_days,omitzero"`
}

// Clone returns a copy that shares no nullable fields with st.
func (st *AppSettings) Clone() *AppSettings {
	if st == nil {
		return nil
	}
	cp := *st
	cp.MaxStorageGB = clonePtr(st.MaxStorageGB)
	cp.MaxFramesPerTimelapse = clonePtr(st.MaxFramesPerTimelapse)
	cp.RetentionDays = clonePtr(st.RetentionDays)
	return &cp
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// StorageStats describes the volume holding the storage path. Used and free
// need not add up to total, the filesystem may reserve blocks.
type StorageStats struct {
	TotalBytes int64 `json:"total_bytes"`
	UsedBytes  int64 `json:"used_bytes"`
	FreeBytes  int64 `json:"free_bytes"`
}

func (c *Client) GetSettings(ctx context.Context) (*AppSettings, error) {
	return Dispatch[*AppSettings](ctx, c, settingsPath)
}

func (c *Client) UpdateSettings(ctx context.Context, data AppSettingsUpdateRequest) (*AppSettings, error) {
	return Dispatch[*AppSettings](ctx, c, settingsPath,
		WithMethod(http.MethodPatch), WithJSON(data))
}

func (c *Client) GetStorageStats(ctx context.Context) (*StorageStats, error) {
	return Dispatch[*StorageStats](ctx, c, settingsPath+"/storage")
}
