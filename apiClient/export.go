package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

const exportsPath = "/api/v1/exports"

type OutputFormat string

const (
	OutputWebM OutputFormat = "webm"
	OutputMP4  OutputFormat = "mp4"
)

type ExportResolution string

const (
	ResolutionOriginal ExportResolution = "original"
	Resolution1080p    ExportResolution = "1920x1080"
	Resolution720p     ExportResolution = "1280x720"
	Resolution360p     ExportResolution = "640x360"
	// ResolutionCustom takes its size from ExportRequest.CustomResolution.
	ResolutionCustom ExportResolution = "custom"
)

type ExportRequest struct {
	OutputFormat     OutputFormat     `json:"output_format"`
	OutputFPS        int              `json:"output_fps"`
	Resolution       ExportResolution `json:"resolution"`
	CustomResolution *string          `json:"custom_resolution,omitempty"`
	CRF              int              `json:"crf"`
}

// DefaultExportRequest mirrors the service defaults.
func DefaultExportRequest() ExportRequest {
	return ExportRequest{
		OutputFormat: OutputWebM,
		OutputFPS:    30,
		Resolution:   ResolutionOriginal,
		CRF:          28,
	}
}

// ExportJob is a render of a timelapse into a video. OutputFile is set only
// once completed, ErrorMessage only on error, CompletedAt only when terminal.
type ExportJob struct {
	ID            int64        `json:"id"`
	TimelapseID   int64        `json:"timelapse_id"`
	Status        ExportStatus `json:"status"`
	OutputFormat  OutputFormat `json:"output_format"`
	OutputFPS     int          `json:"output_fps"`
	Resolution    string       `json:"resolution"`
	CRF           int          `json:"crf"`
	TotalFrames   int          `json:"total_frames"`
	FramesDone    int          `json:"frames_done"`
	ProgressPct   float64      `json:"progress_pct"`
	OutputFile    *string      `json:"output_file"`
	FileSizeBytes *int64       `json:"file_size_bytes"`
	ErrorMessage  *string      `json:"error_message"`
	CreatedAt     Timestamp    `json:"created_at"`
	CompletedAt   *Timestamp   `json:"completed_at"`
}

func (j *ExportJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// StartExport queues a render of the timelapse. The job starts pending and
// must be polled with GetExportStatus.
func (c *Client) StartExport(ctx context.Context, timelapseID int64, data ExportRequest) (*ExportJob, error) {
	return Dispatch[*ExportJob](ctx, c, fmt.Sprintf("%s/timelapses/%d", exportsPath, timelapseID),
		WithMethod(http.MethodPost), WithJSON(data))
}

// ListExports returns the timelapse's jobs, newest first.
func (c *Client) ListExports(ctx context.Context, timelapseID int64) ([]ExportJob, error) {
	return Dispatch[[]ExportJob](ctx, c, fmt.Sprintf("%s/list/%d", exportsPath, timelapseID))
}

func (c *Client) GetExportStatus(ctx context.Context, jobID int64) (*ExportJob, error) {
	return Dispatch[*ExportJob](ctx, c, fmt.Sprintf("%s/%d/status", exportsPath, jobID))
}

// DownloadExport fetches the rendered video. The service answers 409 while
// the job is not completed.
func (c *Client) DownloadExport(ctx context.Context, jobID int64) (Blob, error) {
	return Dispatch[Blob](ctx, c, fmt.Sprintf("%s/%d/download", exportsPath, jobID))
}
