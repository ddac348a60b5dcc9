package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

// consecutive transport failures tolerated while polling
const maxPollFailures = 5

var ErrNoFrames = errors.New("timelapse has no frames yet")

// API is the part of the chronicle client the service polls.
type API interface {
	GetTimelapse(ctx context.Context, id int64) (*apiclient.Timelapse, error)
	GetFrameImage(ctx context.Context, id int64) (apiclient.Blob, error)
	GetExportStatus(ctx context.Context, jobID int64) (*apiclient.ExportJob, error)
	DownloadExport(ctx context.Context, jobID int64) (apiclient.Blob, error)
}

type Service interface {
	Snapshot(ctx context.Context, timelapseID int64) (Snapshot, error)
	Stream(ctx context.Context, timelapseID int64, interval time.Duration) (Stream, error)
	WaitExport(ctx context.Context, jobID int64, interval time.Duration, onUpdate func(ExportUpdate)) (*apiclient.ExportJob, error)
	DownloadExport(ctx context.Context, jobID int64) (apiclient.Blob, error)
}

type Snapshot = apiclient.Blob

type Stream chan apiclient.Blob

type service struct {
	log *slog.Logger
	api API
}

func NewService(log *slog.Logger, api API) (Service, error) {
	if api == nil {
		return nil, errors.New("api client is nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &service{
		log: log.With("svc", "service"),
		api: api,
	}, nil
}

// Snapshot returns the image of the timelapse's most recent frame.
func (svc *service) Snapshot(ctx context.Context, timelapseID int64) (Snapshot, error) {
	tl, err := svc.api.GetTimelapse(ctx, timelapseID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fail to get timelapse: %w", err)
	}
	if tl.LastFrameID == nil {
		return Snapshot{}, ErrNoFrames
	}

	img, err := svc.api.GetFrameImage(ctx, *tl.LastFrameID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fail to get frame %d image: %w", *tl.LastFrameID, err)
	}
	return img, nil
}

func (svc *service) DownloadExport(ctx context.Context, jobID int64) (apiclient.Blob, error) {
	return svc.api.DownloadExport(ctx, jobID)
}

// Stream polls the timelapse every interval and sends the latest frame image
// whenever last_frame_id changes. The channel is closed when ctx is done.
func (svc *service) Stream(ctx context.Context, timelapseID int64, interval time.Duration) (Stream, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid stream interval %s", interval)
	}
	stream := make(Stream, 10)
	log := svc.log.With("timelapseID", timelapseID)

	go func() {
		defer close(stream)

		var lastFrame int64
		after := time.After(0)
		for {
			select {
			case <-ctx.Done():
				return
			case <-after:
			}
			after = time.After(interval)

			tl, err := svc.api.GetTimelapse(ctx, timelapseID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.WarnContext(ctx, "fail to get timelapse", "err", err)
				if apiclient.IsNotFound(err) {
					return
				}
				continue
			}
			if tl.LastFrameID == nil || *tl.LastFrameID == lastFrame {
				if tl.IsTerminal() {
					log.DebugContext(ctx, "timelapse completed, stream finished")
					return
				}
				continue
			}

			img, err := svc.api.GetFrameImage(ctx, *tl.LastFrameID)
			if err != nil {
				log.WarnContext(ctx, "fail to get frame image", "frameID", *tl.LastFrameID, "err", err)
				if tl.IsTerminal() {
					return
				}
				continue
			}
			lastFrame = *tl.LastFrameID

			select {
			case stream <- img:
			case <-ctx.Done():
				return
			default:
				// reader is behind, drop the frame instead of blocking the poller
				log.Warn("buffer overflow")
			}

			if tl.IsTerminal() {
				log.DebugContext(ctx, "timelapse completed, stream finished")
				return
			}
		}
	}()

	return stream, nil
}

// WaitExport polls the job until the service reports a terminal status.
// Progress anomalies are logged and handed to onUpdate but do not stop the
// wait; the job's status alone decides when polling ends.
func (svc *service) WaitExport(ctx context.Context, jobID int64, interval time.Duration, onUpdate func(ExportUpdate)) (*apiclient.ExportJob, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid poll interval %s", interval)
	}
	log := svc.log.With("jobID", jobID)

	var (
		prev     *apiclient.ExportJob
		failures int
	)
	after := time.After(0)
	for {
		select {
		case <-ctx.Done():
			return prev, ctx.Err()
		case <-after:
		}
		after = time.After(interval)

		job, err := svc.api.GetExportStatus(ctx, jobID)
		if err != nil {
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) || ctx.Err() != nil {
				return prev, fmt.Errorf("fail to get export status: %w", err)
			}
			failures++
			if failures >= maxPollFailures {
				return prev, fmt.Errorf("fail to get export status after %d attempts: %w", failures, err)
			}
			log.WarnContext(ctx, "export status poll failed", "attempt", failures, "err", err)
			continue
		}
		failures = 0

		violation := CheckProgress(prev, job)
		if violation != nil {
			log.WarnContext(ctx, "export progress anomaly", "reason", violation.Reason)
		}
		log.DebugContext(ctx, "export status", "status", job.Status,
			"framesDone", job.FramesDone, "totalFrames", job.TotalFrames)

		if onUpdate != nil {
			onUpdate(ExportUpdate{Job: job, Violation: violation})
		}
		if job.IsTerminal() {
			return job, nil
		}
		prev = job
	}
}
