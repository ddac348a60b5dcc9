package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
	"github.com/ImPhantom/chronicle/service"
)

const defaultStreamInterval = 2 * time.Second

type Server interface {
	Start(ctx context.Context) error
	Handler() http.Handler
}

type server struct {
	log *slog.Logger
	cfg *Config

	svc service.Service
}

type Config struct {
	Addr string
	// StreamInterval is how often /stream polls for a new frame.
	StreamInterval time.Duration
}

func NewServer(log *slog.Logger, cfg *Config, svc service.Service) (Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if svc == nil {
		return nil, errors.New("service is nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = defaultStreamInterval
	}
	return &server{
		log: log.With("svc", "server"),
		cfg: cfg,

		svc: svc,
	}, nil
}

func (srv *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /snapshot", srv.Snapshot)
	mux.HandleFunc("GET /stream", srv.Stream)
	mux.HandleFunc("GET /exports/{id}", srv.Export)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (srv *server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.cfg.Addr)
	if err != nil {
		return fmt.Errorf("fail to listen on %s: %w", srv.cfg.Addr, err)
	}
	return srv.serve(ctx, ln)
}

func (srv *server) serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler: srv.Handler(),
		// open streams end with ctx, Shutdown alone would wait for them
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- hs.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("fail to shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (srv *server) Snapshot(w http.ResponseWriter, req *http.Request) {
	srv.log.Debug("Snapshot call")
	id, err := idParam(req.URL.Query().Get("timelapse"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	frame, err := srv.svc.Snapshot(req.Context(), id)
	if err != nil {
		srv.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", frame.ContentType)
	_, err = w.Write(frame.Data)
	if err != nil {
		srv.log.Error("Snapshot write error", "err", err)
	}
}

func (srv *server) Stream(w http.ResponseWriter, req *http.Request) {
	id, err := idParam(req.URL.Query().Get("timelapse"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := req.Context()
	stream, err := srv.svc.Stream(ctx, id, srv.cfg.StreamInterval)
	if err != nil {
		srv.writeError(w, err)
		return
	}
	srv.log.Info("Started stream", "timelapseID", id)

	const boundary = `frame`
	w.Header().Set("Content-Type", `multipart/x-mixed-replace;boundary=`+boundary)
	mpWriter := multipart.NewWriter(w)
	mpWriter.SetBoundary(boundary)
	flusher, _ := w.(http.Flusher)

	defer func() {
		srv.log.Info("Finished stream", "timelapseID", id)
		// exaust chan
		for range stream {
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-stream:
			if !ok {
				mpWriter.Close()
				return
			}

			iw, err := mpWriter.CreatePart(textproto.MIMEHeader{
				"Content-Type":   []string{frame.ContentType},
				"Content-Length": []string{strconv.Itoa(len(frame.Data))},
			})
			if err != nil {
				srv.log.Error("fail to send part", "err", err)
				return
			}

			_, err = iw.Write(frame.Data)
			if err != nil {
				srv.log.Error("fail to write part", "err", err)
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func (srv *server) Export(w http.ResponseWriter, req *http.Request) {
	srv.log.Debug("Export call")
	id, err := idParam(req.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	video, err := srv.svc.DownloadExport(req.Context(), id)
	if err != nil {
		srv.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", video.ContentType)
	if video.Filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", video.Filename))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(video.Data)))
	if _, err := w.Write(video.Data); err != nil {
		srv.log.Error("Export write error", "err", err)
	}
}

// writeError passes service errors through with their status code.
func (srv *server) writeError(w http.ResponseWriter, err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	case errors.Is(err, service.ErrNoFrames):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		srv.log.Error("Request failed", "err", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func idParam(raw string) (int64, error) {
	if raw == "" {
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
