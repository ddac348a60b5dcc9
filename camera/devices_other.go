//go:build !linux

package camera

import "log/slog"

type Prober struct{}

func NewProber(log *slog.Logger) *Prober {
	return &Prober{}
}

func (p *Prober) ListDevices() ([]Device, error) {
	return nil, ErrUnsupported
}
