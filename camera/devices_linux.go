//go:build linux

package camera

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/blackjack/webcam"
)

const (
	devicePattern = "/dev/video*"
	sysfsNameFmt  = "/sys/class/video4linux/video%d/name"
)

type device interface {
	GetSupportedFormats() map[webcam.PixelFormat]string
	GetSupportedFrameSizes(webcam.PixelFormat) []webcam.FrameSize
	Close() error
}

type Prober struct {
	log *slog.Logger

	glob     func(pattern string) ([]string, error)
	open     func(path string) (device, error)
	readName func(index int) (string, error)
}

func NewProber(log *slog.Logger) *Prober {
	if log == nil {
		log = slog.Default()
	}
	return &Prober{
		log:  log.With("svc", "camera"),
		glob: filepath.Glob,
		open: func(path string) (device, error) {
			return webcam.Open(path)
		},
		readName: func(index int) (string, error) {
			data, err := os.ReadFile(fmt.Sprintf(sysfsNameFmt, index))
			return strings.TrimSpace(string(data)), err
		},
	}
}

// ListDevices opens every /dev/video* node, keeps the ones that can capture
// and reports their formats and largest frame size. Nodes that cannot be
// opened, or expose no pixel formats (metadata nodes), are skipped.
func (p *Prober) ListDevices() ([]Device, error) {
	paths, err := p.glob(devicePattern)
	if err != nil {
		return nil, fmt.Errorf("fail to list video devices: %w", err)
	}

	devices := []Device{}
	for _, path := range paths {
		index, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(path), "video"))
		if err != nil {
			p.log.Debug("Skipping device", "path", path, "err", err)
			continue
		}

		dev, ok := p.probe(path, index)
		if !ok {
			continue
		}
		devices = append(devices, dev)
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Index < devices[j].Index
	})
	return devices, nil
}

func (p *Prober) probe(path string, index int) (Device, bool) {
	cam, err := p.open(path)
	if err != nil {
		p.log.Debug("Fail to open camera", "path", path, "err", err)
		return Device{}, false
	}
	defer cam.Close()

	formatDesc := cam.GetSupportedFormats()
	if len(formatDesc) == 0 {
		p.log.Debug("No capture formats", "path", path)
		return Device{}, false
	}

	dev := Device{
		Index: index,
		Path:  path,
	}
	for f, desc := range formatDesc {
		dev.Formats = append(dev.Formats, desc)

		sizes := FrameSizes(cam.GetSupportedFrameSizes(f))
		if len(sizes) == 0 {
			continue
		}
		sort.Sort(sizes)
		largest := sizes[len(sizes)-1]
		if largest.MaxWidth*largest.MaxHeight > dev.MaxWidth*dev.MaxHeight {
			dev.MaxWidth = largest.MaxWidth
			dev.MaxHeight = largest.MaxHeight
		}
	}
	sort.Strings(dev.Formats)

	name, err := p.readName(index)
	if err != nil || name == "" {
		name = fallbackName(index)
	}
	dev.Name = name

	p.log.Debug("Found camera", "path", path, "name", dev.Name, "formats", dev.Formats)
	return dev, true
}

type FrameSizes []webcam.FrameSize

func (slice FrameSizes) Len() int {
	return len(slice)
}

// For sorting purposes
func (slice FrameSizes) Less(i, j int) bool {
	ls := slice[i].MaxWidth * slice[i].MaxHeight
	rs := slice[j].MaxWidth * slice[j].MaxHeight
	return ls < rs
}

// For sorting purposes
func (slice FrameSizes) Swap(i, j int) {
	slice[i], slice[j] = slice[j], slice[i]
}
