package camera

import (
	"errors"
	"fmt"

	apiclient "github.com/ImPhantom/chronicle/apiClient"
)

var ErrUnsupported = errors.New("device probing is only supported on linux")

// Device is a V4L2 capture node found on this host.
type Device struct {
	Index   int
	Path    string
	Name    string
	Formats []string

	MaxWidth  uint32
	MaxHeight uint32
}

// Info returns the device in the shape the service reports hardware cameras.
func (d Device) Info() apiclient.HardwareCameraInfo {
	return apiclient.HardwareCameraInfo{
		Index: d.Index,
		Name:  d.Name,
	}
}

func (d Device) Resolution() string {
	if d.MaxWidth == 0 || d.MaxHeight == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", d.MaxWidth, d.MaxHeight)
}

func fallbackName(index int) string {
	return fmt.Sprintf("Camera %d", index)
}
