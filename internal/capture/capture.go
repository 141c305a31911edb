// Package capture acquires diagnostic inputs, either from an uploaded image
// file or from a frame grabbed off a live camera stream.
package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/verdant-health/clinsight/internal/domain"
)

// Mode selects the input source.
type Mode string

const (
	ModeUpload Mode = "upload"
	ModeCamera Mode = "camera"
)

// Device describes one camera device.
type Device struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Stream is one open camera stream. Grab returns the current frame; Stop
// releases the underlying device and is safe to call more than once.
type Stream interface {
	Grab(ctx context.Context) (data []byte, mimeType string, err error)
	Stop(ctx context.Context) error
}

// Provider gives access to camera hardware. Implementations must allow only
// one open stream at a time.
type Provider interface {
	Enumerate(ctx context.Context) ([]Device, error)
	Open(ctx context.Context, deviceID string) (Stream, error)
}

const capturedFileName = "captured-image.jpg"

// Unit drives input acquisition. It owns at most one DiagnosticInput and, in
// camera mode, at most one open stream. All mutation is serialized, and the
// stream is released on every path that leaves camera mode.
type Unit struct {
	mu       sync.Mutex
	provider Provider

	mode     Mode
	deviceID string
	stream   Stream
	input    *domain.DiagnosticInput
}

func NewUnit(provider Provider) *Unit {
	return &Unit{provider: provider, mode: ModeUpload}
}

// Mode returns the current input source.
func (u *Unit) Mode() Mode {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.mode
}

// Input returns the current diagnostic input, or nil.
func (u *Unit) Input() *domain.DiagnosticInput {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.input
}

// Devices enumerates the available camera devices.
func (u *Unit) Devices(ctx context.Context) ([]Device, error) {
	return u.provider.Enumerate(ctx)
}

// SetMode switches the input source. Any existing input is cleared. Entering
// camera mode opens the previously chosen device, or the first available one.
// Leaving camera mode releases the stream.
func (u *Unit) SetMode(ctx context.Context, mode Mode) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if mode != ModeUpload && mode != ModeCamera {
		return fmt.Errorf("unknown capture mode %q", mode)
	}

	u.input = nil

	if mode == ModeUpload {
		u.mode = ModeUpload
		return u.releaseLocked(ctx)
	}

	u.mode = ModeCamera
	return u.openLocked(ctx, u.deviceID)
}

// AttachUpload validates and attaches an uploaded image file.
func (u *Unit) AttachUpload(name, mimeType string, data []byte) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("attach %q: %w", mimeType, domain.ErrInvalidMediaType)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	u.input = &domain.DiagnosticInput{
		Source:   SourceForMode(u.mode),
		FileName: name,
		MimeType: mimeType,
		Media:    data,
	}
	return nil
}

// CaptureFrame grabs a still image from the active camera stream.
func (u *Unit) CaptureFrame(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.stream == nil {
		return domain.ErrNoActiveStream
	}
	data, mimeType, err := u.stream.Grab(ctx)
	if err != nil {
		return fmt.Errorf("grab frame: %w", err)
	}
	u.input = &domain.DiagnosticInput{
		Source:   domain.SourceCamera,
		FileName: capturedFileName,
		MimeType: mimeType,
		Media:    data,
	}
	return nil
}

// ClearInput discards the current input (retake / remove upload).
func (u *Unit) ClearInput() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.input = nil
}

// SelectDevice switches the camera device. When a stream is active, the old
// stream is fully stopped before the new one opens.
func (u *Unit) SelectDevice(ctx context.Context, deviceID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.deviceID = deviceID
	if u.mode != ModeCamera {
		return nil
	}
	return u.openLocked(ctx, deviceID)
}

// Release stops the active stream, if any. Safe to call on every exit path.
func (u *Unit) Release(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.releaseLocked(ctx)
}

// Reopen releases and re-opens the camera fresh. Used by the back action
// while in camera mode.
func (u *Unit) Reopen(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.mode != ModeCamera {
		return nil
	}
	return u.openLocked(ctx, u.deviceID)
}

// openLocked stops any active stream, then opens deviceID (or the first
// enumerated device when empty). On open failure the unit is left released.
func (u *Unit) openLocked(ctx context.Context, deviceID string) error {
	if err := u.releaseLocked(ctx); err != nil {
		return err
	}

	if deviceID == "" {
		devices, err := u.provider.Enumerate(ctx)
		if err != nil {
			return fmt.Errorf("enumerate cameras: %w", err)
		}
		if len(devices) == 0 {
			return domain.ErrNoDeviceAvailable
		}
		deviceID = devices[0].ID
	}

	stream, err := u.provider.Open(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("open camera %s: %w", deviceID, err)
	}
	u.stream = stream
	u.deviceID = deviceID
	return nil
}

func (u *Unit) releaseLocked(ctx context.Context) error {
	if u.stream == nil {
		return nil
	}
	stream := u.stream
	u.stream = nil
	if err := stream.Stop(ctx); err != nil {
		return fmt.Errorf("stop stream: %w", err)
	}
	return nil
}

// SourceForMode maps a capture mode to the input source kind.
func SourceForMode(m Mode) domain.SourceKind {
	if m == ModeCamera {
		return domain.SourceCamera
	}
	return domain.SourceUpload
}
