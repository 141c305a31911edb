package capture

import (
	"context"
	"errors"
	"sync"
)

// Bridge is a Provider backed by the browser: the client reports its media
// devices and pushes preview frames over HTTP, and the server-side stream
// grabs the most recent frame. One Bridge serves one browser session.
type Bridge struct {
	mu      sync.Mutex
	devices []Device

	openID string // device of the open stream, "" when closed
	frame  []byte
	mime   string
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// SetDevices replaces the device list reported by the client.
func (b *Bridge) SetDevices(devices []Device) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.devices = append([]Device(nil), devices...)
}

// PushFrame records the latest preview frame for the open stream.
func (b *Bridge) PushFrame(deviceID string, data []byte, mimeType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openID == "" || b.openID != deviceID {
		return errors.New("no open stream for device")
	}
	b.frame = append([]byte(nil), data...)
	b.mime = mimeType
	return nil
}

func (b *Bridge) Enumerate(ctx context.Context) ([]Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Device(nil), b.devices...), nil
}

func (b *Bridge) Open(ctx context.Context, deviceID string) (Stream, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// The capture unit stops the previous stream before opening the next;
	// a second concurrent open is a bug, not a race to tolerate.
	if b.openID != "" {
		return nil, errors.New("stream already open")
	}
	b.openID = deviceID
	b.frame = nil
	b.mime = ""
	return &bridgeStream{bridge: b, deviceID: deviceID}, nil
}

type bridgeStream struct {
	bridge   *Bridge
	deviceID string
}

func (s *bridgeStream) Grab(ctx context.Context) ([]byte, string, error) {
	b := s.bridge
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openID != s.deviceID {
		return nil, "", errors.New("stream stopped")
	}
	if len(b.frame) == 0 {
		return nil, "", errors.New("no frame received yet")
	}
	return append([]byte(nil), b.frame...), b.mime, nil
}

func (s *bridgeStream) Stop(ctx context.Context) error {
	b := s.bridge
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openID == s.deviceID {
		b.openID = ""
		b.frame = nil
		b.mime = ""
	}
	return nil
}
