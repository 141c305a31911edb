package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/verdant-health/clinsight/internal/domain"
)

type fakeStream struct {
	id      string
	stopped int
	grabErr error
}

func (s *fakeStream) Grab(context.Context) ([]byte, string, error) {
	if s.grabErr != nil {
		return nil, "", s.grabErr
	}
	return []byte("frame:" + s.id), "image/jpeg", nil
}

func (s *fakeStream) Stop(context.Context) error {
	s.stopped++
	return nil
}

type fakeProvider struct {
	devices []Device
	enumErr error
	openErr error
	opened  []*fakeStream
}

func (p *fakeProvider) Enumerate(context.Context) ([]Device, error) {
	return p.devices, p.enumErr
}

func (p *fakeProvider) Open(_ context.Context, deviceID string) (Stream, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	s := &fakeStream{id: deviceID}
	p.opened = append(p.opened, s)
	return s, nil
}

func twoCameras() *fakeProvider {
	return &fakeProvider{devices: []Device{
		{ID: "cam0", Label: "Front"},
		{ID: "cam1", Label: "Rear"},
	}}
}

func TestSetMode_CameraOpensFirstDevice(t *testing.T) {
	p := twoCameras()
	u := NewUnit(p)

	if err := u.SetMode(context.Background(), ModeCamera); err != nil {
		t.Fatalf("SetMode(camera): %v", err)
	}
	if u.Mode() != ModeCamera {
		t.Fatalf("mode = %q", u.Mode())
	}
	if len(p.opened) != 1 || p.opened[0].id != "cam0" {
		t.Fatalf("opened = %+v, want single cam0 stream", p.opened)
	}
}

func TestSetMode_UploadReleasesStream(t *testing.T) {
	p := twoCameras()
	u := NewUnit(p)

	if err := u.SetMode(context.Background(), ModeCamera); err != nil {
		t.Fatal(err)
	}
	if err := u.CaptureFrame(context.Background()); err != nil {
		t.Fatal(err)
	}
	if u.Input() == nil {
		t.Fatal("expected captured input")
	}

	if err := u.SetMode(context.Background(), ModeUpload); err != nil {
		t.Fatalf("SetMode(upload): %v", err)
	}
	if p.opened[0].stopped == 0 {
		t.Error("camera stream not stopped when leaving camera mode")
	}
	if u.Input() != nil {
		t.Error("input not cleared on mode switch")
	}
}

func TestSetMode_Unknown(t *testing.T) {
	u := NewUnit(twoCameras())
	if err := u.SetMode(context.Background(), Mode("telepathy")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSetMode_NoDevice(t *testing.T) {
	u := NewUnit(&fakeProvider{})
	err := u.SetMode(context.Background(), ModeCamera)
	if !errors.Is(err, domain.ErrNoDeviceAvailable) {
		t.Fatalf("got %v, want ErrNoDeviceAvailable", err)
	}
}

func TestAttachUpload(t *testing.T) {
	u := NewUnit(twoCameras())

	if err := u.AttachUpload("notes.pdf", "application/pdf", []byte("x")); !errors.Is(err, domain.ErrInvalidMediaType) {
		t.Fatalf("pdf: got %v, want ErrInvalidMediaType", err)
	}

	if err := u.AttachUpload("xray.png", "image/png", []byte("pixels")); err != nil {
		t.Fatalf("AttachUpload: %v", err)
	}
	in := u.Input()
	if in == nil || in.Source != domain.SourceUpload || in.FileName != "xray.png" {
		t.Fatalf("input = %+v", in)
	}

	// A new upload replaces the old one wholesale.
	if err := u.AttachUpload("mri.jpg", "image/jpeg", []byte("other")); err != nil {
		t.Fatal(err)
	}
	if got := u.Input().FileName; got != "mri.jpg" {
		t.Errorf("input after replace = %q", got)
	}
}

func TestCaptureFrame(t *testing.T) {
	p := twoCameras()
	u := NewUnit(p)

	if err := u.CaptureFrame(context.Background()); !errors.Is(err, domain.ErrNoActiveStream) {
		t.Fatalf("no stream: got %v, want ErrNoActiveStream", err)
	}

	if err := u.SetMode(context.Background(), ModeCamera); err != nil {
		t.Fatal(err)
	}
	if err := u.CaptureFrame(context.Background()); err != nil {
		t.Fatalf("CaptureFrame: %v", err)
	}
	in := u.Input()
	if in.Source != domain.SourceCamera || string(in.Media) != "frame:cam0" {
		t.Fatalf("input = %+v", in)
	}
	if in.FileName != "captured-image.jpg" {
		t.Errorf("file name = %q", in.FileName)
	}
}

func TestSelectDevice_StopsPreviousStream(t *testing.T) {
	p := twoCameras()
	u := NewUnit(p)

	if err := u.SetMode(context.Background(), ModeCamera); err != nil {
		t.Fatal(err)
	}
	if err := u.SelectDevice(context.Background(), "cam1"); err != nil {
		t.Fatalf("SelectDevice: %v", err)
	}

	if len(p.opened) != 2 {
		t.Fatalf("opened %d streams", len(p.opened))
	}
	if p.opened[0].stopped != 1 {
		t.Error("previous stream still open after device switch")
	}
	if p.opened[1].id != "cam1" {
		t.Errorf("active stream = %q", p.opened[1].id)
	}
}

func TestSelectDevice_OutsideCameraMode(t *testing.T) {
	p := twoCameras()
	u := NewUnit(p)

	// Remembered for later; no stream opens in upload mode.
	if err := u.SelectDevice(context.Background(), "cam1"); err != nil {
		t.Fatal(err)
	}
	if len(p.opened) != 0 {
		t.Fatal("stream opened while in upload mode")
	}

	if err := u.SetMode(context.Background(), ModeCamera); err != nil {
		t.Fatal(err)
	}
	if p.opened[0].id != "cam1" {
		t.Errorf("camera mode opened %q, want remembered cam1", p.opened[0].id)
	}
}

func TestRelease(t *testing.T) {
	p := twoCameras()
	u := NewUnit(p)

	// Release with nothing open is a no-op.
	if err := u.Release(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := u.SetMode(context.Background(), ModeCamera); err != nil {
		t.Fatal(err)
	}
	if err := u.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if p.opened[0].stopped != 1 {
		t.Error("stream not stopped on release")
	}
	if err := u.CaptureFrame(context.Background()); !errors.Is(err, domain.ErrNoActiveStream) {
		t.Errorf("capture after release: got %v, want ErrNoActiveStream", err)
	}
}

func TestReopen(t *testing.T) {
	p := twoCameras()
	u := NewUnit(p)

	// Outside camera mode Reopen does nothing.
	if err := u.Reopen(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(p.opened) != 0 {
		t.Fatal("reopen opened a stream in upload mode")
	}

	if err := u.SetMode(context.Background(), ModeCamera); err != nil {
		t.Fatal(err)
	}
	if err := u.Reopen(context.Background()); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if len(p.opened) != 2 {
		t.Fatalf("opened %d streams, want fresh second stream", len(p.opened))
	}
	if p.opened[0].stopped != 1 {
		t.Error("old stream not stopped on reopen")
	}
}

func TestBridge(t *testing.T) {
	b := NewBridge()
	b.SetDevices([]Device{{ID: "web0", Label: "Integrated Webcam"}})

	devices, err := b.Enumerate(context.Background())
	if err != nil || len(devices) != 1 {
		t.Fatalf("Enumerate = %v, %v", devices, err)
	}

	stream, err := b.Open(context.Background(), "web0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Second open while the first is live violates the single-stream rule.
	if _, err := b.Open(context.Background(), "web0"); err == nil {
		t.Error("expected second Open to fail")
	}

	// No frame pushed yet.
	if _, _, err := stream.Grab(context.Background()); err == nil {
		t.Error("expected Grab to fail before any frame arrives")
	}

	if err := b.PushFrame("web0", []byte("jpegbytes"), "image/jpeg"); err != nil {
		t.Fatalf("PushFrame: %v", err)
	}
	data, mime, err := stream.Grab(context.Background())
	if err != nil {
		t.Fatalf("Grab: %v", err)
	}
	if string(data) != "jpegbytes" || mime != "image/jpeg" {
		t.Errorf("frame = %q %q", data, mime)
	}

	// Frames for a device that is not open are rejected.
	if err := b.PushFrame("other", []byte("x"), "image/jpeg"); err == nil {
		t.Error("expected PushFrame for wrong device to fail")
	}

	if err := stream.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := stream.Grab(context.Background()); err == nil {
		t.Error("expected Grab to fail after Stop")
	}

	// After stop the bridge accepts a new stream.
	if _, err := b.Open(context.Background(), "web0"); err != nil {
		t.Fatalf("reopen after stop: %v", err)
	}
}
