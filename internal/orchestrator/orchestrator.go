// Package orchestrator coordinates one diagnostic screen: input capture,
// dispatch to the selected model, on-demand interpretation, and the session
// ledger. One orchestrator serves one browser session.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-health/clinsight/internal/capture"
	"github.com/verdant-health/clinsight/internal/domain"
	"github.com/verdant-health/clinsight/internal/identity"
	"github.com/verdant-health/clinsight/internal/interpret"
	"github.com/verdant-health/clinsight/internal/ledger"
)

// State of the diagnostic screen.
type State string

const (
	StateIdle                  State = "idle"
	StateInputReady            State = "input_ready"
	StateDispatching           State = "dispatching"
	StateResultReady           State = "result_ready"
	StateInterpretationPending State = "interpretation_pending"
	StateInterpretationReady   State = "interpretation_ready"
	StateError                 State = "error"
)

// Dispatcher performs one inference call.
type Dispatcher interface {
	Dispatch(ctx context.Context, model domain.ModelDescriptor, input *domain.DiagnosticInput) (*domain.DiagnosisResult, error)
}

// Interpreter generates AI content from results and symptom sets.
type Interpreter interface {
	InterpretDiagnosis(ctx context.Context, kind interpret.Kind, res domain.DiagnosisResult) (string, error)
	PredictDisease(ctx context.Context, symptoms []string) (*domain.PredictionResult, error)
}

// Orchestrator is the per-session state machine. A generation counter guards
// against stale network replies: any action that replaces the input or model
// bumps it, and a reply snapshotted under an older generation is discarded
// instead of committed.
type Orchestrator struct {
	capture     *capture.Unit
	dispatcher  Dispatcher
	interpreter Interpreter
	identity    identity.Provider
	ledger      *ledger.Ledger

	mu              sync.Mutex
	state           State
	model           *domain.ModelDescriptor
	result          *domain.DiagnosisResult
	interpretations map[interpret.Kind]string
	inFlight        bool
	gen             uint64
	lastError       string
}

func New(unit *capture.Unit, dispatcher Dispatcher, interpreter Interpreter, provider identity.Provider, lg *ledger.Ledger) *Orchestrator {
	return &Orchestrator{
		capture:         unit,
		dispatcher:      dispatcher,
		interpreter:     interpreter,
		identity:        provider,
		ledger:          lg,
		state:           StateIdle,
		interpretations: make(map[interpret.Kind]string),
	}
}

// Ledger exposes the session history for rendering.
func (o *Orchestrator) Ledger() *ledger.Ledger { return o.ledger }

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Result() *domain.DiagnosisResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.result
}

// Interpretation returns the generated content for one tab, if present.
func (o *Orchestrator) Interpretation(kind interpret.Kind) (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	text, ok := o.interpretations[kind]
	return text, ok
}

func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

func (o *Orchestrator) Mode() capture.Mode { return o.capture.Mode() }

func (o *Orchestrator) Devices(ctx context.Context) ([]capture.Device, error) {
	return o.capture.Devices(ctx)
}

// SetMode switches the input source and invalidates input-derived state.
func (o *Orchestrator) SetMode(ctx context.Context, mode capture.Mode) error {
	err := o.capture.SetMode(ctx, mode)

	o.mu.Lock()
	o.invalidateLocked()
	o.mu.Unlock()
	return err
}

// SelectModel chooses the active diagnostic model. Any prior result is
// invalidated.
func (o *Orchestrator) SelectModel(model domain.ModelDescriptor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.model = &model
	o.invalidateLocked()
}

func (o *Orchestrator) SelectedModel() *domain.ModelDescriptor {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.model
}

// AttachUpload attaches an uploaded image as the diagnostic input.
func (o *Orchestrator) AttachUpload(name, mimeType string, data []byte) error {
	if err := o.capture.AttachUpload(name, mimeType, data); err != nil {
		return err
	}
	o.mu.Lock()
	o.invalidateLocked()
	o.mu.Unlock()
	return nil
}

// CaptureFrame grabs a camera frame as the diagnostic input.
func (o *Orchestrator) CaptureFrame(ctx context.Context) error {
	if err := o.capture.CaptureFrame(ctx); err != nil {
		return err
	}
	o.mu.Lock()
	o.invalidateLocked()
	o.mu.Unlock()
	return nil
}

// ClearInput discards the current input (retake).
func (o *Orchestrator) ClearInput() {
	o.capture.ClearInput()
	o.mu.Lock()
	o.invalidateLocked()
	o.mu.Unlock()
}

// SelectDevice switches the camera device. The input, if any, survives.
func (o *Orchestrator) SelectDevice(ctx context.Context, deviceID string) error {
	return o.capture.SelectDevice(ctx, deviceID)
}

// Dispatch runs one inference call. At most one dispatch is in flight per
// session; a second request is rejected, not queued. On success one session
// record is appended; on failure the input and model stay put for a retry.
func (o *Orchestrator) Dispatch(ctx context.Context) (*domain.DiagnosisResult, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, domain.ErrAlreadyInFlight
	}
	if o.model == nil {
		o.mu.Unlock()
		return nil, domain.ErrNoModel
	}
	input := o.capture.Input()
	if input == nil {
		o.mu.Unlock()
		return nil, domain.ErrNoInput
	}
	model := *o.model
	gen := o.gen
	o.inFlight = true
	o.state = StateDispatching
	o.mu.Unlock()

	result, err := o.dispatcher.Dispatch(ctx, model, input)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.inFlight = false

	if o.gen != gen {
		// A superseding action replaced the input or model while the call
		// was out; discard the stale reply.
		o.recomputeStateLocked()
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		o.state = StateError
		o.lastError = err.Error()
		return nil, err
	}

	o.result = result
	o.state = StateResultReady
	o.lastError = ""

	id := o.identity.Current(ctx)
	o.ledger.Append(domain.SessionRecord{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		Username:  id.Username,
		Role:      id.Role,
		Kind:      domain.RecordImage,
		Model:     model.Name,
		FileName:  input.FileName,
		Diagnosis: result,
	})
	return result, nil
}

// Interpret generates the content for one tab from the current result. It
// never re-runs the dispatch, and each tab is an independent call.
func (o *Orchestrator) Interpret(ctx context.Context, kind interpret.Kind) (string, error) {
	o.mu.Lock()
	if o.result == nil {
		o.mu.Unlock()
		return "", domain.ErrNoResult
	}
	res := *o.result
	gen := o.gen
	o.state = StateInterpretationPending
	o.mu.Unlock()

	text, err := o.interpreter.InterpretDiagnosis(ctx, kind, res)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.gen != gen {
		return "", domain.ErrSuperseded
	}
	if err != nil {
		o.state = StateError
		o.lastError = err.Error()
		return "", err
	}
	o.interpretations[kind] = text
	o.state = StateInterpretationReady
	o.lastError = ""
	return text, nil
}

// Predict runs a symptom prediction and records the outcome. Duplicate
// symptoms are dropped silently; an empty set is rejected. A result carrying
// the insufficient-symptoms note still counts as a completed interaction.
func (o *Orchestrator) Predict(ctx context.Context, symptoms []string) (*domain.PredictionResult, error) {
	set := domain.NewSymptomSet(symptoms...)
	if set.Len() == 0 {
		return nil, domain.ErrInvalidSymptomInput
	}

	result, err := o.interpreter.PredictDisease(ctx, set.Items())
	if err != nil {
		return nil, err
	}

	id := o.identity.Current(ctx)
	o.ledger.Append(domain.SessionRecord{
		ID:         uuid.New(),
		Timestamp:  time.Now(),
		Username:   id.Username,
		Role:       id.Role,
		Kind:       domain.RecordSymptom,
		Symptoms:   set.Items(),
		Prediction: result,
	})
	return result, nil
}

// Reset is the explicit back action: result, interpretations, and input are
// discarded, the model selection survives, and in camera mode the device is
// released and re-opened fresh.
func (o *Orchestrator) Reset(ctx context.Context) error {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return domain.ErrAlreadyInFlight
	}
	o.mu.Unlock()

	o.capture.ClearInput()

	o.mu.Lock()
	o.invalidateLocked()
	o.state = StateIdle
	o.mu.Unlock()

	if o.capture.Mode() == capture.ModeCamera {
		return o.capture.Reopen(ctx)
	}
	return nil
}

// Release frees the camera on session teardown.
func (o *Orchestrator) Release(ctx context.Context) error {
	return o.capture.Release(ctx)
}

// invalidateLocked bumps the generation and clears everything derived from
// the replaced input or model.
func (o *Orchestrator) invalidateLocked() {
	o.gen++
	o.result = nil
	o.interpretations = make(map[interpret.Kind]string)
	o.lastError = ""
	o.recomputeStateLocked()
}

func (o *Orchestrator) recomputeStateLocked() {
	if o.capture.Input() != nil {
		o.state = StateInputReady
	} else {
		o.state = StateIdle
	}
}
