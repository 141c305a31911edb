// Package interpret talks to the generative text endpoint: free-text
// interpretation and consultation of a diagnosis, conversational chat, and
// structured symptom prediction.
package interpret

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/verdant-health/clinsight/internal/domain"
)

type Service struct {
	endpoint   string
	httpClient *http.Client
}

func NewService(endpoint string, timeout time.Duration) *Service {
	return &Service{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InterpretDiagnosis generates the free-text content for one result tab.
// Each call is independent; nothing is cached across tabs or clicks.
func (s *Service) InterpretDiagnosis(ctx context.Context, kind Kind, res domain.DiagnosisResult) (string, error) {
	var prompt string
	switch kind {
	case KindInterpretation:
		prompt = interpretationPrompt(res)
	case KindConsultation:
		prompt = consultationPrompt(res)
	default:
		return "", fmt.Errorf("unknown interpretation kind %q", kind)
	}

	reply, err := s.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return sanitizeReply(reply), nil
}

// Chat answers one conversational message in the AI doctor persona.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	reply, err := s.generate(ctx, chatPrompt(message))
	if err != nil {
		return "", err
	}
	return sanitizeReply(reply), nil
}

// PredictDisease asks for a structured prediction over the symptom set and
// validates the reply. A note of InvalidInput is a hard rejection; a note of
// InsufficientSymptoms is a successful result the caller must still show,
// with a caveat.
func (s *Service) PredictDisease(ctx context.Context, symptoms []string) (*domain.PredictionResult, error) {
	reply, err := s.generate(ctx, predictionPrompt(symptoms))
	if err != nil {
		return nil, err
	}

	result, err := parsePrediction(reply)
	if err != nil {
		return nil, err
	}
	if result.Note == domain.NoteInvalidInput {
		return nil, domain.ErrInvalidSymptomInput
	}
	return result, nil
}

// generate posts {"prompt": ...} and returns the raw "response" text.
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("generate endpoint returned status %d", resp.StatusCode)
	}

	var reply struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if reply.Response == nil {
		return "", fmt.Errorf("%w: missing response field", domain.ErrMalformedResponse)
	}
	return *reply.Response, nil
}

// parsePrediction decodes the inner JSON of a symptom-prediction reply. The
// model is instructed to avoid markdown fences, but fences are stripped
// anyway before parsing.
func parsePrediction(reply string) (*domain.PredictionResult, error) {
	cleaned := stripCodeFences(reply)

	var wire struct {
		Condition   string   `json:"condition"`
		Confidence  *float64 `json:"confidence"`
		Probability string   `json:"probability"`
		Note        *string  `json:"note"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if wire.Condition == "" || wire.Confidence == nil {
		return nil, fmt.Errorf("%w: missing condition or confidence", domain.ErrMalformedResponse)
	}
	if *wire.Confidence < 0 || *wire.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", domain.ErrMalformedResponse, *wire.Confidence)
	}

	result := &domain.PredictionResult{
		Condition:   wire.Condition,
		Confidence:  *wire.Confidence,
		Probability: wire.Probability,
	}
	if wire.Note != nil {
		switch note := domain.PredictionNote(strings.TrimSpace(*wire.Note)); note {
		case domain.NoteInsufficientSymptoms, domain.NoteInvalidInput, domain.NoteNone:
			result.Note = note
		default:
			// Unknown note text is informational, not a recognized signal.
			result.Note = domain.NoteNone
		}
	}
	return result, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// sanitizeReply flattens any HTML markup the model slipped into a free-text
// reply down to plain text.
func sanitizeReply(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	text := strings.TrimSpace(doc.Text())
	if text == "" {
		return s
	}
	return text
}
