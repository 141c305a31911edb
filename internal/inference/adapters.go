package inference

import (
	"encoding/json"
	"fmt"

	"github.com/verdant-health/clinsight/internal/domain"
)

// Adapter keys. Each diagnostic provider shapes its reply differently; the
// model descriptor names the adapter that maps it to the canonical result.
const (
	AdapterFastAPI     = "fastapi"
	AdapterHuggingFace = "huggingface"
)

type adapterFunc func(payload []byte) (*domain.DiagnosisResult, error)

var adapters = map[string]adapterFunc{
	AdapterFastAPI:     adaptFastAPI,
	AdapterHuggingFace: adaptHuggingFace,
}

// Normalize maps a raw provider payload to a DiagnosisResult using the named
// adapter. Unknown adapter names fall back to the FastAPI shape.
func Normalize(adapter string, payload []byte) (*domain.DiagnosisResult, error) {
	fn, ok := adapters[adapter]
	if !ok {
		fn = adaptFastAPI
	}
	result, err := fn(payload)
	if err != nil {
		return nil, err
	}
	if result.Label == "" {
		return nil, fmt.Errorf("%w: missing predicted label", domain.ErrMalformedResponse)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", domain.ErrMalformedResponse, result.Confidence)
	}
	return result, nil
}

// adaptFastAPI handles {"predicted_class": ..., "confidence": ...}.
func adaptFastAPI(payload []byte) (*domain.DiagnosisResult, error) {
	var body struct {
		PredictedClass string   `json:"predicted_class"`
		Confidence     *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if body.Confidence == nil {
		return nil, fmt.Errorf("%w: missing confidence", domain.ErrMalformedResponse)
	}
	return &domain.DiagnosisResult{Label: body.PredictedClass, Confidence: *body.Confidence}, nil
}

// adaptHuggingFace handles [{"label": ..., "score": ...}, ...], sorted or
// not; the highest-scoring entry wins.
func adaptHuggingFace(payload []byte) (*domain.DiagnosisResult, error) {
	var body []struct {
		Label string   `json:"label"`
		Score *float64 `json:"score"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty prediction list", domain.ErrMalformedResponse)
	}

	best := -1
	for i, entry := range body {
		if entry.Score == nil {
			continue
		}
		if best < 0 || *entry.Score > *body[best].Score {
			best = i
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w: no scored predictions", domain.ErrMalformedResponse)
	}
	return &domain.DiagnosisResult{Label: body[best].Label, Confidence: *body[best].Score}, nil
}
