package domain

import (
	"github.com/shopspring/decimal"
)

// SourceKind says where a diagnostic input came from.
type SourceKind string

const (
	SourceUpload SourceKind = "upload"
	SourceCamera SourceKind = "camera"
)

// DiagnosticInput is one captured image awaiting dispatch. It is immutable
// once created; a retake or re-upload replaces it wholesale.
type DiagnosticInput struct {
	Source   SourceKind
	FileName string
	MimeType string
	Media    []byte
}

// ModelDescriptor identifies one external inference model.
type ModelDescriptor struct {
	Name        string `json:"name"`
	EndpointURL string `json:"endpoint"`
	// Adapter selects the response normalizer for this provider.
	Adapter string `json:"-"`
}

// DiagnosisResult is the canonical outcome of one dispatch. Confidence is
// always a fraction in [0,1]; the percentage string exists only at the
// presentation boundary.
type DiagnosisResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Percent renders the confidence as a two-decimal percentage, e.g. "87.00%".
func (r DiagnosisResult) Percent() string {
	return decimal.NewFromFloat(r.Confidence).Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
