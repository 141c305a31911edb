package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordKind distinguishes the two interaction types the ledger tracks.
type RecordKind string

const (
	RecordSymptom RecordKind = "symptom"
	RecordImage   RecordKind = "image"
)

// SessionRecord is one completed interaction. Records are immutable once
// appended to the ledger and live only for the browser session.
type SessionRecord struct {
	ID        uuid.UUID  `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Kind      RecordKind `json:"kind"`

	// Image diagnosis inputs/result.
	Model     string           `json:"model,omitempty"`
	FileName  string           `json:"file,omitempty"`
	Diagnosis *DiagnosisResult `json:"diagnosis,omitempty"`

	// Symptom prediction inputs/result.
	Symptoms   []string          `json:"symptoms,omitempty"`
	Prediction *PredictionResult `json:"prediction,omitempty"`
}
