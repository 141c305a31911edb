package interpret

import (
	"fmt"
	"strings"

	"github.com/verdant-health/clinsight/internal/domain"
)

// Kind selects the prompt persona and shape of one interpretation call.
type Kind string

const (
	KindInterpretation    Kind = "Interpretation"
	KindConsultation      Kind = "Consultation"
	KindSymptomPrediction Kind = "SymptomPrediction"
	KindChat              Kind = "Chat"
)

func interpretationPrompt(res domain.DiagnosisResult) string {
	return fmt.Sprintf(
		"Assume role of Specialist AI Doctor, explain the disease and provide an interpretation for the diagnostic result: %s with %s confidence in short, patient-friendly way.",
		res.Label, res.Percent())
}

func consultationPrompt(res domain.DiagnosisResult) string {
	return fmt.Sprintf(
		"Assume role of Specialist AI Doctor, provide an consultation advise for the diagnostic result: %s with %s confidence in short, patient-friendly way. Do not prescribe any drug, only ayurvedic or home remedies. If severe, make them consult specialist doctor.",
		res.Label, res.Percent())
}

func chatPrompt(message string) string {
	return fmt.Sprintf(
		"Assume role of Specialist AI Doctor, Provide a short, precise response for the query: %s",
		strings.TrimSpace(message))
}

// predictionPrompt asks for strict JSON. The model is told to skip formatting
// markers; parsePrediction strips fences anyway.
func predictionPrompt(symptoms []string) string {
	return fmt.Sprintf(`You are a medical AI that provides disease predictions based on symptoms.

Given these symptoms: "%s", return a JSON object with **only** the following structure:

{
  "condition": "Most likely condition (or a general response if symptoms are insufficient)",
  "confidence": 0.00,
  "probability": "Probability description, including advice.",
  "note": "If symptoms are too few, say '%s'. If input is invalid (not symptoms), say '%s'."
}

**Strict rules:**
- Return **only** valid JSON.
- Use a confidence score between **0.00 and 1.00**.
- Format probability with a descriptive range like **'Low to Moderate'** with a brief medical suggestion.
- If symptoms are insufficient, make a general assessment of common scenarios (Nothing technical at all, keep it simple) but add "note": "%s".
- If the input is invalid, return "note": "%s" and "condition": "N/A".
- Do NOT include markdown formatting.
- Do NOT add any explanations, forward slashes, or additional text.

Only output the JSON object.`,
		strings.Join(symptoms, ", "),
		domain.NoteInsufficientSymptoms, domain.NoteInvalidInput,
		domain.NoteInsufficientSymptoms, domain.NoteInvalidInput)
}
