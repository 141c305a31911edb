package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verdant-health/clinsight/internal/domain"
)

// generateStub answers the generate endpoint with a fixed reply and records
// the prompt it received.
func generateStub(t *testing.T, reply string) (*httptest.Server, *string) {
	t.Helper()
	var lastPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode prompt: %v", err)
		}
		lastPrompt = req.Prompt
		json.NewEncoder(w).Encode(map[string]string{"response": reply})
	}))
	t.Cleanup(srv.Close)
	return srv, &lastPrompt
}

func TestInterpretDiagnosis(t *testing.T) {
	srv, prompt := generateStub(t, "The scan shows signs consistent with pneumonia.")
	s := NewService(srv.URL, 5*time.Second)

	res := domain.DiagnosisResult{Label: "Pneumonia", Confidence: 0.87}
	out, err := s.InterpretDiagnosis(context.Background(), KindInterpretation, res)
	if err != nil {
		t.Fatalf("InterpretDiagnosis: %v", err)
	}
	if out != "The scan shows signs consistent with pneumonia." {
		t.Errorf("reply = %q", out)
	}
	if !strings.Contains(*prompt, "Pneumonia") || !strings.Contains(*prompt, "87.00%") {
		t.Errorf("prompt missing diagnosis facts: %q", *prompt)
	}

	if _, err := s.InterpretDiagnosis(context.Background(), Kind("weather"), res); err == nil {
		t.Error("unknown kind should fail")
	}
}

func TestInterpret_StripsHTML(t *testing.T) {
	srv, _ := generateStub(t, "<p>Rest and <b>fluids</b> are recommended.</p>")
	s := NewService(srv.URL, 5*time.Second)

	out, err := s.Chat(context.Background(), "what should I do?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if strings.Contains(out, "<") {
		t.Errorf("markup survived sanitization: %q", out)
	}
	if !strings.Contains(out, "fluids") {
		t.Errorf("text content lost: %q", out)
	}
}

func TestPredictDisease(t *testing.T) {
	reply := `{"condition": "Influenza", "confidence": 0.82, "probability": "High", "note": null}`
	srv, prompt := generateStub(t, reply)
	s := NewService(srv.URL, 5*time.Second)

	res, err := s.PredictDisease(context.Background(), []string{"fever", "cough"})
	if err != nil {
		t.Fatalf("PredictDisease: %v", err)
	}
	if res.Condition != "Influenza" || res.Confidence != 0.82 || res.Probability != "High" {
		t.Fatalf("result = %+v", res)
	}
	if res.Note != domain.NoteNone {
		t.Errorf("note = %q, want none", res.Note)
	}
	if !strings.Contains(*prompt, "fever, cough") {
		t.Errorf("prompt missing symptoms: %q", *prompt)
	}
}

func TestPredictDisease_FencedReply(t *testing.T) {
	reply := "```json\n{\"condition\": \"Migraine\", \"confidence\": 0.6, \"probability\": \"Moderate\"}\n```"
	srv, _ := generateStub(t, reply)
	s := NewService(srv.URL, 5*time.Second)

	res, err := s.PredictDisease(context.Background(), []string{"headache"})
	if err != nil {
		t.Fatalf("PredictDisease: %v", err)
	}
	if res.Condition != "Migraine" {
		t.Errorf("result = %+v", res)
	}
}

func TestPredictDisease_InsufficientSymptoms(t *testing.T) {
	reply := `{"condition": "Common Cold", "confidence": 0.3, "probability": "Low",
		"note": "Insufficient symptoms for precise diagnosis"}`
	srv, _ := generateStub(t, reply)
	s := NewService(srv.URL, 5*time.Second)

	res, err := s.PredictDisease(context.Background(), []string{"fatigue"})
	if err != nil {
		t.Fatalf("a sparse symptom set is still a result: %v", err)
	}
	if res.Note != domain.NoteInsufficientSymptoms {
		t.Errorf("note = %q", res.Note)
	}
}

func TestPredictDisease_InvalidInput(t *testing.T) {
	reply := `{"condition": "N/A", "confidence": 0.0, "probability": "",
		"note": "Invalid input: Please enter real disease symptoms"}`
	srv, _ := generateStub(t, reply)
	s := NewService(srv.URL, 5*time.Second)

	_, err := s.PredictDisease(context.Background(), []string{"asdfgh"})
	if !errors.Is(err, domain.ErrInvalidSymptomInput) {
		t.Fatalf("got %v, want ErrInvalidSymptomInput", err)
	}
}

func TestPredictDisease_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":           "I think it might be the flu.",
		"missing condition":  `{"confidence": 0.5, "probability": "Low"}`,
		"missing confidence": `{"condition": "Flu", "probability": "Low"}`,
		"out of range":       `{"condition": "Flu", "confidence": 1.4, "probability": "High"}`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := generateStub(t, reply)
			s := NewService(srv.URL, 5*time.Second)
			_, err := s.PredictDisease(context.Background(), []string{"fever"})
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("got %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestGenerate_MissingResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	}))
	defer srv.Close()
	s := NewService(srv.URL, 5*time.Second)

	_, err := s.Chat(context.Background(), "hello")
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("got %v, want ErrMalformedResponse", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFences(tt.in); got != tt.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
