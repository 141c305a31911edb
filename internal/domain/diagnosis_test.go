package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		confidence float64
		want       string
	}{
		{0.87, "87.00%"},
		{0.875, "87.50%"},
		{1, "100.00%"},
		{0, "0.00%"},
		// Float arithmetic would make this 33.440000000000005 without the
		// decimal conversion.
		{0.3344, "33.44%"},
	}
	for _, tt := range tests {
		r := DiagnosisResult{Label: "x", Confidence: tt.confidence}
		if got := r.Percent(); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestModelDescriptorJSON_HidesAdapter(t *testing.T) {
	m := ModelDescriptor{Name: "Pneumonia Detection", EndpointURL: "http://127.0.0.1:8000/pneumonia", Adapter: "fastapi"}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "fastapi") {
		t.Errorf("adapter key leaked into JSON: %s", data)
	}
}

func TestSymptomSet(t *testing.T) {
	s := NewSymptomSet("fever", "cough", "fever", "")

	if s.Len() != 2 {
		t.Fatalf("Len = %d", s.Len())
	}
	if got := s.Items(); got[0] != "fever" || got[1] != "cough" {
		t.Fatalf("items = %v", got)
	}

	if s.Add("cough") {
		t.Error("duplicate Add returned true")
	}
	if !s.Add("headache") {
		t.Error("new Add returned false")
	}

	if !s.Remove("cough") {
		t.Error("Remove of present symptom returned false")
	}
	if s.Remove("cough") {
		t.Error("Remove of absent symptom returned true")
	}
	if got := s.Items(); len(got) != 2 || got[0] != "fever" || got[1] != "headache" {
		t.Fatalf("items after remove = %v", got)
	}

	// Items returns a copy.
	s.Items()[0] = "tampered"
	if s.Items()[0] != "fever" {
		t.Error("set mutated through Items slice")
	}
}

func TestDispatchErrorMessage(t *testing.T) {
	withStatus := &DispatchError{Status: 503, ProviderMessage: "model warming up"}
	if msg := withStatus.Error(); !strings.Contains(msg, "503") || !strings.Contains(msg, "model warming up") {
		t.Errorf("message = %q", msg)
	}

	network := &DispatchError{ProviderMessage: "connection refused"}
	if msg := network.Error(); strings.Contains(msg, "status") {
		t.Errorf("network failure should not mention a status: %q", msg)
	}
}
