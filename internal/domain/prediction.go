package domain

// PredictionNote annotates a symptom prediction. The upstream model is
// prompted to emit these exact strings.
type PredictionNote string

const (
	NoteNone                  PredictionNote = ""
	NoteInsufficientSymptoms  PredictionNote = "Insufficient symptoms for precise diagnosis"
	NoteInvalidInput          PredictionNote = "Invalid input: Please enter real disease symptoms"
)

// PredictionResult is the validated structured reply of a symptom prediction.
type PredictionResult struct {
	Condition   string         `json:"condition"`
	Confidence  float64        `json:"confidence"`
	Probability string         `json:"probability"`
	Note        PredictionNote `json:"note,omitempty"`
}

// SymptomSet is an ordered set of unique symptom strings. Insertion order is
// preserved for display; duplicates are rejected silently.
type SymptomSet struct {
	items []string
	seen  map[string]struct{}
}

func NewSymptomSet(symptoms ...string) *SymptomSet {
	s := &SymptomSet{seen: make(map[string]struct{})}
	for _, sym := range symptoms {
		s.Add(sym)
	}
	return s
}

// Add inserts a symptom unless it is empty or already present.
func (s *SymptomSet) Add(symptom string) bool {
	if symptom == "" {
		return false
	}
	if _, ok := s.seen[symptom]; ok {
		return false
	}
	s.seen[symptom] = struct{}{}
	s.items = append(s.items, symptom)
	return true
}

// Remove deletes a symptom if present.
func (s *SymptomSet) Remove(symptom string) bool {
	if _, ok := s.seen[symptom]; !ok {
		return false
	}
	delete(s.seen, symptom)
	for i, it := range s.items {
		if it == symptom {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Items returns the symptoms in insertion order.
func (s *SymptomSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

func (s *SymptomSet) Len() int { return len(s.items) }
