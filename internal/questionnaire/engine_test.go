package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/verdant-health/clinsight/internal/domain"
)

func testQuestions() []domain.Question {
	return []domain.Question{
		{ID: 1, Title: "Active Complaint", Options: []string{"Fever", "Cough", "Headache"}},
		{ID: 2, Title: "Duration", Options: []string{"Less than a day", "1-3 days", "More than a week"}},
		{ID: 3, Title: "Severity", Options: []string{"Mild", "Moderate", "Severe"}},
	}
}

type fakePersister struct {
	calls int
	err   error
	saved map[int]domain.QuestionnaireAnswer
	id    domain.Identity
}

func (p *fakePersister) SaveIntake(_ context.Context, id domain.Identity, answers map[int]domain.QuestionnaireAnswer) error {
	p.calls++
	if p.err != nil {
		return p.err
	}
	p.saved = answers
	p.id = id
	return nil
}

func TestLoadQuestions(t *testing.T) {
	questions, err := LoadQuestions()
	if err != nil {
		t.Fatalf("LoadQuestions: %v", err)
	}
	if len(questions) == 0 {
		t.Fatal("expected embedded questions")
	}
	for i, q := range questions {
		if q.ID == 0 {
			t.Errorf("question %d has no id", i)
		}
		if len(q.Options) == 0 {
			t.Errorf("question %q has no options", q.Title)
		}
	}
}

func TestSelectOption_Toggle(t *testing.T) {
	e := NewEngine(testQuestions(), &fakePersister{})

	for _, opt := range []string{"Fever", "Cough"} {
		if err := e.SelectOption(1, opt); err != nil {
			t.Fatalf("SelectOption(%q): %v", opt, err)
		}
	}

	got := e.Answers()[1].Selected
	if len(got) != 2 || got[0] != "Fever" || got[1] != "Cough" {
		t.Fatalf("selection order = %v, want [Fever Cough]", got)
	}

	// Selecting again removes, order of the rest survives.
	if err := e.SelectOption(1, "Fever"); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	got = e.Answers()[1].Selected
	if len(got) != 1 || got[0] != "Cough" {
		t.Fatalf("after toggle = %v, want [Cough]", got)
	}
}

func TestSelectOption_Invalid(t *testing.T) {
	e := NewEngine(testQuestions(), &fakePersister{})

	if err := e.SelectOption(99, "Fever"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Errorf("unknown question: got %v, want ErrQuestionNotFound", err)
	}
	if err := e.SelectOption(1, "Nausea"); err == nil {
		t.Error("unknown option: expected error")
	}
}

func TestDetails_ClearedWithLastSelection(t *testing.T) {
	e := NewEngine(testQuestions(), &fakePersister{})

	if err := e.SetDetails(1, "three days now"); !errors.Is(err, domain.ErrNoSelection) {
		t.Fatalf("details without selection: got %v, want ErrNoSelection", err)
	}

	if err := e.SelectOption(1, "Fever"); err != nil {
		t.Fatal(err)
	}
	if err := e.SetDetails(1, "three days now"); err != nil {
		t.Fatalf("SetDetails: %v", err)
	}
	if got := e.Answers()[1].Details; got != "three days now" {
		t.Fatalf("details = %q", got)
	}

	// Removing the only selected option wipes the detail text.
	if err := e.SelectOption(1, "Fever"); err != nil {
		t.Fatal(err)
	}
	if got := e.Answers()[1].Details; got != "" {
		t.Fatalf("details after clearing selection = %q, want empty", got)
	}
}

func TestNavigation(t *testing.T) {
	e := NewEngine(testQuestions(), &fakePersister{})

	// Previous on the first question is a no-op.
	if err := e.Previous(); err != nil {
		t.Fatalf("Previous at start: %v", err)
	}
	if _, index, _, ok := e.Current(); !ok || index != 0 {
		t.Fatalf("index after no-op Previous = %d, ok=%v", index, ok)
	}

	// Walk forward to the summary.
	for i := 0; i < 3; i++ {
		if err := e.Next(); err != nil {
			t.Fatalf("Next %d: %v", i, err)
		}
	}
	if !e.InSummary() {
		t.Fatal("expected summary after advancing past the last question")
	}
	if _, _, _, ok := e.Current(); ok {
		t.Error("Current should report ok=false from summary")
	}

	// Summary is terminal for navigation.
	if err := e.Next(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("Next from summary: got %v, want ErrInvalidTransition", err)
	}
	if err := e.Previous(); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("Previous from summary: got %v, want ErrInvalidTransition", err)
	}
}

func TestSubmit(t *testing.T) {
	p := &fakePersister{}
	e := NewEngine(testQuestions(), p)

	if err := e.SelectOption(1, "Cough"); err != nil {
		t.Fatal(err)
	}

	// Submitting before the summary is rejected.
	if err := e.Submit(context.Background(), domain.GuestIdentity()); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("early submit: got %v, want ErrInvalidTransition", err)
	}
	if p.calls != 0 {
		t.Fatal("persister called before summary")
	}

	for i := 0; i < 3; i++ {
		if err := e.Next(); err != nil {
			t.Fatal(err)
		}
	}

	id := domain.Identity{Username: "drsmith", Role: "Admin"}
	if err := e.Submit(context.Background(), id); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if p.id != id {
		t.Errorf("persisted identity = %+v", p.id)
	}
	if got := p.saved[1].Selected; len(got) != 1 || got[0] != "Cough" {
		t.Errorf("persisted answers = %v", p.saved)
	}
}

func TestSubmit_FailureKeepsAnswers(t *testing.T) {
	p := &fakePersister{err: fmt.Errorf("connection refused")}
	e := NewEngine(testQuestions(), p)

	if err := e.SelectOption(2, "1-3 days"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := e.Next(); err != nil {
			t.Fatal(err)
		}
	}

	err := e.Submit(context.Background(), domain.GuestIdentity())
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("failed submit: got %v, want ErrPersistence", err)
	}

	// Answers survive so the user can retry.
	if got := e.Answers()[2].Selected; len(got) != 1 || got[0] != "1-3 days" {
		t.Fatalf("answers after failed submit = %v", got)
	}

	p.err = nil
	if err := e.Submit(context.Background(), domain.GuestIdentity()); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if p.calls != 2 {
		t.Fatalf("persister calls = %d, want 2", p.calls)
	}
}

func TestAnswersSnapshot(t *testing.T) {
	e := NewEngine(testQuestions(), &fakePersister{})
	if err := e.SelectOption(1, "Fever"); err != nil {
		t.Fatal(err)
	}

	snap := e.Answers()
	snap[1] = domain.QuestionnaireAnswer{Selected: []string{"tampered"}}

	if got := e.Answers()[1].Selected; len(got) != 1 || got[0] != "Fever" {
		t.Fatalf("engine state mutated through snapshot: %v", got)
	}
}
