// Package questionnaire drives the linear intake questionnaire: multi-select
// answers with optional free-text detail per question, ending in a summary
// that can be submitted to the persistence collaborator.
package questionnaire

import (
	_ "embed"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/verdant-health/clinsight/internal/domain"
)

//go:embed questions.json
var questionsJSON []byte

// LoadQuestions parses the embedded question list.
func LoadQuestions() ([]domain.Question, error) {
	var questions []domain.Question
	if err := json.Unmarshal(questionsJSON, &questions); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question list is empty")
	}
	return questions, nil
}

// Persister stores a completed questionnaire. Only the outcome matters to
// this package.
type Persister interface {
	SaveIntake(ctx context.Context, id domain.Identity, answers map[int]domain.QuestionnaireAnswer) error
}

// Engine is the questionnaire state machine: an index over the ordered
// question list plus a terminal summary state reachable only from the last
// question.
type Engine struct {
	mu        sync.Mutex
	questions []domain.Question
	persister Persister

	index   int
	summary bool
	answers map[int]domain.QuestionnaireAnswer
}

func NewEngine(questions []domain.Question, persister Persister) *Engine {
	return &Engine{
		questions: questions,
		persister: persister,
		answers:   make(map[int]domain.QuestionnaireAnswer),
	}
}

// Current returns the active question with its position, or ok=false from
// the summary state.
func (e *Engine) Current() (q domain.Question, index, total int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.summary {
		return domain.Question{}, 0, len(e.questions), false
	}
	return e.questions[e.index], e.index, len(e.questions), true
}

// InSummary reports whether the engine reached the terminal summary state.
func (e *Engine) InSummary() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary
}

// SelectOption toggles option membership in the question's selected set.
// First selection order is preserved; clearing the last option also clears
// the free-text details.
func (e *Engine) SelectOption(questionID int, option string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	q, ok := e.findQuestion(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	valid := false
	for _, opt := range q.Options {
		if opt == option {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("question %d has no option %q", questionID, option)
	}

	answer := e.answers[questionID]
	removed := false
	for i, sel := range answer.Selected {
		if sel == option {
			answer.Selected = append(answer.Selected[:i], answer.Selected[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		answer.Selected = append(answer.Selected, option)
	}
	if len(answer.Selected) == 0 {
		answer.Details = ""
	}
	e.answers[questionID] = answer
	return nil
}

// SetDetails sets the free-text detail for a question. At least one option
// must be selected first.
func (e *Engine) SetDetails(questionID int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.findQuestion(questionID); !ok {
		return domain.ErrQuestionNotFound
	}
	answer := e.answers[questionID]
	if len(answer.Selected) == 0 {
		return domain.ErrNoSelection
	}
	answer.Details = text
	e.answers[questionID] = answer
	return nil
}

// Next advances to the following question, or to the summary from the last
// one. Invalid from the summary state.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.summary {
		return domain.ErrInvalidTransition
	}
	if e.index < len(e.questions)-1 {
		e.index++
		return nil
	}
	e.summary = true
	return nil
}

// Previous steps back one question. A no-op on the first question; invalid
// from the summary state.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.summary {
		return domain.ErrInvalidTransition
	}
	if e.index > 0 {
		e.index--
	}
	return nil
}

// Answers returns a snapshot of the answer map.
func (e *Engine) Answers() map[int]domain.QuestionnaireAnswer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Submit hands the completed answers to the persistence collaborator. Valid
// only from the summary state. On failure the answers stay intact so the
// user can retry.
func (e *Engine) Submit(ctx context.Context, id domain.Identity) error {
	e.mu.Lock()
	if !e.summary {
		e.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	answers := e.snapshotLocked()
	e.mu.Unlock()

	if err := e.persister.SaveIntake(ctx, id, answers); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (e *Engine) snapshotLocked() map[int]domain.QuestionnaireAnswer {
	out := make(map[int]domain.QuestionnaireAnswer, len(e.answers))
	for id, a := range e.answers {
		cp := a
		cp.Selected = append([]string(nil), a.Selected...)
		out[id] = cp
	}
	return out
}

func (e *Engine) findQuestion(id int) (domain.Question, bool) {
	for _, q := range e.questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}
