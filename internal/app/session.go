package app

import (
	"strconv"
	"sync"
	"time"

	"isekai-quiz-service/internal/domain"
)

// Session wraps the quiz state with a mutex so concurrent answers against the
// same session id cannot interleave their read-modify-write of step and
// scores. Cross-session calls never contend on it.
type Session struct {
	mu    sync.Mutex
	state domain.Session
}

// NewSession returns a session starting at the given catalog index.
func NewSession(id string, step int) *Session {
	return NewSessionWithClock(id, step, time.Now)
}

// NewSessionWithClock lets callers inject a clock for deterministic timestamps.
func NewSessionWithClock(id string, step int, now func() time.Time) *Session {
	return &Session{state: domain.NewSession(id, step, now())}
}

// RestoreSession rebuilds a session from a persisted snapshot.
func RestoreSession(state domain.Session) *Session {
	if state.Responses == nil {
		state.Responses = make(map[string]string)
	}
	if state.TraitQuestions == nil {
		state.TraitQuestions = domain.NewTraitQuestions()
	}
	return &Session{state: state}
}

// ID never changes after creation.
func (s *Session) ID() string {
	return s.state.ID
}

// CreatedAt never changes after creation, so the expiry sweep can read it
// without taking the session lock.
func (s *Session) CreatedAt() time.Time {
	return s.state.CreatedAt
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := s.state
	copied.Responses = make(map[string]string, len(s.state.Responses))
	for k, v := range s.state.Responses {
		copied.Responses[k] = v
	}
	copied.TraitQuestions = make(domain.TraitQuestions, len(s.state.TraitQuestions))
	for trait, questions := range s.state.TraitQuestions {
		copied.TraitQuestions[trait] = append([]domain.TraitQuestion(nil), questions...)
	}
	return copied
}

// Reset clears scores and answers and repositions the session at step.
func (s *Session) Reset(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentStep = step
	s.state.Scores = domain.TraitScores{}
	s.state.Responses = make(map[string]string)
	s.state.TraitQuestions = domain.NewTraitQuestions()
}

// advance applies one submitted answer: records the response, scores it if the
// gate passes, applies the sequencing override, and either moves to the next
// question or completes the quiz.
func (s *Session) advance(catalog domain.Catalog, results domain.ResultTable, override SequenceOverride, choice string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := s.state.CurrentStep
	if step >= len(catalog) {
		return Outcome{}, domain.ErrQuizCompleted
	}

	// Re-answering a step overwrites the stored response; scoring from the
	// earlier submission is not undone.
	s.state.Responses[strconv.Itoa(step)] = choice

	question := catalog[step]
	selected := question.FindOption(choice)

	// Scoring gate: introductions never score, and an unmatched or untagged
	// choice is a silent no-op.
	if step >= domain.FirstScoringStep && selected != nil && selected.Trait != "" {
		trait := selected.Trait
		s.state.Scores.Incr(trait)
		s.state.TraitQuestions[trait] = append(s.state.TraitQuestions[trait], domain.TraitQuestion{
			QuestionID:   question.ID,
			QuestionText: truncateText(question.Text, 30),
			Choice:       choice,
		})
	}

	godResponse := ""
	if selected != nil {
		godResponse = selected.Response
	}

	// Catalog sequencing override: a known data patch that forces the
	// successor of one question id regardless of catalog order.
	if override.FromID != "" && question.ID == override.FromID {
		if idx := catalog.IndexOf(override.ToID); idx >= 0 {
			s.state.CurrentStep = idx
			next := catalog[idx]
			return Outcome{GodResponse: godResponse, Question: &next}, nil
		}
	}

	s.state.CurrentStep = step + 1
	if s.state.CurrentStep < len(catalog) {
		next := catalog[s.state.CurrentStep]
		return Outcome{GodResponse: godResponse, Question: &next}, nil
	}

	code := domain.Classify(s.state.Scores)
	entry := results.Lookup(code)
	return Outcome{
		GodResponse: godResponse,
		Complete:    true,
		Result: &domain.CompletedResult{
			PersonalityType:  code,
			TypeName:         entry.TypeName,
			Creature:         entry.Creature,
			Description:      entry.Description,
			ImagePath:        entry.ImagePath,
			Scores:           s.state.Scores,
			TraitQuestions:   s.state.TraitQuestions,
			TraitComparisons: domain.TraitComparisons(s.state.Scores, code),
		},
	}, nil
}

// truncateText shortens question text for the trait breakdown. The ellipsis is
// always appended, matching the serialized form clients already parse.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes) + "..."
}
