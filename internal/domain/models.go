package domain

import (
	"fmt"
	"time"
)

// Trait is one of the eight personality trait letters.
type Trait string

const (
	TraitE Trait = "E"
	TraitI Trait = "I"
	TraitS Trait = "S"
	TraitN Trait = "N"
	TraitT Trait = "T"
	TraitF Trait = "F"
	TraitJ Trait = "J"
	TraitP Trait = "P"
)

// Traits lists all trait letters in canonical axis order.
var Traits = []Trait{TraitE, TraitI, TraitS, TraitN, TraitT, TraitF, TraitJ, TraitP}

// FirstScoringStep is the catalog index of the first question that
// contributes to trait scores; entries before it are introductions.
const FirstScoringStep = 2

// TraitScores holds the per-trait answer counters for a session.
// A fixed struct instead of a string-keyed map keeps trait access
// exhaustive at compile time.
type TraitScores struct {
	E int `json:"E"`
	I int `json:"I"`
	S int `json:"S"`
	N int `json:"N"`
	T int `json:"T"`
	F int `json:"F"`
	J int `json:"J"`
	P int `json:"P"`
}

// Get returns the counter for a trait letter.
func (s TraitScores) Get(t Trait) int {
	switch t {
	case TraitE:
		return s.E
	case TraitI:
		return s.I
	case TraitS:
		return s.S
	case TraitN:
		return s.N
	case TraitT:
		return s.T
	case TraitF:
		return s.F
	case TraitJ:
		return s.J
	case TraitP:
		return s.P
	}
	return 0
}

// Incr bumps the counter for a trait letter. Unknown letters are ignored.
func (s *TraitScores) Incr(t Trait) {
	switch t {
	case TraitE:
		s.E++
	case TraitI:
		s.I++
	case TraitS:
		s.S++
	case TraitN:
		s.N++
	case TraitT:
		s.T++
	case TraitF:
		s.F++
	case TraitJ:
		s.J++
	case TraitP:
		s.P++
	}
}

// TraitQuestion records one scoring answer for the result breakdown.
type TraitQuestion struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	Choice       string `json:"choice"`
}

// TraitQuestions maps each trait letter to the answers that contributed to it.
type TraitQuestions map[Trait][]TraitQuestion

// NewTraitQuestions returns a map with an empty slice for every trait, so the
// serialized breakdown always carries all eight keys.
func NewTraitQuestions() TraitQuestions {
	tq := make(TraitQuestions, len(Traits))
	for _, t := range Traits {
		tq[t] = []TraitQuestion{}
	}
	return tq
}

// Option represents a possible answer for a question. Trait is set only on
// scoring questions; Response is flavor text returned to the user either way.
type Option struct {
	Text     string `json:"text"`
	Trait    Trait  `json:"trait,omitempty"`
	Response string `json:"response,omitempty"`
}

// Question is one catalog entry.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// FindOption returns the option whose text exactly equals choice, or nil.
// Matching is exact; there is no fuzzy or partial match.
func (q Question) FindOption(choice string) *Option {
	for i := range q.Options {
		if q.Options[i].Text == choice {
			return &q.Options[i]
		}
	}
	return nil
}

// Catalog is the ordered, immutable question list served to clients.
type Catalog []Question

// IndexOf returns the index of the first question with the given id, or -1.
func (c Catalog) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the catalog is usable. A malformed catalog is a startup-time
// fatal condition, never a runtime one.
func (c Catalog) Validate() error {
	if len(c) <= FirstScoringStep {
		return fmt.Errorf("catalog needs more than %d entries, got %d", FirstScoringStep, len(c))
	}
	for i, q := range c {
		if q.ID == "" {
			return fmt.Errorf("catalog entry %d: missing id", i)
		}
		if q.Text == "" {
			return fmt.Errorf("catalog entry %d (%s): missing text", i, q.ID)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("catalog entry %d (%s): no options", i, q.ID)
		}
		for j, o := range q.Options {
			if o.Text == "" {
				return fmt.Errorf("catalog entry %d (%s): option %d has empty text", i, q.ID, j)
			}
		}
	}
	return nil
}

// Session is the per-quiz mutable state. Responses are keyed by the step index
// (as a string) at which they were submitted.
type Session struct {
	ID             string            `json:"id"`
	CurrentStep    int               `json:"current_step"`
	Scores         TraitScores       `json:"scores"`
	Responses      map[string]string `json:"responses"`
	TraitQuestions TraitQuestions    `json:"trait_questions"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewSession returns a fresh session starting at the given catalog index.
func NewSession(id string, step int, now time.Time) Session {
	return Session{
		ID:             id,
		CurrentStep:    step,
		Responses:      make(map[string]string),
		TraitQuestions: NewTraitQuestions(),
		CreatedAt:      now,
	}
}

// ResultEntry describes the creature a type code maps to.
type ResultEntry struct {
	TypeName    string `json:"type_name"`
	Creature    string `json:"creature"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
}

// ResultTable maps 4-letter type codes to result entries.
type ResultTable map[string]ResultEntry

// CompletedResult is the final payload built when a session answers its last
// question. ImagePath is relative; the boundary layer qualifies it.
type CompletedResult struct {
	PersonalityType  string            `json:"personality_type"`
	TypeName         string            `json:"type_name"`
	Creature         string            `json:"creature"`
	Description      string            `json:"description"`
	ImagePath        string            `json:"image_path"`
	Scores           TraitScores       `json:"scores"`
	TraitQuestions   TraitQuestions    `json:"trait_questions"`
	TraitComparisons map[string]string `json:"trait_comparisons"`
}
