package services

import (
	"fmt"
	"strings"

	"gorm.io/datatypes"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"github.com/yungbote/classroom-backend/internal/platform/apierr"
)

// QuizFieldsInput carries the optional quiz fields of a create/update payload.
// Nil means "not supplied"; options are raw JSON values so numbers and nulls
// can be coerced the same way strings are.
type QuizFieldsInput struct {
	Subtype  *string
	Question *string
	Options  []any
	Answer   *string
	// OptionsSet distinguishes an explicit [] from an omitted field.
	OptionsSet bool
}

type QuizFields struct {
	Subtype  *string
	Question string
	Options  datatypes.JSONSlice[string]
	Answer   string
}

// ResolveQuizFields computes the quiz fields an item of itemType should carry.
// Non-quiz types always reset every field. For quiz, each field falls back to
// the existing item and then to its default; options are stringified, trimmed
// and stripped of blanks (order and duplicates kept) and are dropped entirely
// for short answers.
func ResolveQuizFields(in QuizFieldsInput, itemType string, existing *types.TopicItem) (QuizFields, error) {
	if itemType != types.ItemTypeQuiz {
		return QuizFields{Options: datatypes.JSONSlice[string]{}}, nil
	}

	subtype := types.QuizSubtypeMCQ
	switch {
	case in.Subtype != nil:
		subtype = *in.Subtype
	case existing != nil && existing.QuizSubtype != nil:
		subtype = *existing.QuizSubtype
	}
	if !types.ValidQuizSubtype(subtype) {
		return QuizFields{}, apierr.Validation("Invalid quiz subtype")
	}

	var raw []any
	switch {
	case in.OptionsSet:
		raw = in.Options
	case existing != nil:
		for _, o := range existing.QuizOptions {
			raw = append(raw, o)
		}
	}
	options := datatypes.JSONSlice[string]{}
	if subtype == types.QuizSubtypeMCQ {
		for _, o := range raw {
			s := strings.TrimSpace(stringify(o))
			if s != "" {
				options = append(options, s)
			}
		}
	}

	question := ""
	if in.Question != nil {
		question = *in.Question
	} else if existing != nil {
		question = existing.QuizQuestion
	}
	answer := ""
	if in.Answer != nil {
		answer = *in.Answer
	} else if existing != nil {
		answer = existing.QuizAnswer
	}

	st := subtype
	return QuizFields{
		Subtype:  &st,
		Question: strings.TrimSpace(question),
		Options:  options,
		Answer:   strings.TrimSpace(answer),
	}, nil
}

// validateMCQ enforces the authoring rules for multiple choice: at least two
// options, and a configured answer must be one of them. An empty answer is
// allowed and leaves submissions pending.
func validateMCQ(f QuizFields) error {
	if f.Subtype == nil || *f.Subtype != types.QuizSubtypeMCQ {
		return nil
	}
	if len(f.Options) < 2 {
		return apierr.Validation("Multiple choice quizzes need at least two options")
	}
	if f.Answer == "" {
		return nil
	}
	for _, o := range f.Options {
		if o == f.Answer {
			return nil
		}
	}
	return apierr.Validation("Quiz answer must match one of the options")
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func (f QuizFields) apply(it *types.TopicItem) {
	it.QuizSubtype = f.Subtype
	it.QuizQuestion = f.Question
	it.QuizOptions = f.Options
	it.QuizAnswer = f.Answer
}
