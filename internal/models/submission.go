package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Field bounds for a submission, counted in runes after trimming.
const (
	TitleMinLen       = 5
	TitleMaxLen       = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 2000
	SubmitterMinLen   = 2
	SubmitterMaxLen   = 50
)

// SubmissionInput is the caller-supplied part of a submission.
type SubmissionInput struct {
	Title       string `json:"task_title" yaml:"task_title"`
	Description string `json:"task_description" yaml:"task_description"`
	SubmittedBy string `json:"submitted_by" yaml:"submitted_by"`
	IsDemo      bool   `json:"is_demo,omitempty" yaml:"is_demo,omitempty"`
	DemoType    string `json:"demo_type,omitempty" yaml:"demo_type,omitempty"`
}

// Submission is a task description awaiting evaluation.
type Submission struct {
	ID          string    `json:"task_id"`
	Title       string    `json:"task_title"`
	Description string    `json:"task_description"`
	SubmittedBy string    `json:"submitted_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewSubmission trims and validates the input and stamps it with id and now.
func NewSubmission(in SubmissionInput, id string, now time.Time) (*Submission, error) {
	title, err := checkField("task_title", in.Title, TitleMinLen, TitleMaxLen)
	if err != nil {
		return nil, err
	}
	desc, err := checkField("task_description", in.Description, DescriptionMinLen, DescriptionMaxLen)
	if err != nil {
		return nil, err
	}
	by, err := checkField("submitted_by", in.SubmittedBy, SubmitterMinLen, SubmitterMaxLen)
	if err != nil {
		return nil, err
	}
	return &Submission{
		ID:          id,
		Title:       title,
		Description: desc,
		SubmittedBy: by,
		Timestamp:   now,
	}, nil
}

func checkField(name, value string, minLen, maxLen int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("%w: %s cannot be empty or just whitespace", ErrValidation, name)
	}
	n := utf8.RuneCountInString(v)
	if n < minLen {
		return "", fmt.Errorf("%w: %s must be at least %d characters", ErrValidation, name, minLen)
	}
	if n > maxLen {
		return "", fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, name, maxLen)
	}
	return v, nil
}
