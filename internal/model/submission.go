package model

import "time"

// SubmitRequest carries the answer ids picked by a participant. Entries may
// be JSON numbers or numeric strings.
type SubmitRequest struct {
	Answers []any `json:"answers"`
}

// ScoreResult is the body returned by POST /quiz/submit.
type ScoreResult struct {
	CorrectAnswers int `json:"correct_answers"`
}

// Submission is one scored submission kept in the submission log.
type Submission struct {
	ID             int64     `json:"id"`
	AnswerIDs      []int     `json:"answer_ids"`
	CorrectAnswers int       `json:"correct_answers"`
	RequestID      string    `json:"request_id"`
	SubmittedAt    time.Time `json:"submitted_at"`

	// Attempts counts failed single-row inserts of this submission.
	Attempts int `json:"attempts,omitempty"`
}
