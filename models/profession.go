package models

import (
	"time"

	"cadet_app_backend/scoring"
)

type StartSessionRequest struct {
	TestID string `json:"test_id"`
}

type AnswerRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

type OptionResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type QuestionResponse struct {
	ID      string           `json:"id"`
	Number  int              `json:"number"`
	Text    string           `json:"text"`
	Options []OptionResponse `json:"options"`
}

type SessionResponse struct {
	ID               string            `json:"id"`
	TestID           string            `json:"test_id"`
	Title            string            `json:"title"`
	CurrentIndex     int               `json:"current_index"`
	TotalQuestions   int               `json:"total_questions"`
	AnsweredCount    int               `json:"answered_count"`
	Complete         bool              `json:"complete"`
	CurrentQuestion  *QuestionResponse `json:"current_question,omitempty"`
	SelectedOptionID string            `json:"selected_option_id,omitempty"`
}

type ProfessionResponse struct {
	Profession  scoring.Profession `json:"profession"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
}

type ProfessionResult struct {
	Profession  scoring.Profession `json:"profession"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Percentage  int                `json:"percentage"`
}

type ResultsResponse struct {
	SessionID        string             `json:"session_id"`
	ResultID         int                `json:"result_id,omitempty"`
	TestID           string             `json:"test_id"`
	Results          []ProfessionResult `json:"results"`
	Suggestions      string             `json:"suggestions,omitempty"`
	SuggestionsError string             `json:"suggestions_error,omitempty"`
}

// ProfessionTestResult is a persisted, completed quiz.
type ProfessionTestResult struct {
	ID        int               `json:"id"`
	UserID    int               `json:"user_id"`
	TestID    string            `json:"test_id"`
	Rankings  []scoring.Ranking `json:"rankings"`
	Answers   []scoring.Answer  `json:"answers"`
	CreatedAt time.Time         `json:"created_at"`
}
