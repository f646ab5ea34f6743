package dto

import "time"

type TopicResponse struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

type ChoiceResponse struct {
	ID          uint    `json:"id"`
	QuestionID  uint    `json:"question_id"`
	ChoiceText  string  `json:"choice_text"`
	IsCorrect   bool    `json:"is_correct"`
	Explanation *string `json:"explanation,omitempty"`
}

// QuestionResponse is returned when a learner starts (or restarts) a question.
type QuestionResponse struct {
	ID             uint             `json:"id"`
	TopicID        uint             `json:"topic_id"`
	QuestionText   string           `json:"question_text"`
	QuestionType   string           `json:"question_type"`
	Choices        []ChoiceResponse `json:"choices"`
	NextQuestionID *uint            `json:"next_question_id"`
}

type InteractionResponse struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	UserAnswer string    `json:"user_answer"`
	AIResponse string    `json:"ai_response"`
	IsCorrect  *bool     `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

type HistoryResponse struct {
	History []InteractionResponse `json:"history"`
}

type CheckAnswerResponse struct {
	QuestionID   uint   `json:"question_id"`
	UserAnswer   string `json:"user_answer"`
	IsCorrect    bool   `json:"is_correct"`
	Explanation  string `json:"explanation"`
	IsSufficient bool   `json:"is_sufficient"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
