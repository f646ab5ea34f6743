package dto

// CheckAnswerRequest is the learner's free-text answer for one dialogue turn.
type CheckAnswerRequest struct {
	AnswerText string `json:"answer_text"`
	UserID     *uint  `json:"user_id"` // Temporary, for non-auth user identification
}
