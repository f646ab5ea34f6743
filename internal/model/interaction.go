package model

import (
	"time"
)

// Interaction is one persisted dialogue turn. Rows are append-only; the ordered rows of a
// (question, user) scope are the conversation transcript.
type Interaction struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index:idx_interactions_scope,priority:1"`
	Question   *Question `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE;"`
	UserID     *uint     `json:"user_id,omitempty" gorm:"index:idx_interactions_scope,priority:2"`
	UserAnswer string    `json:"user_answer" gorm:"type:text;not null"`
	AIResponse string    `json:"ai_response" gorm:"type:text;not null"`
	IsCorrect  *bool     `json:"is_correct"`
	CreatedAt  time.Time `json:"created_at" gorm:"index:idx_interactions_scope,priority:3"`
	UpdatedAt  time.Time `json:"updated_at"`
}
