package model

import (
	"time"
)

const QuestionTypeMultipleChoice = "multiple_choice"

type Question struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	TopicID      uint      `json:"topic_id" gorm:"not null;index"`
	Topic        *Topic    `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	QuestionText string    `json:"question_text" gorm:"type:text;not null"`
	QuestionType string    `json:"question_type" gorm:"not null;default:'multiple_choice'"`
	Choices      []Choice  `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
