package model

import (
	"time"
)

type Topic struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	Title     string     `json:"title" gorm:"not null;uniqueIndex"` // "IT Passport basics"
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:TopicID"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
