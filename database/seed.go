package database

import (
	"fmt"

	"github.com/lshigami/Socrates/internal/model"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// seedTopics is the starter content. IDs are fixed so clients can link to them.
var seedTopics = []model.Topic{
	{
		ID:    1,
		Title: "IT Passport basics",
		Questions: []model.Question{
			{
				ID:           1,
				QuestionText: "Which part of a computer acts as its \"brain\" and processes information?",
				QuestionType: model.QuestionTypeMultipleChoice,
				Choices: []model.Choice{
					{ChoiceText: "A) Keyboard", Explanation: strPtr("The keyboard is an input device, the \"hands\" that feed information in.")},
					{ChoiceText: "B) CPU", IsCorrect: true},
				},
			},
			{
				ID:           2,
				QuestionText: "Which part of a computer acts as its \"memory\" and holds data temporarily?",
				QuestionType: model.QuestionTypeMultipleChoice,
				Choices: []model.Choice{
					{ChoiceText: "A) Hard disk", Explanation: strPtr("A hard disk stores data long term, even when the power is off.")},
					{ChoiceText: "B) Main memory (RAM)", IsCorrect: true},
				},
			},
		},
	},
}

// Seed inserts the starter topic, questions and choices. Existing rows are left untouched.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, topic := range seedTopics {
			var count int64
			if err := tx.Model(&model.Topic{}).Where("id = ?", topic.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("seed: count topic %d: %w", topic.ID, err)
			}
			if count > 0 {
				log.Debug().Uint("topicID", topic.ID).Msg("Seed topic already present, skipping")
				continue
			}
			t := topic
			if err := tx.Create(&t).Error; err != nil {
				return fmt.Errorf("seed: create topic %d: %w", topic.ID, err)
			}
			log.Info().Uint("topicID", t.ID).Int("questions", len(t.Questions)).Msg("Seeded topic")
		}
		return nil
	})
}
