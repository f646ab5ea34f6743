package repository

import (
	"context"

	"github.com/lshigami/Socrates/internal/model"
	"gorm.io/gorm"
)

// InteractionRepository stores dialogue turns. A nil userID addresses the anonymous scope.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *model.Interaction) error
	FindByScope(ctx context.Context, questionID uint, userID *uint) ([]model.Interaction, error)
	DeleteByScope(ctx context.Context, questionID uint, userID *uint) (int64, error)
}

type interactionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func scope(db *gorm.DB, questionID uint, userID *uint) *gorm.DB {
	db = db.Where("question_id = ?", questionID)
	if userID == nil {
		return db.Where("user_id IS NULL")
	}
	return db.Where("user_id = ?", *userID)
}

func (r *interactionRepository) Create(ctx context.Context, interaction *model.Interaction) error {
	return r.db.WithContext(ctx).Create(interaction).Error
}

func (r *interactionRepository) FindByScope(ctx context.Context, questionID uint, userID *uint) ([]model.Interaction, error) {
	var interactions []model.Interaction
	err := scope(r.db.WithContext(ctx), questionID, userID).
		Select("id", "question_id", "user_id", "user_answer", "ai_response", "is_correct", "created_at").
		Order("created_at ASC").
		Order("id ASC").
		Find(&interactions).Error
	return interactions, err
}

func (r *interactionRepository) DeleteByScope(ctx context.Context, questionID uint, userID *uint) (int64, error) {
	res := scope(r.db.WithContext(ctx), questionID, userID).Delete(&model.Interaction{})
	return res.RowsAffected, res.Error
}
