package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lshigami/Socrates/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

type QuestionRepository interface {
	FindByIDWithChoices(ctx context.Context, id uint) (*model.Question, error)
	FindNextInTopic(ctx context.Context, topicID uint, afterID uint) (*model.Question, error)
	FindRandomInTopic(ctx context.Context, topicID uint) (*model.Question, error)
	NextIDAfter(ctx context.Context, id uint) (*uint, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func preloadChoices(db *gorm.DB) *gorm.DB {
	return db.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("choices.id ASC")
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *questionRepository) FindByIDWithChoices(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	if err := preloadChoices(r.db.WithContext(ctx)).First(&question, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &question, nil
}

func (r *questionRepository) FindNextInTopic(ctx context.Context, topicID uint, afterID uint) (*model.Question, error) {
	var question model.Question
	err := preloadChoices(r.db.WithContext(ctx)).
		Where("topic_id = ? AND id > ?", topicID, afterID).
		Order("id ASC").
		First(&question).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &question, nil
}

func (r *questionRepository) FindRandomInTopic(ctx context.Context, topicID uint) (*model.Question, error) {
	var question model.Question
	// RANDOM() is understood by both postgres and sqlite
	err := preloadChoices(r.db.WithContext(ctx)).
		Where("topic_id = ?", topicID).
		Order("RANDOM()").
		Take(&question).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &question, nil
}

// NextIDAfter returns the smallest question id greater than id, or nil when id is the last one.
func (r *questionRepository) NextIDAfter(ctx context.Context, id uint) (*uint, error) {
	var next sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&model.Question{}).
		Select("MIN(id)").
		Where("id > ?", id).
		Scan(&next).Error
	if err != nil {
		return nil, err
	}
	if !next.Valid {
		return nil, nil
	}
	nextID := uint(next.Int64)
	return &nextID, nil
}
