package repository

import (
	"context"

	"github.com/lshigami/Socrates/internal/model"
	"gorm.io/gorm"
)

type TopicRepository interface {
	FindByID(ctx context.Context, id uint) (*model.Topic, error)
	FindAllWithQuestionCount(ctx context.Context) ([]TopicWithCount, error)
}

type TopicWithCount struct {
	ID            uint
	Title         string
	QuestionCount int
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) FindByID(ctx context.Context, id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &topic, nil
}

func (r *topicRepository) FindAllWithQuestionCount(ctx context.Context) ([]TopicWithCount, error) {
	var results []TopicWithCount
	err := r.db.WithContext(ctx).Model(&model.Topic{}).
		Select("topics.id, topics.title, (SELECT COUNT(*) FROM questions WHERE questions.topic_id = topics.id) AS question_count").
		Order("topics.id ASC").
		Scan(&results).Error
	return results, err
}
