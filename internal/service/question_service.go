package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Socrates/internal/dto"
	"github.com/lshigami/Socrates/internal/model"
	"github.com/lshigami/Socrates/internal/repository"
	"github.com/rs/zerolog/log"
)

type QuestionService interface {
	ListTopics(ctx context.Context) ([]dto.TopicResponse, error)
	// StartQuestion loads a question and wipes the caller's transcript for it (a new attempt).
	StartQuestion(ctx context.Context, questionID uint, userID *uint) (*dto.QuestionResponse, error)
	NextQuestionForTopic(ctx context.Context, topicID uint, userID *uint, afterID *uint, random bool) (*dto.QuestionResponse, error)
	GetHistory(ctx context.Context, questionID uint, userID *uint) (*dto.HistoryResponse, error)
	ResetHistory(ctx context.Context, questionID uint, userID *uint) error
}

type questionService struct {
	questionRepo    repository.QuestionRepository
	topicRepo       repository.TopicRepository
	interactionRepo repository.InteractionRepository
	locker          ScopeLocker
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	topicRepo repository.TopicRepository,
	interactionRepo repository.InteractionRepository,
	locker ScopeLocker,
) QuestionService {
	return &questionService{
		questionRepo:    questionRepo,
		topicRepo:       topicRepo,
		interactionRepo: interactionRepo,
		locker:          locker,
	}
}

func (s *questionService) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	topics, err := s.topicRepo.FindAllWithQuestionCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	resp := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		resp = append(resp, dto.TopicResponse{ID: t.ID, Title: t.Title, QuestionCount: t.QuestionCount})
	}
	return resp, nil
}

func (s *questionService) StartQuestion(ctx context.Context, questionID uint, userID *uint) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByIDWithChoices(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question %d: %w", questionID, err)
	}
	return s.begin(ctx, question, userID)
}

func (s *questionService) NextQuestionForTopic(ctx context.Context, topicID uint, userID *uint, afterID *uint, random bool) (*dto.QuestionResponse, error) {
	if _, err := s.topicRepo.FindByID(ctx, topicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("load topic %d: %w", topicID, err)
	}

	var (
		question *model.Question
		err      error
	)
	if random {
		question, err = s.questionRepo.FindRandomInTopic(ctx, topicID)
	} else {
		var after uint
		if afterID != nil {
			after = *afterID
		}
		question, err = s.questionRepo.FindNextInTopic(ctx, topicID, after)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("select question in topic %d: %w", topicID, err)
	}
	return s.begin(ctx, question, userID)
}

func (s *questionService) begin(ctx context.Context, question *model.Question, userID *uint) (*dto.QuestionResponse, error) {
	if err := s.ResetHistory(ctx, question.ID, userID); err != nil {
		return nil, err
	}

	nextID, err := s.questionRepo.NextIDAfter(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("find question after %d: %w", question.ID, err)
	}

	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	resp.NextQuestionID = nextID
	return &resp, nil
}

func (s *questionService) GetHistory(ctx context.Context, questionID uint, userID *uint) (*dto.HistoryResponse, error) {
	interactions, err := s.interactionRepo.FindByScope(ctx, questionID, userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Uint("questionID", questionID).Msg("Failed to retrieve conversation history")
		return nil, fmt.Errorf("load history for question %d: %w", questionID, err)
	}
	resp := dto.HistoryResponse{History: make([]dto.InteractionResponse, 0, len(interactions))}
	copier.Copy(&resp.History, &interactions)
	if resp.History == nil {
		resp.History = []dto.InteractionResponse{}
	}
	return &resp, nil
}

func (s *questionService) ResetHistory(ctx context.Context, questionID uint, userID *uint) error {
	release, err := s.locker.Acquire(ctx, questionID, userID)
	if err != nil {
		return err
	}
	defer release()

	deleted, err := s.interactionRepo.DeleteByScope(ctx, questionID, userID)
	if err != nil {
		return fmt.Errorf("reset history for question %d: %w", questionID, err)
	}
	log.Ctx(ctx).Info().Uint("questionID", questionID).Interface("userID", userID).Int64("deleted", deleted).Msg("Dialogue history reset")
	return nil
}
