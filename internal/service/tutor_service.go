package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/Socrates/internal/dto"
	"github.com/lshigami/Socrates/internal/repository"
	"github.com/rs/zerolog/log"
)

// TutorService is the entry point for answering a question: it validates the request, loads
// the question and the scope's transcript, grades the answer and runs a dialogue turn.
type TutorService interface {
	CheckAnswer(ctx context.Context, questionID uint, userID *uint, answerText string) (*dto.CheckAnswerResponse, error)
}

type tutorService struct {
	questionRepo    repository.QuestionRepository
	interactionRepo repository.InteractionRepository
	dialogue        DialogueService
	locker          ScopeLocker
}

func NewTutorService(
	questionRepo repository.QuestionRepository,
	interactionRepo repository.InteractionRepository,
	dialogue DialogueService,
	locker ScopeLocker,
) TutorService {
	return &tutorService{
		questionRepo:    questionRepo,
		interactionRepo: interactionRepo,
		dialogue:        dialogue,
		locker:          locker,
	}
}

func (s *tutorService) CheckAnswer(ctx context.Context, questionID uint, userID *uint, answerText string) (*dto.CheckAnswerResponse, error) {
	question, err := s.questionRepo.FindByIDWithChoices(ctx, questionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question %d: %w", questionID, err)
	}
	if strings.TrimSpace(answerText) == "" {
		return nil, ErrAnswerRequired
	}

	release, err := s.locker.Acquire(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}
	defer release()

	history, err := s.interactionRepo.FindByScope(ctx, questionID, userID)
	if err != nil {
		return nil, fmt.Errorf("load history for question %d: %w", questionID, err)
	}

	isCorrect, correctText := GradeChoices(answerText, question.Choices)
	log.Ctx(ctx).Info().
		Uint("questionID", questionID).
		Interface("userID", userID).
		Int("historyLen", len(history)).
		Bool("isCorrect", isCorrect).
		Msg("Checking answer")

	result := s.dialogue.SubmitAnswer(ctx, TurnInput{
		QuestionID:    question.ID,
		UserID:        userID,
		QuestionText:  question.QuestionText,
		UserAnswer:    answerText,
		CorrectAnswer: correctText,
		IsCorrect:     isCorrect,
		History:       history,
		Choices:       question.Choices,
	})

	var resp dto.CheckAnswerResponse
	copier.Copy(&resp, &result)
	return &resp, nil
}
