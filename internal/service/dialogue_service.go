package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/Socrates/config"
	"github.com/lshigami/Socrates/internal/model"
	"github.com/lshigami/Socrates/internal/repository"
	"github.com/rs/zerolog/log"
)

// Explanations shown in place of a tutor reply when generation fails.
const (
	TransportFailureText   = "The tutor could not be reached. Please try again."
	applicationFailureText = "The tutor service returned an error (status %d)."
	EmptyResponseText      = "The tutor returned no response text."
)

// TurnInput is everything one dialogue turn needs. History must be ascending by creation time.
type TurnInput struct {
	QuestionID    uint
	UserID        *uint
	QuestionText  string
	UserAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	History       []model.Interaction
	Choices       []model.Choice
}

type TurnResult struct {
	QuestionID   uint
	UserAnswer   string
	Explanation  string
	IsCorrect    bool
	IsSufficient bool
}

// DialogueService runs one tutor turn: build the conversation, call the generator, interpret
// the reply and record it. It never fails; upstream and storage problems degrade into the
// returned explanation and the log.
type DialogueService interface {
	SubmitAnswer(ctx context.Context, in TurnInput) TurnResult
}

type dialogueService struct {
	generator       TextGenerator
	interactionRepo repository.InteractionRepository
	timeout         time.Duration
	temperature     float32
}

func NewDialogueService(cfg *config.Config, generator TextGenerator, interactionRepo repository.InteractionRepository) DialogueService {
	return &dialogueService{
		generator:       generator,
		interactionRepo: interactionRepo,
		timeout:         cfg.Gemini.Timeout,
		temperature:     cfg.Gemini.Temperature,
	}
}

// ExtractFinalMarker reports whether text carries FinalMarker and returns it with every
// occurrence removed.
func ExtractFinalMarker(text string) (string, bool) {
	if !strings.Contains(text, FinalMarker) {
		return text, false
	}
	return strings.TrimSpace(strings.ReplaceAll(text, FinalMarker, "")), true
}

func (s *dialogueService) generate(ctx context.Context, in TurnInput, conv Conversation) string {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	outcome, err := s.generator.Generate(genCtx, GenerationRequest{
		SystemInstruction: conv.SystemInstruction,
		Messages:          conv.Messages,
		Temperature:       s.temperature,
	})
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) && genErr.Kind == GenerationApplication {
			log.Ctx(ctx).Error().Err(err).
				Uint("questionID", in.QuestionID).
				Int("status", genErr.StatusCode).
				Msg("Gemini API request failed")
			return fmt.Sprintf(applicationFailureText, genErr.StatusCode)
		}
		log.Ctx(ctx).Error().Err(err).
			Uint("questionID", in.QuestionID).
			Dur("timeout", s.timeout).
			Msg("Gemini API connection error")
		return TransportFailureText
	}

	if outcome == nil || strings.TrimSpace(outcome.Text) == "" {
		log.Ctx(ctx).Warn().Uint("questionID", in.QuestionID).Msg("Gemini returned no text content")
		return EmptyResponseText
	}
	return outcome.Text
}

func (s *dialogueService) SubmitAnswer(ctx context.Context, in TurnInput) TurnResult {
	conv := BuildConversation(ConversationInput{
		QuestionText:  in.QuestionText,
		CorrectAnswer: in.CorrectAnswer,
		IsCorrect:     in.IsCorrect,
		UserAnswer:    in.UserAnswer,
		Choices:       in.Choices,
		History:       in.History,
	})

	log.Ctx(ctx).Debug().
		Uint("questionID", in.QuestionID).
		Interface("userID", in.UserID).
		Str("phase", conv.Phase.String()).
		Str("promptVersion", promptVersion).
		Int("messages", len(conv.Messages)).
		Msg("Generating tutor turn")

	explanation := stripBackslashes(s.generate(ctx, in, conv))
	explanation, sufficient := ExtractFinalMarker(explanation)
	if explanation == "" {
		// the reply consisted of nothing but the marker
		explanation = EmptyResponseText
	}

	isCorrect := in.IsCorrect
	interaction := &model.Interaction{
		QuestionID: in.QuestionID,
		UserID:     in.UserID,
		UserAnswer: in.UserAnswer,
		AIResponse: explanation,
		IsCorrect:  &isCorrect,
	}
	// recorded even when the request context is already cancelled
	if err := s.interactionRepo.Create(context.WithoutCancel(ctx), interaction); err != nil {
		log.Ctx(ctx).Error().Err(err).Uint("questionID", in.QuestionID).Msg("Failed to save interaction")
	}

	return TurnResult{
		QuestionID:   in.QuestionID,
		UserAnswer:   in.UserAnswer,
		Explanation:  explanation,
		IsCorrect:    in.IsCorrect,
		IsSufficient: sufficient,
	}
}
