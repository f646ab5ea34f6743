package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/lshigami/Socrates/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var errClientNotInitialized = errors.New("gemini client not initialized")

type geminiLLMService struct {
	client    *genai.Client
	modelName string
}

// NewGeminiLLMService builds the Gemini-backed TextGenerator. Without an API key the service
// still starts; every call then fails as a transport error.
func NewGeminiLLMService(cfg *config.Config) (TextGenerator, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{modelName: cfg.Gemini.Model}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiLLMService{client: client, modelName: cfg.Gemini.Model}, nil
}

func geminiRole(r Role) string {
	if r == RoleTutor {
		return "model"
	}
	return "user"
}

// toGeminiContents converts the replayed conversation into Gemini chat contents.
func toGeminiContents(messages []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		out = append(out, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// classifyGeminiError maps a client error onto the GenerationError taxonomy.
func classifyGeminiError(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &GenerationError{Kind: GenerationApplication, StatusCode: apiErr.HTTPCode(), Err: err}
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code > 0 {
		return &GenerationError{Kind: GenerationApplication, StatusCode: gErr.Code, Err: err}
	}
	return &GenerationError{Kind: GenerationTransport, Err: err}
}

func (s *geminiLLMService) Generate(ctx context.Context, req GenerationRequest) (*GenerationOutcome, error) {
	if s.client == nil {
		return nil, &GenerationError{Kind: GenerationTransport, Err: errClientNotInitialized}
	}
	if len(req.Messages) == 0 {
		return nil, &GenerationError{Kind: GenerationTransport, Err: errors.New("no messages to send")}
	}

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(req.Temperature)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}

	contents := toGeminiContents(req.Messages)
	last := contents[len(contents)-1]

	chat := model.StartChat()
	chat.History = contents[:len(contents)-1]

	resp, err := chat.SendMessage(ctx, last.Parts...)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			log.Ctx(ctx).Warn().Err(err).Str("model", s.modelName).Msg("Gemini blocked the response")
			return &GenerationOutcome{}, nil
		}
		return nil, classifyGeminiError(err)
	}

	return &GenerationOutcome{Text: responseText(resp)}, nil
}
