package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/Socrates/config"
	"github.com/lshigami/Socrates/internal/model"
	"github.com/lshigami/Socrates/internal/repository"
	"github.com/lshigami/Socrates/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{Gemini: config.Gemini{Model: "mock", Timeout: 2 * time.Second, Temperature: 0.3}}
}

// failingInteractionRepo fails every write and serves no history.
type failingInteractionRepo struct{ creates int }

func (r *failingInteractionRepo) Create(context.Context, *model.Interaction) error {
	r.creates++
	return errors.New("disk full")
}

func (r *failingInteractionRepo) FindByScope(context.Context, uint, *uint) ([]model.Interaction, error) {
	return nil, nil
}

func (r *failingInteractionRepo) DeleteByScope(context.Context, uint, *uint) (int64, error) {
	return 0, nil
}

func baseTurn() TurnInput {
	return TurnInput{
		QuestionID:    1,
		UserID:        testutil.UintPtr(9),
		QuestionText:  "which part processes information?",
		UserAnswer:    "B",
		CorrectAnswer: "(B) CPU",
		IsCorrect:     true,
		Choices:       cpuChoices,
	}
}

func TestDialogueService_FinalMarkerEndsDialogue(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInteractionRepository(testutil.NewDB(t, true))
	gen := newMockGenerator(mockReply{Text: "Splendid reasoning! [FINAL]"})
	svc := NewDialogueService(testConfig(), gen, repo)

	result := svc.SubmitAnswer(ctx, baseTurn())

	assert.True(t, result.IsSufficient)
	assert.Equal(t, "Splendid reasoning!", result.Explanation)
	assert.NotContains(t, result.Explanation, FinalMarker)

	stored, err := repo.FindByScope(ctx, 1, testutil.UintPtr(9))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Splendid reasoning!", stored[0].AIResponse)
	assert.Equal(t, "B", stored[0].UserAnswer)
	require.NotNil(t, stored[0].IsCorrect)
	assert.True(t, *stored[0].IsCorrect)
}

func TestDialogueService_PassesConversationToGenerator(t *testing.T) {
	gen := newMockGenerator(mockReply{Text: "Why CPU?"})
	svc := NewDialogueService(testConfig(), gen, &failingInteractionRepo{})

	svc.SubmitAnswer(context.Background(), baseTurn())

	require.Equal(t, 1, gen.CallCount())
	req := gen.Calls[0]
	assert.InDelta(t, 0.3, req.Temperature, 0.0001)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, RoleLearner, req.Messages[0].Role)
	assert.Contains(t, req.SystemInstruction, "which part processes information?")
}

func TestDialogueService_SanitizesGeneratedText(t *testing.T) {
	gen := newMockGenerator(mockReply{Text: `Think about the \"brain\" of it.`})
	svc := NewDialogueService(testConfig(), gen, &failingInteractionRepo{})

	result := svc.SubmitAnswer(context.Background(), baseTurn())

	assert.Equal(t, `Think about the "brain" of it.`, result.Explanation)
	assert.False(t, result.IsSufficient)
}

func TestDialogueService_GenerationFailures(t *testing.T) {
	tests := []struct {
		name     string
		reply    mockReply
		expected string
	}{
		{
			name:     "transport failure",
			reply:    mockReply{Err: &GenerationError{Kind: GenerationTransport, Err: errors.New("connection refused")}},
			expected: TransportFailureText,
		},
		{
			name:     "application failure",
			reply:    mockReply{Err: &GenerationError{Kind: GenerationApplication, StatusCode: 503, Err: errors.New("unavailable")}},
			expected: "The tutor service returned an error (status 503).",
		},
		{
			name:     "untyped error treated as transport",
			reply:    mockReply{Err: errors.New("boom")},
			expected: TransportFailureText,
		},
		{name: "empty text", reply: mockReply{Text: ""}, expected: EmptyResponseText},
		{name: "whitespace text", reply: mockReply{Text: "  \n"}, expected: EmptyResponseText},
		{name: "marker only", reply: mockReply{Text: FinalMarker}, expected: EmptyResponseText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := repository.NewInteractionRepository(testutil.NewDB(t, true))
			svc := NewDialogueService(testConfig(), newMockGenerator(tt.reply), repo)

			result := svc.SubmitAnswer(ctx, baseTurn())

			assert.Equal(t, tt.expected, result.Explanation)
			assert.True(t, result.IsCorrect)

			stored, err := repo.FindByScope(ctx, 1, testutil.UintPtr(9))
			require.NoError(t, err)
			require.Len(t, stored, 1, "the failed turn is still recorded")
			assert.Equal(t, tt.expected, stored[0].AIResponse)
		})
	}
}

func TestDialogueService_TimeoutDegradesToTransportFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Gemini.Timeout = 20 * time.Millisecond
	svc := NewDialogueService(cfg, newMockGenerator(mockReply{Block: true}), &failingInteractionRepo{})

	start := time.Now()
	result := svc.SubmitAnswer(context.Background(), baseTurn())

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, TransportFailureText, result.Explanation)
	assert.NotEmpty(t, result.Explanation)
	assert.False(t, result.IsSufficient)
}

func TestDialogueService_PersistenceFailureIsSwallowed(t *testing.T) {
	repo := &failingInteractionRepo{}
	svc := NewDialogueService(testConfig(), newMockGenerator(mockReply{Text: "Good. [FINAL]"}), repo)

	result := svc.SubmitAnswer(context.Background(), baseTurn())

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, "Good.", result.Explanation)
	assert.True(t, result.IsSufficient)
}

func TestDialogueService_FailuresLogWithRequestContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).With().Str("request_id", "req-42").Logger().WithContext(context.Background())

	gen := newMockGenerator(mockReply{Err: &GenerationError{Kind: GenerationTransport, Err: errors.New("connection refused")}})
	svc := NewDialogueService(testConfig(), gen, &failingInteractionRepo{})

	result := svc.SubmitAnswer(ctx, baseTurn())
	assert.Equal(t, TransportFailureText, result.Explanation)

	out := buf.String()
	assert.Contains(t, out, "Gemini API connection error")
	assert.Contains(t, out, "Failed to save interaction")
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		assert.Contains(t, string(line), `"request_id":"req-42"`)
	}
}

func TestExtractFinalMarker(t *testing.T) {
	text, ok := ExtractFinalMarker("Well done. [FINAL]")
	assert.True(t, ok)
	assert.Equal(t, "Well done.", text)

	text, ok = ExtractFinalMarker("[FINAL] twice [FINAL]")
	assert.True(t, ok)
	assert.Equal(t, "twice", text)

	text, ok = ExtractFinalMarker("keep going")
	assert.False(t, ok)
	assert.Equal(t, "keep going", text)
}
