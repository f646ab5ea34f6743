package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/lshigami/Socrates/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestToGeminiContents(t *testing.T) {
	contents := toGeminiContents([]Message{
		{Role: RoleLearner, Text: "My previous answer: B"},
		{Role: RoleTutor, Text: "Why?"},
		{Role: RoleLearner, Text: "My latest answer: it computes"},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, []genai.Part{genai.Text("Why?")}, contents[1].Parts)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}))

	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("learner.")}}},
		{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
	}}
	assert.Equal(t, "Hello, learner.", responseText(resp))
}

func TestClassifyGeminiError(t *testing.T) {
	gErr := &googleapi.Error{Code: http.StatusServiceUnavailable, Message: "overloaded"}

	var genErr *GenerationError
	require.True(t, errors.As(classifyGeminiError(fmt.Errorf("wrapped: %w", gErr)), &genErr))
	assert.Equal(t, GenerationApplication, genErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, genErr.StatusCode)

	apiErr, ok := apierror.FromError(&googleapi.Error{Code: http.StatusTooManyRequests})
	require.True(t, ok)
	require.True(t, errors.As(classifyGeminiError(apiErr), &genErr))
	assert.Equal(t, GenerationApplication, genErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, genErr.StatusCode)

	require.True(t, errors.As(classifyGeminiError(context.DeadlineExceeded), &genErr))
	assert.Equal(t, GenerationTransport, genErr.Kind)
	assert.ErrorIs(t, genErr, context.DeadlineExceeded)
}

func TestGeminiLLMService_WithoutAPIKey(t *testing.T) {
	gen, err := NewGeminiLLMService(&config.Config{Gemini: config.Gemini{Model: "gemini-1.5-flash"}})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), GenerationRequest{Messages: []Message{{Role: RoleLearner, Text: "B"}}})
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, GenerationTransport, genErr.Kind)
	assert.ErrorIs(t, err, errClientNotInitialized)
}
