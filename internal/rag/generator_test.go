package rag

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/paiapp/backend-go/internal/errors"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]string{"fragment one", "fragment two"}, "What is this about?")

	expected := "Context:\nfragment one\nfragment two\n\nQuestion: What is this about?\nAnswer:"
	assert.Equal(t, expected, prompt)
}

func TestClassifyGenerationErrorTimeout(t *testing.T) {
	appErr := ClassifyGenerationError(context.DeadlineExceeded)
	assert.Equal(t, apperrors.ErrCodeGenerationTimeout, appErr.Code)
	assert.Equal(t, 504, appErr.HTTPCode)
}

func TestClassifyGenerationErrorQuota(t *testing.T) {
	// 429按类型和状态码识别为配额错误，不依赖错误文本
	appErr := ClassifyGenerationError(&openai.APIError{HTTPStatusCode: 429, Message: "rate limited"})
	assert.Equal(t, apperrors.ErrCodeGenerationQuotaExceeded, appErr.Code)
	assert.Equal(t, 429, appErr.HTTPCode)
}

func TestClassifyGenerationErrorServerError(t *testing.T) {
	appErr := ClassifyGenerationError(&openai.APIError{HTTPStatusCode: 503, Message: "overloaded"})
	assert.Equal(t, apperrors.ErrCodeGenerationServerError, appErr.Code)
	assert.Equal(t, 502, appErr.HTTPCode)
}

func TestClassifyGenerationErrorBadRequest(t *testing.T) {
	appErr := ClassifyGenerationError(&openai.APIError{HTTPStatusCode: 400, Message: "bad prompt"})
	assert.Equal(t, apperrors.ErrCodeGenerationBadRequest, appErr.Code)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestClassifyGenerationErrorUnknown(t *testing.T) {
	// 无法归类的错误一律按连接失败处理，保留原始错误
	cause := errors.New("socket closed")
	appErr := ClassifyGenerationError(cause)
	assert.Equal(t, apperrors.ErrCodeGenerationUnavailable, appErr.Code)
	assert.Equal(t, 503, appErr.HTTPCode)
	assert.ErrorIs(t, appErr, cause)
}

func TestOpenAIGeneratorNotConfigured(t *testing.T) {
	generator := NewOpenAIGenerator("", "", "", 0)
	assert.False(t, generator.Ready())

	_, err := generator.Generate(context.Background(), "prompt")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGenerationUnavailable))
}
