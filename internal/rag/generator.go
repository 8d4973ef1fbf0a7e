package rag

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	apperrors "github.com/paiapp/backend-go/internal/errors"
)

// Generator 文本生成能力接口
// 单次调用、显式超时，失败时返回细分的上游错误，调用方决定是否重试
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Ready() bool
}

// BuildPrompt 拼装检索增强提示词：检索到的分块在前（最近邻优先），问题在后
func BuildPrompt(contextFragments []string, question string) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(contextFragments, "\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}

// OpenAIGenerator 基于OpenAI Chat Completion的生成器
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIGenerator 创建生成器
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration) *OpenAIGenerator {
	apiKey = strings.TrimSpace(apiKey)
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	generator := &OpenAIGenerator{
		model:   model,
		timeout: timeout,
	}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		generator.client = openai.NewClientWithConfig(cfg)
	}
	return generator
}

// Generate 调用生成服务，单次尝试，超时由配置控制
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationUnavailable,
			"generation service not configured",
		)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", ClassifyGenerationError(err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationEmptyResponse,
			"generation service returned no candidates",
		)
	}
	answer := resp.Choices[0].Message.Content
	if answer == "" {
		return "", apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationEmptyResponse,
			"generation service returned an empty answer",
		)
	}
	return answer, nil
}

func (g *OpenAIGenerator) Ready() bool {
	return g.client != nil
}

// ClassifyGenerationError 将底层生成调用错误映射到错误分类
// 依据错误类型与HTTP状态码判断，绝不依赖错误文本匹配
func ClassifyGenerationError(err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationTimeout,
			"generation request timed out",
		).WithCause(err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatusCode(apiErr.HTTPStatusCode, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode > 0 {
			return classifyStatusCode(reqErr.HTTPStatusCode, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.NewUpstreamError(
				apperrors.ErrCodeGenerationTimeout,
				"generation request timed out",
			).WithCause(err)
		}
		return apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationUnavailable,
			"generation service connection failed",
		).WithCause(err)
	}

	return apperrors.NewUpstreamError(
		apperrors.ErrCodeGenerationUnavailable,
		"generation service unavailable",
	).WithCause(err)
}

func classifyStatusCode(status int, cause error) *apperrors.AppError {
	switch {
	case status == 429:
		return apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationQuotaExceeded,
			"generation quota exceeded",
		).WithCause(cause)
	case status >= 500:
		return apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationServerError,
			"generation service error",
		).WithCause(cause)
	default:
		return apperrors.NewUpstreamError(
			apperrors.ErrCodeGenerationBadRequest,
			"generation request rejected",
		).WithCause(cause)
	}
}
