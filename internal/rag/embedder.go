package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder 定义文本向量化接口
// 上传和查询必须使用同一个Embedder实例，保证两侧向量由相同算法产生
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedAll(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Ready() bool
}

// HashEmbedder 基于内容哈希的确定性向量生成器
// 没有语义，只提供可复现的度量空间，作为参考实现和默认实现保留
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder 创建哈希向量生成器
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = 768
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed 对文本生成确定性向量
// 算法：SHA-256十六进制串作为种子，逐维取 seed[i%len] 的序数值除以255，
// 再加 i*0.001 后对1.0取模，保证每个分量落在 [0,1)
func (e *HashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	seed := hex.EncodeToString(sum[:])

	embedding := make([]float32, e.dimensions)
	for i := 0; i < e.dimensions; i++ {
		value := float64(seed[i%len(seed)]) / 255.0
		value = math.Mod(value+float64(i)*0.001, 1.0)
		embedding[i] = float32(value)
	}
	return embedding, nil
}

// EmbedAll 批量生成向量，顺序与输入一致
func (e *HashEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (e *HashEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *HashEmbedder) Ready() bool {
	return true
}

var embeddingDimensions = map[string]int{
	"text-embedding-3-large": 3072,
	"text-embedding-3-small": 1536,
	"text-embedding-ada-002": 1536,
}

// OpenAIEmbedder 使用OpenAI Embedding API的语义向量生成器
// 与HashEmbedder共用同一接口，可在配置中切换
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewOpenAIEmbedder 创建OpenAI嵌入向量生成器
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	apiKey = strings.TrimSpace(apiKey)
	if model == "" {
		model = "text-embedding-3-small"
	}

	dims, ok := embeddingDimensions[model]
	if !ok {
		dims = 1536
	}

	embedder := &OpenAIEmbedder{
		model:      model,
		dimensions: dims,
	}
	if apiKey != "" {
		embedder.client = openai.NewClient(apiKey)
	}
	return embedder
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil {
		return nil, errors.New("openai client not initialized")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response empty")
	}

	embedding := resp.Data[0].Embedding
	result := make([]float32, len(embedding))
	copy(result, embedding)
	return result, nil
}

func (e *OpenAIEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEmbedder) Ready() bool {
	return e.client != nil
}
