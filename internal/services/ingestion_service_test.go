package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/paiapp/backend-go/internal/models"
	"github.com/paiapp/backend-go/internal/rag"
	"github.com/paiapp/backend-go/internal/store"
)

// MockEmbedder 向量生成器Mock，用于注入向量化失败
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if v := args.Get(0); v != nil {
		return v.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if v := args.Get(0); v != nil {
		return v.([][]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockEmbedder) Dimensions() int { return 768 }
func (m *MockEmbedder) Ready() bool     { return true }

// MockDocumentStore 文档存储Mock，用于注入持久化失败
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, id string) (*models.DocumentRecord, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.DocumentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDocumentStore) Put(ctx context.Context, record *models.DocumentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockObjectReader 对象存储读取Mock
type MockObjectReader struct {
	mock.Mock
}

func (m *MockObjectReader) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	args := m.Called(ctx, objectKey)
	if v := args.Get(0); v != nil {
		return v.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestIngestionPipeline(documents store.DocumentStore, objects ObjectReader) *IngestionPipeline {
	return NewIngestionPipeline(
		rag.NewExtractorManager(),
		rag.NewChunker(500),
		rag.NewHashEmbedder(768),
		documents,
		objects,
	)
}

func TestIngestionPipelineIngest(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	pipeline := newTestIngestionPipeline(documents, nil)

	// 1200字符按500切分：3个分块、3个768维向量
	rawText := strings.Repeat("a", 1200)
	doc := models.Document{ID: "doc-1", Owner: "user-1", Filename: "doc.txt"}

	record, err := pipeline.Ingest(context.Background(), rawText, doc)
	require.NoError(t, err)

	assert.Equal(t, models.StatusProcessed, record.Status)
	assert.Equal(t, 3, record.ChunkCount)
	assert.Equal(t, 1200, record.TextLength)
	require.Len(t, record.Fragments, 3)
	require.Len(t, record.Vectors, 3)
	for _, vector := range record.Vectors {
		assert.Len(t, vector, 768)
	}

	// 记录已经可以被查询侧读到
	stored, err := documents.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, record.Fragments, stored.Fragments)
	assert.Equal(t, models.StatusProcessed, stored.Status)
}

func TestIngestionPipelineIngestEmptyText(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	pipeline := newTestIngestionPipeline(documents, nil)

	record, err := pipeline.Ingest(context.Background(), "", models.Document{ID: "doc-empty"})
	require.NoError(t, err)

	// 空文本产生零个分块的Processed记录
	assert.Equal(t, models.StatusProcessed, record.Status)
	assert.Equal(t, 0, record.ChunkCount)
	assert.Empty(t, record.Fragments)
}

func TestIngestionPipelineEmbeddingFailure(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	embedder := new(MockEmbedder)
	embedder.On("EmbedAll", mock.Anything, mock.Anything).Return(nil, errors.New("embedding backend down"))

	pipeline := NewIngestionPipeline(rag.NewExtractorManager(), rag.NewChunker(500), embedder, documents, nil)

	record, err := pipeline.Ingest(context.Background(), "some text", models.Document{ID: "doc-fail"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding backend down")

	// 失败时写入Failed记录并保留错误信息
	assert.Equal(t, models.StatusFailed, record.Status)
	assert.Contains(t, record.Error, "embedding backend down")

	stored, getErr := documents.Get(context.Background(), "doc-fail")
	require.NoError(t, getErr)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusFailed, stored.Status)
}

func TestIngestionPipelineFailureRecordWriteSwallowed(t *testing.T) {
	// 存储完全不可用：Processed写入失败，Failed记录写入也失败
	documents := new(MockDocumentStore)
	documents.On("Put", mock.Anything, mock.Anything).Return(errors.New("store unavailable"))

	pipeline := newTestIngestionPipeline(documents, nil)

	record, err := pipeline.Ingest(context.Background(), "some text", models.Document{ID: "doc-swallow"})
	require.Error(t, err)

	// 原始错误原样返回，Failed记录写入失败只记日志不升级
	assert.Contains(t, err.Error(), "persisting record failed")
	assert.Equal(t, models.StatusFailed, record.Status)
	documents.AssertNumberOfCalls(t, "Put", 2)
}

func TestIngestionPipelineIngestReader(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	pipeline := newTestIngestionPipeline(documents, nil)

	// 直传路径：文件内容在内存中，不经过对象存储回读
	doc := models.Document{
		ID:         "doc-direct",
		Owner:      "user-1",
		Filename:   "notes.txt",
		StorageKey: "uploads/user-1/doc-direct_notes.txt",
	}
	record, err := pipeline.IngestReader(context.Background(), strings.NewReader("direct upload content"), doc)
	require.NoError(t, err)

	assert.Equal(t, models.StatusProcessed, record.Status)
	assert.Equal(t, 1, record.ChunkCount)
	assert.Equal(t, "direct upload content", record.Fragments[0])

	stored, err := documents.Get(context.Background(), "doc-direct")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusProcessed, stored.Status)
}

func TestIngestionPipelineIngestReaderUnsupportedFile(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	pipeline := newTestIngestionPipeline(documents, nil)

	record, err := pipeline.IngestReader(context.Background(), strings.NewReader("data"),
		models.Document{ID: "doc-bad-ext", Filename: "image.png"})
	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, record.Status)
	assert.Contains(t, record.Error, "text extraction failed")
}

func TestIngestionPipelineIngestStored(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	objects := new(MockObjectReader)
	objects.On("GetObject", mock.Anything, "uploads/user-1/doc-2_notes.txt").
		Return(io.NopCloser(strings.NewReader("plain text content")), nil)

	pipeline := newTestIngestionPipeline(documents, objects)

	doc := models.Document{
		ID:         "doc-2",
		Owner:      "user-1",
		Filename:   "notes.txt",
		StorageKey: "uploads/user-1/doc-2_notes.txt",
	}
	record, err := pipeline.IngestStored(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, models.StatusProcessed, record.Status)
	assert.Equal(t, 1, record.ChunkCount)
	assert.Equal(t, "plain text content", record.Fragments[0])
}

func TestIngestionPipelineIngestStoredObjectMissing(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	objects := new(MockObjectReader)
	objects.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("object not found"))

	pipeline := newTestIngestionPipeline(documents, objects)

	record, err := pipeline.IngestStored(context.Background(), models.Document{ID: "doc-3", StorageKey: "uploads/x"})
	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, record.Status)
	assert.Contains(t, record.Error, "fetching object failed")
}

func TestIngestionPipelineIngestStoredWithoutStorage(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	pipeline := newTestIngestionPipeline(documents, nil)

	record, err := pipeline.IngestStored(context.Background(), models.Document{ID: "doc-4"})
	require.Error(t, err)
	assert.Equal(t, models.StatusFailed, record.Status)
}
