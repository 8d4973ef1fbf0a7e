package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiapp/backend-go/internal/models"
)

func TestMemoryDocumentStorePutGet(t *testing.T) {
	s := NewMemoryDocumentStore()
	ctx := context.Background()

	record := &models.DocumentRecord{
		Document:  models.Document{ID: "doc-1", Owner: "user-1", Filename: "doc.pdf"},
		Fragments: []string{"a", "b"},
		Vectors:   [][]float32{{0.1}, {0.2}},
		Status:    models.StatusProcessed,
	}
	require.NoError(t, s.Put(ctx, record))

	loaded, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record.Fragments, loaded.Fragments)
	assert.Equal(t, models.StatusProcessed, loaded.Status)

	// 返回的是副本，修改不影响存储内容
	loaded.Fragments[0] = "mutated"
	again, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Fragments[0])
}

func TestMemoryDocumentStoreGetMissing(t *testing.T) {
	s := NewMemoryDocumentStore()

	// 不存在的记录返回nil而不是错误
	record, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestMemoryDocumentStorePutOverwrite(t *testing.T) {
	s := NewMemoryDocumentStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &models.DocumentRecord{
		Document: models.Document{ID: "doc-1"},
		Status:   models.StatusPending,
	}))
	require.NoError(t, s.Put(ctx, &models.DocumentRecord{
		Document: models.Document{ID: "doc-1"},
		Status:   models.StatusFailed,
		Error:    "extraction failed",
	}))

	// 整条记录覆盖写入
	record, err := s.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, record.Status)
	assert.Equal(t, "extraction failed", record.Error)
}

func TestMemoryDocumentStorePutInvalid(t *testing.T) {
	s := NewMemoryDocumentStore()

	assert.Error(t, s.Put(context.Background(), nil))
	assert.Error(t, s.Put(context.Background(), &models.DocumentRecord{}))
}
