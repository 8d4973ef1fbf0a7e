package store

import (
	"context"
	"errors"
	"sync"

	"github.com/paiapp/backend-go/internal/models"
)

// MemoryDocumentStore 内存实现的文档记录存储，用于测试和本地开发
type MemoryDocumentStore struct {
	mu      sync.RWMutex
	records map[string]models.DocumentRecord
}

// NewMemoryDocumentStore 创建内存文档存储
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{records: make(map[string]models.DocumentRecord)}
}

func (s *MemoryDocumentStore) Get(ctx context.Context, id string) (*models.DocumentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	// 返回副本，调用方不会穿透到存储内部状态
	copied := record
	copied.Fragments = append([]string(nil), record.Fragments...)
	copied.Vectors = append([][]float32(nil), record.Vectors...)
	return &copied, nil
}

func (s *MemoryDocumentStore) Put(ctx context.Context, record *models.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return errors.New("record with document id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ID] = *record
	return nil
}
