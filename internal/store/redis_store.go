package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/paiapp/backend-go/internal/models"
)

const documentKeyPrefix = "pai:document:"

// RedisDocumentStore Redis实现的文档记录存储
// 记录序列化为JSON后整条SET，天然满足单键原子覆盖语义
type RedisDocumentStore struct {
	client *redis.Client
}

// NewRedisDocumentStore 创建Redis文档存储
func NewRedisDocumentStore(client *redis.Client) (*RedisDocumentStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	return &RedisDocumentStore{client: client}, nil
}

// Get 读取文档记录，键不存在时返回 (nil, nil)
func (s *RedisDocumentStore) Get(ctx context.Context, id string) (*models.DocumentRecord, error) {
	data, err := s.client.Get(ctx, documentKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read document record: %w", err)
	}

	var record models.DocumentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode document record: %w", err)
	}
	return &record, nil
}

// Put 整条写入文档记录
func (s *RedisDocumentStore) Put(ctx context.Context, record *models.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return errors.New("record with document id is required")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode document record: %w", err)
	}

	// 记录不过期：删除属于存储策略，不在核心职责内
	if err := s.client.Set(ctx, documentKey(record.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write document record: %w", err)
	}
	return nil
}

func documentKey(id string) string {
	return documentKeyPrefix + id
}
