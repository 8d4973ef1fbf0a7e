package store

import (
	"context"

	"github.com/paiapp/backend-go/internal/models"
)

// DocumentStore 文档记录的键值持久化抽象
// 单键读写、整条覆盖：读方只会看到旧状态或完整的新状态，不存在半写入
type DocumentStore interface {
	// Get 按文档ID读取记录，记录不存在时返回 (nil, nil)
	Get(ctx context.Context, id string) (*models.DocumentRecord, error)
	// Put 整条写入记录，覆盖同ID的旧记录
	Put(ctx context.Context, record *models.DocumentRecord) error
}
