package models

// DocumentStatus 文档处理状态
type DocumentStatus string

const (
	StatusPending   DocumentStatus = "pending"
	StatusProcessed DocumentStatus = "processed"
	StatusFailed    DocumentStatus = "failed"
)

// Document 文档身份信息，摄取开始时创建，之后不可变
type Document struct {
	ID         string `json:"doc_id"`
	Owner      string `json:"user_id"`
	Filename   string `json:"filename"`
	StorageKey string `json:"storage_key"`
}

// DocumentRecord 持久化的文档记录
// Processed状态下必须满足 len(Fragments) == len(Vectors)
type DocumentRecord struct {
	Document
	Fragments  []string       `json:"chunks,omitempty"`
	Vectors    [][]float32    `json:"embeddings,omitempty"`
	Status     DocumentStatus `json:"status"`
	Error      string         `json:"error,omitempty"`
	TextLength int            `json:"text_length,omitempty"`
	ChunkCount int            `json:"chunk_count,omitempty"`
}
