package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paiapp/backend-go/internal/logger"
	"github.com/paiapp/backend-go/internal/models"
	"github.com/paiapp/backend-go/internal/storage"
	"github.com/paiapp/backend-go/internal/store"
)

// ObjectPresigner 签发限时上传地址
type ObjectPresigner interface {
	PresignedPutURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

// ObjectWriter 直接写入对象存储
type ObjectWriter interface {
	PutObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
}

// UploadTicket 上传凭证：文档ID与限时上传地址
type UploadTicket struct {
	DocID      string `json:"doc_id"`
	UploadURL  string `json:"upload_url"`
	StorageKey string `json:"storage_key"`
	ExpiresIn  int    `json:"expires_in"`
}

// UploadService 负责文档上传入口：预签名地址与服务端直传
type UploadService struct {
	presigner ObjectPresigner
	writer    ObjectWriter
	documents store.DocumentStore
	expiry    time.Duration
}

// NewUploadService 创建上传服务
func NewUploadService(presigner ObjectPresigner, writer ObjectWriter, documents store.DocumentStore, expiry time.Duration) *UploadService {
	if expiry <= 0 {
		expiry = 5 * time.Minute
	}
	return &UploadService{
		presigner: presigner,
		writer:    writer,
		documents: documents,
		expiry:    expiry,
	}
}

// CreateUpload 生成文档ID、签发限时上传地址并写入Pending记录
func (s *UploadService) CreateUpload(ctx context.Context, owner, filename string) (*UploadTicket, error) {
	if filename == "" {
		filename = "document.pdf"
	}
	if owner == "" {
		owner = "anonymous"
	}

	docID := uuid.NewString()
	objectKey := storage.BuildObjectKey(owner, docID, filename)

	uploadURL, err := s.presigner.PresignedPutURL(ctx, objectKey, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("issuing upload url failed: %w", err)
	}

	record := &models.DocumentRecord{
		Document: models.Document{
			ID:         docID,
			Owner:      owner,
			Filename:   filename,
			StorageKey: objectKey,
		},
		Status: models.StatusPending,
	}

	putCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := s.documents.Put(putCtx, record); err != nil {
		return nil, fmt.Errorf("registering pending record failed: %w", err)
	}

	logger.Info("Issued upload url",
		zap.String("doc_id", docID),
		zap.String("storage_key", objectKey))

	return &UploadTicket{
		DocID:      docID,
		UploadURL:  uploadURL,
		StorageKey: objectKey,
		ExpiresIn:  int(s.expiry.Seconds()),
	}, nil
}

// StoreUpload 服务端直传：生成文档ID并把文件内容写入对象存储
// 记录由随后的摄取流水线一次写入，直传路径不登记Pending记录
func (s *UploadService) StoreUpload(ctx context.Context, owner, filename string, content []byte, contentType string) (models.Document, error) {
	if filename == "" {
		filename = "document.pdf"
	}
	if owner == "" {
		owner = "anonymous"
	}
	if contentType == "" {
		contentType = "application/pdf"
	}

	doc := models.Document{
		ID:       uuid.NewString(),
		Owner:    owner,
		Filename: filename,
	}
	doc.StorageKey = storage.BuildObjectKey(owner, doc.ID, filename)

	err := s.writer.PutObject(ctx, doc.StorageKey, bytes.NewReader(content), int64(len(content)), contentType)
	if err != nil {
		return models.Document{}, fmt.Errorf("storing upload failed: %w", err)
	}

	logger.Info("Stored direct upload",
		zap.String("doc_id", doc.ID),
		zap.String("storage_key", doc.StorageKey),
		zap.Int("size", len(content)))

	return doc, nil
}
