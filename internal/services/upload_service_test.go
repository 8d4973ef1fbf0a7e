package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/paiapp/backend-go/internal/models"
	"github.com/paiapp/backend-go/internal/store"
)

// MockPresigner 上传地址签发Mock
type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) PresignedPutURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

// MockObjectWriter 对象存储写入Mock
type MockObjectWriter struct {
	mock.Mock
}

func (m *MockObjectWriter) PutObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectKey, reader, size, contentType)
	return args.Error(0)
}

func TestUploadServiceCreateUpload(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	presigner := new(MockPresigner)
	presigner.On("PresignedPutURL", mock.Anything, mock.AnythingOfType("string"), 5*time.Minute).
		Return("https://minio.local/presigned", nil)

	service := NewUploadService(presigner, nil, documents, 5*time.Minute)
	ticket, err := service.CreateUpload(context.Background(), "user-1", "report.pdf")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(ticket.DocID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "https://minio.local/presigned", ticket.UploadURL)
	assert.Equal(t, fmt.Sprintf("uploads/user-1/%s_report.pdf", ticket.DocID), ticket.StorageKey)
	assert.Equal(t, 300, ticket.ExpiresIn)

	// Pending记录已经登记，等待处理接口消费
	record, err := documents.Get(context.Background(), ticket.DocID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Equal(t, "user-1", record.Owner)
	assert.Equal(t, "report.pdf", record.Filename)
	assert.Equal(t, ticket.StorageKey, record.StorageKey)
}

func TestUploadServiceDefaults(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	presigner := new(MockPresigner)
	presigner.On("PresignedPutURL", mock.Anything, mock.Anything, mock.Anything).
		Return("https://minio.local/presigned", nil)

	service := NewUploadService(presigner, nil, documents, 0)
	ticket, err := service.CreateUpload(context.Background(), "", "")
	require.NoError(t, err)

	// 缺省文件名与匿名用户
	record, err := documents.Get(context.Background(), ticket.DocID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "anonymous", record.Owner)
	assert.Equal(t, "document.pdf", record.Filename)
}

func TestUploadServicePresignFailure(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	presigner := new(MockPresigner)
	presigner.On("PresignedPutURL", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("storage unreachable"))

	service := NewUploadService(presigner, nil, documents, time.Minute)
	_, err := service.CreateUpload(context.Background(), "user-1", "report.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issuing upload url failed")
}

func TestUploadServiceStoreUpload(t *testing.T) {
	documents := store.NewMemoryDocumentStore()
	writer := new(MockObjectWriter)
	writer.On("PutObject", mock.Anything, mock.AnythingOfType("string"), mock.Anything, int64(11), "application/pdf").
		Return(nil)

	service := NewUploadService(nil, writer, documents, time.Minute)
	doc, err := service.StoreUpload(context.Background(), "user-1", "report.pdf", []byte("pdf content"), "application/pdf")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(doc.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "user-1", doc.Owner)
	assert.Equal(t, "report.pdf", doc.Filename)
	assert.Equal(t, fmt.Sprintf("uploads/user-1/%s_report.pdf", doc.ID), doc.StorageKey)
	writer.AssertNumberOfCalls(t, "PutObject", 1)

	// 直传路径不登记Pending记录，文档记录由摄取流水线一次写入
	record, err := documents.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestUploadServiceStoreUploadDefaults(t *testing.T) {
	writer := new(MockObjectWriter)
	writer.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "application/pdf").
		Return(nil)

	service := NewUploadService(nil, writer, store.NewMemoryDocumentStore(), time.Minute)
	doc, err := service.StoreUpload(context.Background(), "", "", []byte("data"), "")
	require.NoError(t, err)

	assert.Equal(t, "anonymous", doc.Owner)
	assert.Equal(t, "document.pdf", doc.Filename)
}

func TestUploadServiceStoreUploadFailure(t *testing.T) {
	writer := new(MockObjectWriter)
	writer.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("storage unreachable"))

	service := NewUploadService(nil, writer, store.NewMemoryDocumentStore(), time.Minute)
	_, err := service.StoreUpload(context.Background(), "user-1", "report.pdf", []byte("data"), "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing upload failed")
}
