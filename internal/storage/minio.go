package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/paiapp/backend-go/internal/config"
)

// ObjectStorage 对象存储服务，保存上传的原始文档
type ObjectStorage struct {
	client *minio.Client
	config config.ObjectStorageConfig
}

// NewObjectStorage 创建MinIO对象存储服务实例
func NewObjectStorage(cfg config.ObjectStorageConfig) (*ObjectStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint not configured")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "pai-pdf-storage"
	}

	// minio.New 不接受带协议的endpoint
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	service := &ObjectStorage{
		client: client,
		config: cfg,
	}

	// 确保bucket存在
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil && !bucketAlreadyExists(err) {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}

	return service, nil
}

// bucketAlreadyExists 按服务端错误码判断bucket是否已存在，不检查错误文本
func bucketAlreadyExists(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists"
}

// BuildObjectKey 构造上传对象键：uploads/{owner}/{docID}_{filename}
func BuildObjectKey(owner, docID, filename string) string {
	return fmt.Sprintf("uploads/%s/%s_%s", owner, docID, filename)
}

// PresignedPutURL 签发限时上传地址
func (s *ObjectStorage) PresignedPutURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = 5 * time.Minute
	}

	url, err := s.client.PresignedPutObject(ctx, s.config.Bucket, objectKey, expires)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload url: %w", err)
	}
	return url.String(), nil
}

// GetObject 读取已上传对象
func (s *ObjectStorage) GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.config.Bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", objectKey, err)
	}
	return object, nil
}

// PutObject 直接上传对象（绕过预签名直传时使用）
func (s *ObjectStorage) PutObject(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.config.Bucket, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", objectKey, err)
	}
	return nil
}
