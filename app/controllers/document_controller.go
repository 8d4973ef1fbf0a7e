package controllers

import (
	"bytes"
	"io"
	"net/http"

	"github.com/paiapp/backend-go/internal/models"
	"github.com/paiapp/backend-go/internal/services"
	"github.com/paiapp/backend-go/internal/store"
)

// DocumentController 文档上传与摄取控制器
type DocumentController struct {
	BaseController
	uploads   *services.UploadService
	ingestion *services.IngestionPipeline
	documents store.DocumentStore
}

// NewDocumentController 创建文档控制器
func NewDocumentController(
	uploads *services.UploadService,
	ingestion *services.IngestionPipeline,
	documents store.DocumentStore,
) *DocumentController {
	return &DocumentController{
		uploads:   uploads,
		ingestion: ingestion,
		documents: documents,
	}
}

func (c *DocumentController) Prepare() {
	if c.documents == nil {
		c.uploads = deps.Uploads
		c.ingestion = deps.Ingestion
		c.documents = deps.Documents
	}
}

// CreateUploadURLRequest 上传地址申请
type CreateUploadURLRequest struct {
	Filename string `json:"filename"`
}

// CreateUploadURL 签发限时上传地址并登记Pending记录
func (c *DocumentController) CreateUploadURL() {
	if c.uploads == nil {
		c.JSONError(http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	var req CreateUploadURLRequest
	if !c.parseBody(&req) {
		return
	}

	ticket, err := c.uploads.CreateUpload(c.Ctx.Request.Context(), c.getOwner(), req.Filename)
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Upload 服务端直传：上传文件并同步执行摄取流水线
// 与预签名两步流程等价，适合不便直连对象存储的客户端
func (c *DocumentController) Upload() {
	if c.uploads == nil {
		c.JSONError(http.StatusServiceUnavailable, "object storage not configured")
		return
	}

	file, header, err := c.GetFile("file")
	if err != nil {
		c.JSONError(http.StatusBadRequest, "No file content provided")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSONError(http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	ctx := c.Ctx.Request.Context()
	doc, err := c.uploads.StoreUpload(ctx, c.getOwner(), header.Filename, content, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSONAppError(err)
		return
	}

	record, err := c.ingestion.IngestReader(ctx, bytes.NewReader(content), doc)
	if err != nil {
		// 失败详情已写入Failed记录，响应只携带状态
		c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"doc_id": doc.ID,
			"status": record.Status,
			"error":  record.Error,
		})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"doc_id":      record.ID,
		"storage_key": record.StorageKey,
		"status":      record.Status,
		"chunk_count": record.ChunkCount,
		"text_length": record.TextLength,
	})
}

// Process 对已上传的对象执行摄取流水线
func (c *DocumentController) Process() {
	docID := c.Ctx.Input.Param(":doc_id")
	if docID == "" {
		c.JSONError(http.StatusBadRequest, "Missing doc_id")
		return
	}

	ctx := c.Ctx.Request.Context()
	record, err := c.documents.Get(ctx, docID)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	if record == nil {
		c.JSONError(http.StatusNotFound, "Document not found. Please check the document ID.")
		return
	}

	processed, err := c.ingestion.IngestStored(ctx, record.Document)
	if err != nil {
		// 失败详情已写入Failed记录，响应只携带状态
		c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"doc_id": docID,
			"status": processed.Status,
			"error":  processed.Error,
		})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"doc_id":      processed.ID,
		"status":      processed.Status,
		"chunk_count": processed.ChunkCount,
		"text_length": processed.TextLength,
	})
}

// Get 查询文档记录状态
func (c *DocumentController) Get() {
	docID := c.Ctx.Input.Param(":doc_id")
	if docID == "" {
		c.JSONError(http.StatusBadRequest, "Missing doc_id")
		return
	}

	record, err := c.documents.Get(c.Ctx.Request.Context(), docID)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	if record == nil {
		c.JSONError(http.StatusNotFound, "Document not found. Please check the document ID.")
		return
	}

	response := map[string]interface{}{
		"doc_id":   record.ID,
		"filename": record.Filename,
		"status":   record.Status,
	}
	if record.Status == models.StatusProcessed {
		response["chunk_count"] = record.ChunkCount
		response["text_length"] = record.TextLength
	}
	if record.Status == models.StatusFailed {
		response["error"] = record.Error
	}
	c.JSON(http.StatusOK, response)
}
