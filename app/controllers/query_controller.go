package controllers

import (
	"net/http"

	"github.com/paiapp/backend-go/internal/services"
)

// QueryController 文档问答控制器
type QueryController struct {
	BaseController
	queries *services.QueryPipeline
}

// NewQueryController 创建问答控制器
func NewQueryController(queries *services.QueryPipeline) *QueryController {
	return &QueryController{queries: queries}
}

func (c *QueryController) Prepare() {
	if c.queries == nil {
		c.queries = deps.Queries
	}
}

// QueryRequest 问答请求
type QueryRequest struct {
	DocID    string `json:"doc_id"`
	Question string `json:"question"`
}

// Post 针对指定文档回答问题
func (c *QueryController) Post() {
	var req QueryRequest
	if !c.parseBody(&req) {
		return
	}

	result, err := c.queries.Answer(c.Ctx.Request.Context(), req.DocID, req.Question)
	if err != nil {
		c.JSONAppError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
