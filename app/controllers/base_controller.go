package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/beego/beego/v2/server/web"

	apperrors "github.com/paiapp/backend-go/internal/errors"
)

// BaseController provides helpers for consistent JSON responses.
type BaseController struct {
	web.Controller
}

// JSON writes a JSON response with the supplied HTTP status code.
func (c *BaseController) JSON(status int, payload interface{}) {
	c.Ctx.Output.SetStatus(status)
	c.Data["json"] = payload
	c.ServeJSON()
}

// JSONError writes an error envelope with message.
func (c *BaseController) JSONError(status int, message string) {
	c.JSON(status, map[string]interface{}{
		"error": message,
	})
}

// JSONAppError 按错误分类渲染错误响应
// 只有未分类的系统错误才附带debug_info
func (c *BaseController) JSONAppError(err error) {
	appErr := apperrors.GetAppError(err)

	payload := map[string]interface{}{
		"error":      appErr.Message,
		"error_type": string(appErr.Code),
	}
	if appErr.Code == apperrors.ErrCodeInternalServer {
		payload["debug_info"] = appErr.Details
	}
	c.JSON(appErr.HTTPCode, payload)
}

// parseBody 解析JSON请求体
func (c *BaseController) parseBody(target interface{}) bool {
	if err := json.Unmarshal(c.Ctx.Input.RequestBody, target); err != nil {
		c.JSONError(http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// getOwner 获取请求方身份
// 认证策略不在本服务范围内，只透传网关写入的用户头
func (c *BaseController) getOwner() string {
	if owner := c.Ctx.Input.Header("X-User-Id"); owner != "" {
		return owner
	}
	return "anonymous"
}
