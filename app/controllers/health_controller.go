package controllers

import "net/http"

// RootController 服务信息
type RootController struct {
	BaseController
}

// Index 返回服务基本信息
func (c *RootController) Index() {
	c.JSON(http.StatusOK, map[string]interface{}{
		"service": "pai-backend",
		"status":  "running",
	})
}

// HealthController 健康检查
type HealthController struct {
	BaseController
}

// Health 健康检查端点
func (c *HealthController) Health() {
	c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
