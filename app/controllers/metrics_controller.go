package controllers

import (
	"github.com/paiapp/backend-go/internal/services"
)

// MetricsController Prometheus指标控制器
type MetricsController struct {
	BaseController
	metrics *services.MetricsService
}

// NewMetricsController 创建指标控制器
func NewMetricsController(metrics *services.MetricsService) *MetricsController {
	return &MetricsController{metrics: metrics}
}

func (c *MetricsController) Prepare() {
	if c.metrics == nil {
		c.metrics = deps.Metrics
	}
}

// Metrics 输出Prometheus指标
func (c *MetricsController) Metrics() {
	c.metrics.Handler().ServeHTTP(c.Ctx.ResponseWriter, c.Ctx.Request)
}
