package services

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 核心流水线指标
var (
	ingestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pai_ingestions_total",
		Help: "Document ingestions by outcome.",
	}, []string{"status"})

	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pai_queries_total",
		Help: "Retrieval-augmented queries by outcome.",
	}, []string{"status"})
)

// MetricsService 指标服务
type MetricsService struct{}

// NewMetricsService 创建指标服务
func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// Handler 返回Prometheus指标的HTTP处理器
func (ms *MetricsService) Handler() http.Handler {
	return promhttp.Handler()
}
