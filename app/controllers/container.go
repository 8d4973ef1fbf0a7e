package controllers

import (
	"github.com/paiapp/backend-go/internal/services"
	"github.com/paiapp/backend-go/internal/store"
)

// Deps 控制器依赖集合
// Beego按请求重建控制器实例，依赖在bootstrap阶段注入一次，
// 控制器在Prepare中取用
type Deps struct {
	Uploads   *services.UploadService
	Ingestion *services.IngestionPipeline
	Queries   *services.QueryPipeline
	Documents store.DocumentStore
	Metrics   *services.MetricsService
}

var deps Deps

// Setup 注入控制器依赖，必须在路由注册前调用
func Setup(d Deps) {
	deps = d
}
