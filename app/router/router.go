package router

import (
	"github.com/beego/beego/v2/server/web"

	"github.com/paiapp/backend-go/app/controllers"
)

// Init registers all routes. Must be called after controllers.Setup.
func Init() {
	web.Router("/", &controllers.RootController{}, "get:Index")
	web.Router("/health", &controllers.HealthController{}, "get:Health")
	web.Router("/metrics", &controllers.MetricsController{}, "get:Metrics")

	// 文档上传与摄取
	documentController := &controllers.DocumentController{}
	web.Router("/api/documents/upload", documentController, "post:Upload")
	web.Router("/api/documents/upload-url", documentController, "post:CreateUploadURL")
	web.Router("/api/documents/:doc_id", documentController, "get:Get")
	web.Router("/api/documents/:doc_id/process", documentController, "post:Process")

	// 文档问答
	web.Router("/api/query", &controllers.QueryController{}, "post:Post")
}
