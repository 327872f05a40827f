package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lisa/cmd/api/handlers"
	"lisa/cmd/api/middleware"
	"lisa/cmd/api/services"
	"lisa/cmd/api/web"
	_ "lisa/docs"
)

// Deps 는 라우터가 필요로 하는 서비스 묶음이다. main 에서 조립해 넘긴다.
type Deps struct {
	Chat               *services.ChatService
	Status             handlers.StatusReporter
	CORSAllowedOrigins []string
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.RequestTrace(), middleware.CORS(deps.CORSAllowedOrigins))

	r.GET("/health", handlers.HealthHandler(deps.Status))

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.POST("/chat", handlers.ChatHandler(deps.Chat))
		api.GET("/rag-status", handlers.RAGStatusHandler(deps.Status))
	}

	web.Register(r)

	return r
}
