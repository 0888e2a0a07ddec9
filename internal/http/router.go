package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/nurpe/balance-ledger/internal/http/middleware"
)

type RouterConfig struct {
	Environment    string
	ServiceName    string
	AllowedOrigins []string
}

func NewRouter(handler *Handler, authMiddleware, adminMiddleware, idempotency gin.HandlerFunc, cfg RouterConfig, log zerolog.Logger) *gin.Engine {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(cfg.ServiceName),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.AllowedOrigins),
	)

	handler.Register(router, authMiddleware, adminMiddleware, idempotency)
	return router
}
