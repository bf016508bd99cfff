package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"bearcart-analytics/internal/application/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	errCodeBadRequest          = "BAD_REQUEST"
	errCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	errCodeSnapshotNotReady    = "SNAPSHOT_NOT_READY"
	errCodeNotFound            = "NOT_FOUND"
	errCodeInternal            = "INTERNAL_ERROR"
)

// Pinger 為可檢查連線狀態的外部依賴。
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies 為 API 所需的元件；DB、Redis、Upstream 可為 nil，代表未啟用。
type Dependencies struct {
	Dashboard  *dashboard.UseCase
	Loader     *dashboard.Loader
	DB         *sql.DB
	Redis      *redis.Client
	Upstream   Pinger
	SourceName string
	Log        logrus.FieldLogger
}

// Server 封裝 HTTP 路由與依賴。
type Server struct {
	engine     *gin.Engine
	dashboard  *dashboard.UseCase
	loader     *dashboard.Loader
	db         *sql.DB
	redis      *redis.Client
	upstream   Pinger
	sourceName string
	log        logrus.FieldLogger
}

// NewServer 建立 API 伺服器並註冊路由。
func NewServer(deps Dependencies) *Server {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	sourceName := deps.SourceName
	if sourceName == "" {
		sourceName = "memory"
	}
	s := &Server{
		engine:     gin.New(),
		dashboard:  deps.Dashboard,
		loader:     deps.Loader,
		db:         deps.DB,
		redis:      deps.Redis,
		upstream:   deps.Upstream,
		sourceName: sourceName,
		log:        log,
	}
	s.registerRoutes()
	return s
}

// Handler 回傳路由處理器，供 HTTP server 掛載。
func (s *Server) Handler() http.Handler {
	return s.engine
}
