package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"answerhub/internal/api/auth"
	"answerhub/internal/api/middleware"
	"answerhub/internal/config"
	"answerhub/internal/model"
	"answerhub/internal/pkg/metrics"
	"answerhub/internal/pkg/notify"
	"answerhub/internal/pkg/ratelimit"
	"answerhub/internal/pkg/verifycode"
	"answerhub/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 它持有数据库连接、Redis 客户端、各 usecase 以及 Gin 路由引擎。
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	rdb    *redis.Client
	router *gin.Engine

	questions *usecase.QuestionUsecase
	answers   *usecase.AnswerUsecase
	tasks     *usecase.TaskUsecase
	auth      *auth.Handler
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 连接 MySQL 数据库并执行自动迁移
// 2. 连接 Redis（验证码存储与发送限流）
// 3. 初始化各 usecase 与 Gin 路由引擎
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent), // 关闭GORM调试日志
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Question{}, &model.Answer{}, &model.Task{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	metrics.InitMetrics()

	emailNotifier := notify.NewEmailNotifier(&cfg.Email, logger)
	codeStore := verifycode.NewStore(rdb, cfg.Auth.VerifyCodeTTL)
	codeLimiter := ratelimit.NewRedisRateLimiter(rdb, "answerhub:ratelimit:code:", cfg.Auth.ResendRate, cfg.Auth.ResendBurst)
	authUsecase := usecase.NewAuth(&cfg.Auth, codeStore, emailNotifier, codeLimiter, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		rdb:       rdb,
		router:    r,
		questions: usecase.NewQuestion(logger),
		answers:   usecase.NewAnswer(logger),
		tasks:     usecase.NewTask(logger),
		auth:      auth.NewHandler(db, authUsecase, logger),
	}
	s.registerRoutes()
	return s, nil
}

// Run 启动 HTTP 服务器并开始监听请求。
func (s *Server) Run() error {
	s.logger.Info("api server listening", slog.String("addr", s.cfg.App.HTTPAddr))
	return s.router.Run(s.cfg.App.HTTPAddr)
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// Close 释放服务器持有的资源。
func (s *Server) Close() error {
	if s.rdb != nil {
		if err := s.rdb.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// registerRoutes 注册全部路由。
func (s *Server) registerRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)

	authGroup := s.router.Group("/auth")
	authGroup.POST("/register", s.auth.Register)
	authGroup.POST("/login", s.auth.Login)
	authGroup.POST("/send/:email/code", s.auth.SendEmailCode)
	authGroup.POST("/verify/:email/:code", s.auth.VerifyEmail)

	s.router.GET("/questions", s.handleListQuestions)
	s.router.POST("/questions", s.handleCreateQuestion)
	s.router.GET("/questions/:id", s.handleGetQuestion)
	s.router.DELETE("/questions/:id", s.handleDeleteQuestion)
	s.router.POST("/questions/:id/answers", s.handleCreateAnswer)
	s.router.GET("/answers/:id", s.handleGetAnswer)
	s.router.DELETE("/answers/:id", s.handleDeleteAnswer)

	authed := s.router.Group("/", middleware.AuthMiddleware(s.cfg.Auth.JWTSecret))
	authed.GET("/user/me", s.auth.Me)
	authed.POST("/task", s.handleCreateTask)
	authed.GET("/task/list", s.handleListTasks)
	authed.GET("/task/:id", s.handleGetTask)
	authed.PATCH("/task/:id", s.handleUpdateTask)
	authed.DELETE("/task/:id", s.handleDeleteTask)
	authed.GET("/task/transitions/:id", s.handleGetTransitions)
	authed.PATCH("/task/transitions/:id/:status", s.handleUpdateTaskStatus)
}

func (s *Server) handleHealthz(c *gin.Context) {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
	}
	if s.rdb != nil {
		if err := s.rdb.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// abortError 将业务错误映射到 HTTP 响应。
func (s *Server) abortError(c *gin.Context, err error) {
	var ue *usecase.Error
	if errors.As(err, &ue) {
		c.JSON(ue.Status, gin.H{"error": ue.Message})
		return
	}
	if s.logger != nil {
		s.logger.Error("request failed",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// parseIDParam 解析路径中的数字 ID，非法时返回 false 并已写出响应。
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
