package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/PradyunT/catapult-project/internal/handler"
	"github.com/PradyunT/catapult-project/pkg/metrics"
)

type Handlers struct {
	Task     *handler.TaskHandler
	Space    *handler.SpaceHandler
	Schedule *handler.ScheduleHandler
	Setting  *handler.SettingHandler
	Plan     *handler.PlanHandler
	Scrape   *handler.ScrapeHandler
}

// Pinger is the readiness view of the DB pool. Satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter builds the gin engine. mqReady reports broker health for
// /readyz; pass nil when MQ is disabled.
func NewRouter(h Handlers, logger *zap.Logger, db Pinger, mqReady func() bool, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 请求日志 + 指标中间件
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		if mqReady != nil && !mqReady() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(AuthRequired(jwtSecret, logger))

	api.POST("/scrape-assignments", h.Scrape.ScrapeAssignments)

	api.GET("/tasks", h.Task.ListTasks)
	api.POST("/tasks", h.Task.CreateTask)
	api.PATCH("/tasks/:id", h.Task.UpdateTask)
	api.DELETE("/tasks/:id", h.Task.DeleteTask)

	api.GET("/spaces", h.Space.ListSpaces)
	api.POST("/spaces", h.Space.CreateSpace)
	api.GET("/spaces/:id", h.Space.GetSpace)
	api.PATCH("/spaces/:id", h.Space.UpdateSpace)
	api.DELETE("/spaces/:id", h.Space.DeleteSpace)
	api.GET("/spaces/:id/task-count", h.Space.TaskCount)

	api.GET("/schedule", h.Schedule.ListSchedule)
	api.POST("/schedule", h.Schedule.CreateScheduleItem)
	api.PATCH("/schedule/:id", h.Schedule.UpdateScheduleItem)
	api.DELETE("/schedule/:id", h.Schedule.DeleteScheduleItem)

	api.GET("/settings/:key", h.Setting.GetSetting)
	api.PUT("/settings/:key", h.Setting.PutSetting)

	api.POST("/generate-plan", h.Plan.GeneratePlan)
	api.POST("/chat", h.Plan.Chat)

	return r
}
