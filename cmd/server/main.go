package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	mqcontracts "github.com/PradyunT/catapult-project/contracts/mq"
	"github.com/PradyunT/catapult-project/internal/handler"
	"github.com/PradyunT/catapult-project/internal/httpserver"
	"github.com/PradyunT/catapult-project/internal/mqhandler"
	"github.com/PradyunT/catapult-project/internal/repository"
	"github.com/PradyunT/catapult-project/internal/scraper"
	"github.com/PradyunT/catapult-project/internal/service/planner"
	"github.com/PradyunT/catapult-project/internal/util"
	"github.com/PradyunT/catapult-project/pkg/config"
	"github.com/PradyunT/catapult-project/pkg/db"
	"github.com/PradyunT/catapult-project/pkg/logger"
	"github.com/PradyunT/catapult-project/pkg/mq"
	"github.com/PradyunT/catapult-project/pkg/redis"
)

func main() {
	cfg, err := config.Load(config.GetEnv("CONFIG_DIR", "config"))
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting catapult-server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("calendar_url", cfg.Scraper.CalendarURL),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis
	rdb := redis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	taskRepo := repository.NewTaskRepository(dbConn, log)
	spaceRepo := repository.NewSpaceRepository(dbConn, log)
	scheduleRepo := repository.NewScheduleRepository(dbConn, log)
	settingRepo := repository.NewSettingRepository(dbConn, log)

	scrapeLock := util.NewDeduper(rdb, cfg.Scraper.OverallTimeout(), log)
	importDedup := util.NewDeduper(rdb, 24*time.Hour, log)

	// MQ（可选）：发布 tasks.scraped 并在后台导入
	var publisher *mq.Publisher
	var consumer *mq.Consumer
	if cfg.MQ.URL != "" && cfg.Scraper.PublishEvents {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		defer publisher.Close()

		consumer, err = mq.NewConsumer(cfg.MQ.URL, "tasks.scraped.q", mqcontracts.RoutingKeyTasksScraped, log)
		if err != nil {
			log.Fatal("Failed to init tasks.scraped consumer", zap.Error(err))
		}
		defer consumer.Close()

		scrapedHandler := mqhandler.NewTasksScrapedHandler(taskRepo, importDedup, log)
		consumer.SetHandler(scrapedHandler.Handle)

		go func() {
			log.Info("Starting tasks.scraped consumer...")
			if err := consumer.StartConsuming(); err != nil {
				log.Fatal("tasks.scraped consumer failed", zap.Error(err))
			}
		}()
	}

	// Scraper
	assignmentScraper := scraper.NewScraper(
		scraper.Config{
			CalendarURL:  cfg.Scraper.CalendarURL,
			LoginTimeout: cfg.Scraper.LoginTimeout(),
			SettleDelay:  cfg.Scraper.SettleDelay(),
			RowsTimeout:  cfg.Scraper.RowsTimeout(),
		},
		scraper.NewChromeFactory(scraper.ChromeOptions{Headless: cfg.Scraper.Headless}),
		log.Named("scraper"),
	)

	// Planner
	plannerClient := planner.NewClient(cfg.AI, log.Named("planner"))

	handlers := httpserver.Handlers{
		Task:     handler.NewTaskHandler(taskRepo, log),
		Space:    handler.NewSpaceHandler(spaceRepo, log),
		Schedule: handler.NewScheduleHandler(scheduleRepo, log),
		Setting:  handler.NewSettingHandler(settingRepo, log),
		Plan:     handler.NewPlanHandler(plannerClient, taskRepo, log),
		Scrape: handler.NewScrapeHandler(
			assignmentScraper,
			scrapeLock,
			scrapePublisher(publisher),
			cfg.Scraper.OverallTimeout(),
			log,
		),
	}

	// MQ 就绪检查：连接掉了 /readyz 要能看出来
	var mqReady func() bool
	if publisher != nil {
		pub, cons := publisher, consumer
		mqReady = func() bool { return pub.IsConnected() && cons.IsConnected() }
	}

	router := httpserver.NewRouter(handlers, log, dbConn, mqReady, cfg.JWT.Secret)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("catapult-server is fully initialized and running",
		zap.String("http_port", port),
		zap.Bool("mq_enabled", publisher != nil),
	)

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down catapult-server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("catapult-server shutdown complete")
}

// scrapePublisher keeps the handler's publisher nil when MQ is disabled,
// avoiding a non-nil interface wrapping a nil pointer.
func scrapePublisher(p *mq.Publisher) handler.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
