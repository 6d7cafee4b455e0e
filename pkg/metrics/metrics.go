package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// 抓取流水线时长（秒），含人工登录等待
	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Assignment scrape pipeline duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~17min
		},
		[]string{"outcome"}, // outcome: success, login_timeout, no_rows, error
	)

	// 抓取行计数
	ScrapeRowCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_row_count",
			Help: "Total number of assignment rows seen by the scraper",
		},
		[]string{"result"}, // result: accepted, skipped
	)

	// 任务生成计数
	TaskGenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_generation_count",
			Help: "Total number of tasks generated",
		},
		[]string{"source"}, // source: manual, scrape, plan
	)

	// Gemini 调用延迟（毫秒）
	PlannerCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planner_call_latency_ms",
			Help:    "Planner (Gemini) call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"operation", "status"},
	)
)

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordScrapeDuration 记录抓取流水线时长
func RecordScrapeDuration(outcome string, duration time.Duration) {
	ScrapeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// AddScrapeRows 记录抓取行结果计数
func AddScrapeRows(result string, n int) {
	ScrapeRowCount.WithLabelValues(result).Add(float64(n))
}

// IncrementTaskGeneration 增加任务生成计数
func IncrementTaskGeneration(source string) {
	TaskGenerationCount.WithLabelValues(source).Inc()
}

// RecordPlannerCallLatency 记录 Gemini 调用延迟
func RecordPlannerCallLatency(operation, status string, duration time.Duration) {
	PlannerCallLatency.WithLabelValues(operation, status).Observe(float64(duration.Milliseconds()))
}
