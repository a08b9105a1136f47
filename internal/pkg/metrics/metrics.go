// Package metrics 定义 Prometheus 指标。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal 按方法/路由/状态码统计的请求计数。
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration 请求耗时分布。
	HTTPRequestDuration *prometheus.HistogramVec
	// TaskTransitionsTotal 按起止状态统计的任务状态转移计数。
	TaskTransitionsTotal *prometheus.CounterVec
	// VerifyCodeSendsTotal 验证码发送计数。
	VerifyCodeSendsTotal prometheus.Counter
	// VerifyCodeThrottledTotal 被限流拒绝的验证码发送计数。
	VerifyCodeThrottledTotal prometheus.Counter

	initOnce sync.Once
)

// InitMetrics 创建并注册全部指标，重复调用是安全的。
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answerhub_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"})

		HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "answerhub_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

		TaskTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answerhub_task_transitions_total",
			Help: "Total number of task status transitions.",
		}, []string{"from", "to"})

		VerifyCodeSendsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "answerhub_verify_code_sends_total",
			Help: "Total number of verification code emails sent.",
		})

		VerifyCodeThrottledTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "answerhub_verify_code_throttled_total",
			Help: "Total number of verification code sends rejected by the rate limiter.",
		})

		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			TaskTransitionsTotal,
			VerifyCodeSendsTotal,
			VerifyCodeThrottledTotal,
		)
	})
}
