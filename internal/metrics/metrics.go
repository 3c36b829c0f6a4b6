// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordQuestionActivated()
	RecordActivationSkipped(reason string)
	RecordAnswerSubmitted()
	RecordDailyCreated()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess      prometheus.Counter
	loginFail         prometheus.Counter
	questionActivated prometheus.Counter
	activationSkipped *prometheus.CounterVec
	answersSubmitted  prometheus.Counter
	dailiesCreated    prometheus.Counter
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famnote_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famnote_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		questionActivated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famnote_question_activated_total",
			Help: "活性化された日替わり質問の合計数",
		}),
		activationSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "famnote_activation_skipped_total",
			Help: "質問活性化がスキップされた回数（理由別）",
		}, []string{"reason"}),
		answersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famnote_answers_submitted_total",
			Help: "投稿された回答の合計数",
		}),
		dailiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "famnote_dailies_created_total",
			Help: "作成された日記の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "famnote_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "famnote_request_latency_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.questionActivated,
		c.activationSkipped,
		c.answersSubmitted,
		c.dailiesCreated,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordQuestionActivated は質問の活性化を記録する。
func (c *Collector) RecordQuestionActivated() {
	c.questionActivated.Inc()
}

// RecordActivationSkipped は活性化スキップを理由付きで記録する。
func (c *Collector) RecordActivationSkipped(reason string) {
	c.activationSkipped.WithLabelValues(reason).Inc()
}

// RecordAnswerSubmitted は回答の投稿を記録する。
func (c *Collector) RecordAnswerSubmitted() {
	c.answersSubmitted.Inc()
}

// RecordDailyCreated は日記の作成を記録する。
func (c *Collector) RecordDailyCreated() {
	c.dailiesCreated.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

var _ MetricsCollector = (*Collector)(nil)
