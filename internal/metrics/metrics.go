package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger *zap.Logger

	// Счетчики
	chunksProcessed *prometheus.CounterVec
	cacheOperations *prometheus.CounterVec
	gatewayRequests *prometheus.CounterVec
	jobsTotal       *prometheus.CounterVec

	// Гистограммы
	gatewayResponseTime *prometheus.HistogramVec
	jobDuration         prometheus.Histogram

	// Gauge метрики
	jobsInFlight prometheus.Gauge

	// Мьютекс для thread-safety
	mu sync.RWMutex
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,

		// Счетчики обработанных фрагментов
		chunksProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunks_processed_total",
				Help: "Общее количество обработанных фрагментов",
			},
			[]string{"status"}, // success, dropped, fallback
		),

		// Счетчики операций кэша
		cacheOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_operations_total",
				Help: "Общее количество операций кэша",
			},
			[]string{"operation", "result"}, // operation: get, set; result: hit, miss, ok, error
		),

		// Счетчики обращений к внешним API
		gatewayRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Общее количество обращений к внешним API",
			},
			[]string{"gateway", "status"}, // gateway: enhance, synthesize, transcript; status: success, failed
		),

		// Счетчики задач
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobs_total",
				Help: "Общее количество задач преобразования",
			},
			[]string{"status"}, // success, failed
		),

		// Гистограмма времени ответа внешних API
		gatewayResponseTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_response_time_seconds",
				Help:    "Время ответа внешнего API в секундах",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"gateway"},
		),

		// Гистограмма длительности задачи
		jobDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "job_duration_seconds",
				Help:    "Длительность задачи преобразования в секундах",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
			},
		),

		// Gauge выполняющихся задач
		jobsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "jobs_in_flight",
				Help: "Количество выполняющихся задач",
			},
		),
	}

	// Регистрируем все метрики
	prometheus.MustRegister(
		m.chunksProcessed,
		m.cacheOperations,
		m.gatewayRequests,
		m.jobsTotal,
		m.gatewayResponseTime,
		m.jobDuration,
		m.jobsInFlight,
	)

	return m
}

// IncrementCounter увеличивает счетчик
func (m *Metrics) IncrementCounter(name string, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var counter *prometheus.CounterVec

	switch name {
	case "chunks_processed_total":
		counter = m.chunksProcessed
	case "cache_operations_total":
		counter = m.cacheOperations
	case "gateway_requests_total":
		counter = m.gatewayRequests
	case "jobs_total":
		counter = m.jobsTotal
	default:
		m.logger.Error("неизвестная метрика", zap.String("name", name))
		return
	}

	counter.WithLabelValues(labels...).Inc()
	m.logger.Debug("метрика увеличена", zap.String("metric", name), zap.Int("count", len(labels)))
}

// AddGauge изменяет значение gauge метрики на delta
func (m *Metrics) AddGauge(name string, delta float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var gauge prometheus.Gauge

	switch name {
	case "jobs_in_flight":
		gauge = m.jobsInFlight
	default:
		m.logger.Error("неизвестная gauge метрика", zap.String("name", name))
		return
	}

	gauge.Add(delta)
	m.logger.Debug("метрика изменена", zap.String("metric", name), zap.Float64("delta", delta))
}

// ObserveHistogram добавляет наблюдение в гистограмму
func (m *Metrics) ObserveHistogram(name string, value float64, labels ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case "gateway_response_time":
		m.gatewayResponseTime.WithLabelValues(labels...).Observe(value)
	case "job_duration":
		m.jobDuration.Observe(value)
	default:
		m.logger.Error("неизвестная гистограмма", zap.String("name", name))
		return
	}

	m.logger.Debug("гистограмма обновлена", zap.String("metric", name), zap.Float64("value", value))
}

// RecordChunk записывает результат обработки фрагмента
func (m *Metrics) RecordChunk(status string) {
	m.IncrementCounter("chunks_processed_total", status)
}

// RecordCacheOperation записывает операцию кэша
func (m *Metrics) RecordCacheOperation(operation, result string) {
	m.IncrementCounter("cache_operations_total", operation, result)
}

// RecordGatewayRequest записывает обращение к внешнему API
func (m *Metrics) RecordGatewayRequest(gateway string, success bool, responseTime float64) {
	status := "success"
	if !success {
		status = "failed"
	}

	m.IncrementCounter("gateway_requests_total", gateway, status)

	m.ObserveHistogram("gateway_response_time", responseTime, gateway)
}

// RecordJobStart записывает начало задачи
func (m *Metrics) RecordJobStart() {
	m.AddGauge("jobs_in_flight", 1)
}

// RecordJobFinish записывает завершение задачи
func (m *Metrics) RecordJobFinish(success bool, duration float64) {
	status := "success"
	if !success {
		status = "failed"
	}

	m.IncrementCounter("jobs_total", status)
	m.ObserveHistogram("job_duration", duration)
	m.AddGauge("jobs_in_flight", -1)
}

// Handler возвращает HTTP handler для метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
