package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var defaultHistogramBucketsSeconds = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

// The collectors are registered at package load so any code path can
// observe before the metrics server is up.
var (
	once          sync.Once
	metricsRouter *chi.Mux

	operationDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Histogram of ledger operation durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	ledgerClientLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_ledger_client_latency_seconds",
			Help:    "Histogram of external asset-ledger client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"ledger", "method", "status"},
	)

	dbLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_latency_seconds",
			Help:    "Histogram of db call durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	queueSendErrorCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	registeredAccountsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registered_accounts_count",
			Help: "Number of registered accounts in the registry",
		},
	)

	referralRewardsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_rewards_credited_count",
			Help: "The total number of referral cascade levels credited",
		},
	)
)

// Init starts the metrics endpoint.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// StartOperationDurationTimer starts a timer for a ledger operation and
// returns a function to observe the duration with the outcome status.
func StartOperationDurationTimer(operation string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		operationDurationHistogram.WithLabelValues(
			operation, strconv.Itoa(statusCode),
		).Observe(duration)
	}
}

func ObserveLedgerClientLatency(ledger, method string, duration time.Duration, err error) {
	status := Success
	if err != nil {
		status = Error
	}
	ledgerClientLatency.WithLabelValues(ledger, method, status.String()).
		Observe(duration.Seconds())
}

func ObserveDBLatency(method string, duration time.Duration, err error) {
	status := Success
	if err != nil {
		status = Error
	}
	dbLatency.WithLabelValues(method, status.String()).Observe(duration.Seconds())
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

func SetRegisteredAccounts(count int64) {
	registeredAccountsGauge.Set(float64(count))
}

func IncReferralRewardsCredited() {
	referralRewardsCounter.Inc()
}
