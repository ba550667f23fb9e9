package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/topnlists/topn/pkg/errcodes"
)

const (
	OutcomeFound   = "found"
	OutcomeCreated = "created"

	OperationAdd      = "add"
	OperationAddBatch = "add_batch"
	OperationRemove   = "remove"
	OperationReorder  = "reorder"

	resultOK    = "ok"
	resultError = "storage_error"
)

var (
	TemplateResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topn_template_resolutions_total",
			Help: "Template resolutions by whether the template already existed",
		},
		[]string{"outcome"},
	)

	ListMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topn_list_mutations_total",
			Help: "Item mutations on lists by operation and result",
		},
		[]string{"operation", "result"},
	)

	RankShiftRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "topn_rank_shift_rows_total",
			Help: "Rows renumbered after item removals",
		},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "topn_api_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "topn_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func RecordTemplateResolution(created bool) {
	if created {
		TemplateResolutions.WithLabelValues(OutcomeCreated).Inc()
		return
	}
	TemplateResolutions.WithLabelValues(OutcomeFound).Inc()
}

// RecordListMutation counts a mutation. Errors carrying an errcodes code are
// labelled with that code, anything else as a storage error.
func RecordListMutation(operation string, err error) {
	ListMutations.WithLabelValues(operation, resultOf(err)).Inc()
}

func RecordRankShift(rows int64) {
	if rows > 0 {
		RankShiftRows.Add(float64(rows))
	}
}

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func resultOf(err error) string {
	if err == nil {
		return resultOK
	}
	var e *errcodes.Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return resultError
}

// Middleware records every request against its route pattern so that path
// parameters don't explode the label set.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = http.StatusInternalServerError
				var he *echo.HTTPError
				var ce *errcodes.Error
				switch {
				case errors.As(err, &ce):
					status = ce.HTTPCode
				case errors.As(err, &he):
					status = he.Code
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			RecordAPIRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

// Handler exposes the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
