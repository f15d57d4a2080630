package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label names
const (
	LabelItem    = "item"
	LabelBuff    = "buff"
	LabelNPC     = "npc"
	LabelOutcome = "outcome"
	LabelMethod  = "method"
	LabelRoute   = "route"
	LabelStatus  = "status"
)

// Harvest outcomes
const (
	OutcomeNormal = "normal"
	OutcomeGolden = "golden"
	OutcomeWilted = "wilted"
)

// Farming metrics
var (
	CropsPlanted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_crops_planted_total",
			Help: "Seeds planted, by seed",
		},
		[]string{LabelItem},
	)

	Harvests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_harvests_total",
			Help: "Harvests, by produced item and outcome",
		},
		[]string{LabelItem, LabelOutcome},
	)

	HarvestOverflow = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_harvest_overflow_units_total",
			Help: "Harvested units that did not fit in the warehouse",
		},
	)
)

// Economy metrics
var (
	CropsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_crops_sold_total",
			Help: "Units sold to the market, by item",
		},
		[]string{LabelItem},
	)

	ItemsBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_items_bought_total",
			Help: "Items bought from the shop, by item",
		},
		[]string{LabelItem},
	)

	CoinsEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_coins_earned_total",
			Help: "Coins credited from sales, orders and buffs",
		},
	)

	CoinsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_coins_spent_total",
			Help: "Coins spent in the shop",
		},
	)
)

// Progression metrics
var (
	BuffsSelected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_buffs_selected_total",
			Help: "Daily buffs chosen, by buff",
		},
		[]string{LabelBuff},
	)

	DaysAdvanced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_days_advanced_total",
			Help: "Game days advanced",
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_level_ups_total",
			Help: "Levels gained",
		},
	)

	OrdersFulfilled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_orders_fulfilled_total",
			Help: "NPC orders fulfilled, by npc",
		},
		[]string{LabelNPC},
	)

	DishesCooked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_dishes_cooked_total",
			Help: "Dishes cooked, by dish",
		},
		[]string{LabelItem},
	)

	SaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_save_errors_total",
			Help: "Failed write-throughs of the game state",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelRoute, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelRoute},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades through the wrapper
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Middleware collects HTTP request metrics, labelled by chi route pattern
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
