package metrics

// Adapted from github.com/zsais/go-gin-prometheus: zap logging, no push
// gateway, collectors shared across instances.

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const httpSubsystem = "ambassador_http"

var reqCnt = &Metric{
	ID:          "reqCnt",
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code, method and route.",
	Type:        KindCounterVec,
	Args:        []string{"code", "method", "url"},
}

var reqDur = &Metric{
	ID:          "reqDur",
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        KindHistogramVec,
	Args:        []string{"code", "method", "url"},
}

var resSz = &Metric{
	ID:          "resSz",
	Name:        "resp_sz_bytes",
	Description: "The HTTP response sizes in bytes.",
	Type:        KindSummaryVec,
	Args:        []string{"code", "method", "url"},
}

var reqSz = &Metric{
	ID:          "reqSz",
	Name:        "req_sz_bytes",
	Description: "The HTTP request sizes in bytes.",
	Type:        KindSummaryVec,
	Args:        []string{"code", "method", "url"},
}

const defaultMetricPath = "/metrics"

// RequestCounterURLLabelMappingFn controls the cardinality of the "url"
// label, e.g. by mapping "/leads/42" to the route template "/leads/:id".
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus records request metrics and serves them on MetricsPath.
type Prometheus struct {
	reqCnt       *prometheus.CounterVec
	reqDur       *prometheus.HistogramVec
	reqSz, resSz *prometheus.SummaryVec

	listenAddress string
	metricsPath   string
	urlLabel      RequestCounterURLLabelMappingFn
	log           *zap.SugaredLogger
}

type NewPrometheusOptions struct {
	Subsystem               string
	MetricsPath             string
	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn
	Logger                  *zap.SugaredLogger
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		metricsPath: options.MetricsPath,
		urlLabel:    options.ReqCntURLLabelMappingFn,
		log:         options.Logger,
	}
	if p.metricsPath == "" {
		p.metricsPath = defaultMetricPath
	}
	if p.urlLabel == nil {
		p.urlLabel = func(c *gin.Context) string { return c.Request.URL.Path }
	}
	if p.log == nil {
		p.log = zap.NewNop().Sugar()
	}
	subsystem := options.Subsystem
	if subsystem == "" {
		subsystem = httpSubsystem
	}
	p.reqCnt = register(reqCnt, subsystem).(*prometheus.CounterVec)
	p.reqDur = register(reqDur, subsystem).(*prometheus.HistogramVec)
	p.resSz = register(resSz, subsystem).(*prometheus.SummaryVec)
	p.reqSz = register(reqSz, subsystem).(*prometheus.SummaryVec)
	return p
}

// SetListenAddress exposes metrics on a separate listener, keeping GET
// /metrics out of the API's access log. Empty serves them on the API engine.
func (p *Prometheus) SetListenAddress(address string) {
	p.listenAddress = address
}

// Use adds the middleware to e and mounts the metrics endpoint.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
	if p.listenAddress == "" {
		e.GET(p.metricsPath, prometheusHandler())
		return
	}
	router := gin.New()
	router.GET(p.metricsPath, prometheusHandler())
	go func() {
		if err := router.Run(p.listenAddress); err != nil {
			p.log.Errorw("metrics server stopped", "addr", p.listenAddress, "err", err)
		}
	}()
}

func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		reqSize := computeApproximateRequestSize(c.Request)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.urlLabel(c)
		p.reqDur.WithLabelValues(status, c.Request.Method, url).Observe(MillisecondsSince(start))
		p.reqCnt.WithLabelValues(status, c.Request.Method, url).Inc()
		p.reqSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(reqSize))
		p.resSz.WithLabelValues(status, c.Request.Method, url).Observe(float64(max(c.Writer.Size(), 0)))
	}
}

func prometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// computeApproximateRequestSize counts the request line, headers and body
// length without reading the body.
func computeApproximateRequestSize(r *http.Request) int {
	s := 0
	if r.URL != nil {
		s = len(r.URL.Path)
	}
	s += len(r.Method)
	s += len(r.Proto)
	for name, values := range r.Header {
		s += len(name)
		for _, v := range values {
			s += len(v)
		}
	}
	s += len(r.Host)
	if r.ContentLength != -1 {
		s += int(r.ContentLength)
	}
	return s
}
