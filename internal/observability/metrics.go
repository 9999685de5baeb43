package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relabs-tech/rtk_reader/internal/gps"
)

// GPSCollector bundles Prometheus metrics for the GGA reading session. It
// satisfies gps.Observer so a session can drive it directly.
type GPSCollector struct {
	gatherer prometheus.Gatherer

	Lines          *prometheus.CounterVec
	StableCount    prometheus.Gauge
	BaseConfirmed  prometheus.Gauge
	FixQuality     prometheus.Gauge
	OffsetCM       *prometheus.GaugeVec
	SentencePeriod prometheus.Histogram
}

// NewGPSCollector registers GPS metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil.
func NewGPSCollector(reg prometheus.Registerer) (*GPSCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	lines, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gps_lines_total",
		Help: "Lines consumed from the receiver, labeled by parse result.",
	}, []string{"result"}), "gps_lines_total")
	if err != nil {
		return nil, err
	}
	stable, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gps_stable_count",
		Help: "Consecutive in-tolerance samples counted toward base confirmation.",
	}), "gps_stable_count")
	if err != nil {
		return nil, err
	}
	confirmed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gps_base_confirmed",
		Help: "1 once the base position has been confirmed, 0 before.",
	}), "gps_base_confirmed")
	if err != nil {
		return nil, err
	}
	quality, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gps_fix_quality",
		Help: "Latest fix quality: 0 no solution, 1 float, 2 fixed.",
	}), "gps_fix_quality")
	if err != nil {
		return nil, err
	}
	offset, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gps_offset_cm",
		Help: "Latest offset from the base in centimeters.",
	}, []string{"axis"}), "gps_offset_cm")
	if err != nil {
		return nil, err
	}
	period, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gps_sentence_interval_seconds",
		Help:    "Time between accepted sentences.",
		Buckets: []float64{0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	}), "gps_sentence_interval_seconds")
	if err != nil {
		return nil, err
	}

	return &GPSCollector{
		gatherer:       gatherer,
		Lines:          lines,
		StableCount:    stable,
		BaseConfirmed:  confirmed,
		FixQuality:     quality,
		OffsetCM:       offset,
		SentencePeriod: period,
	}, nil
}

// ObserveLine counts one consumed line.
func (c *GPSCollector) ObserveLine(res gps.Result) {
	if c == nil || c.Lines == nil {
		return
	}
	c.Lines.WithLabelValues(string(res)).Inc()
}

// ObserveReading updates the gauges from an accepted reading.
func (c *GPSCollector) ObserveReading(r gps.Reading) {
	if c == nil {
		return
	}
	c.StableCount.Set(float64(r.StableCount))
	if r.HasBase {
		c.BaseConfirmed.Set(1)
	} else {
		c.BaseConfirmed.Set(0)
	}
	c.FixQuality.Set(float64(r.Quality))
	c.OffsetCM.WithLabelValues("x").Set(float64(r.Offset.X))
	c.OffsetCM.WithLabelValues("y").Set(float64(r.Offset.Y))
	c.OffsetCM.WithLabelValues("z").Set(float64(r.Offset.Z))
	// The first reading's delta is measured from the clock's epoch.
	if r.DeltaTimeMs > 0 && r.DeltaTimeMs != r.PrevTimeMs {
		c.SentencePeriod.Observe(float64(r.DeltaTimeMs) / 1000)
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *GPSCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
