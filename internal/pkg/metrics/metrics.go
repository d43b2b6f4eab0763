package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Attendance metrics
	CheckInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigshift_check_ins_total",
			Help: "Total number of successful check-ins by method",
		},
		[]string{"method"},
	)

	CheckOutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigshift_check_outs_total",
			Help: "Total number of successful check-outs by method",
		},
		[]string{"method"},
	)

	WorkedMinutes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gigshift_worked_minutes",
			Help:    "Worked minutes recorded at check-out",
			Buckets: []float64{30, 60, 120, 240, 360, 480, 600, 720},
		},
	)

	RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigshift_attendance_rejections_total",
			Help: "Total number of rejected attendance commands by operation and reason",
		},
		[]string{"operation", "reason"},
	)

	OpenAttendances = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gigshift_open_attendances",
			Help: "Number of workers currently checked in",
		},
	)

	// Location metrics
	LocationReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigshift_location_reports_total",
			Help: "Total number of location reports by proximity verdict",
		},
		[]string{"proximity"},
	)

	TrackedLocations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gigshift_tracked_locations",
			Help: "Number of stored latest-position samples",
		},
	)

	// Dispatch metrics
	DispatchDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigshift_dispatch_decisions_total",
			Help: "Admin check-in and check-out commands applied by dispatch path",
		},
		[]string{"path"},
	)

	// Job metrics
	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gigshift_job_duration_seconds",
			Help:    "Background job duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	JobFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigshift_job_failures_total",
			Help: "Total number of failed background job runs",
		},
		[]string{"job"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(CheckInsTotal)
	prometheus.MustRegister(CheckOutsTotal)
	prometheus.MustRegister(WorkedMinutes)
	prometheus.MustRegister(RejectionsTotal)
	prometheus.MustRegister(OpenAttendances)
	prometheus.MustRegister(LocationReportsTotal)
	prometheus.MustRegister(TrackedLocations)
	prometheus.MustRegister(DispatchDecisionsTotal)
	prometheus.MustRegister(JobDuration)
	prometheus.MustRegister(JobFailuresTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
