package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoadTimestamp records the Unix time of the last successful Load.
	LoadTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "summary_config_load_timestamp",
		Help: "Unix timestamp of the last successful configuration load",
	})

	// ValidationErrorsTotal counts Load calls rejected by Validate.
	ValidationErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summary_config_validation_errors_total",
		Help: "Total number of rejected configuration loads",
	})
)

func recordLoad() {
	LoadTimestamp.SetToCurrentTime()
}

func recordValidationError() {
	ValidationErrorsTotal.Inc()
}
