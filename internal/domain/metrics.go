package domain

import "time"

// MetricType enumerates the kinds of families the exporter produces.
type MetricType string

const (
	// Gauge represents a value that can move up or down.
	Gauge MetricType = "gauge"
	// Counter represents a value bees only ever increments.
	Counter MetricType = "counter"
)

// Sample is a single labelled value with the time it was observed.
type Sample struct {
	Time        time.Time
	LabelValues []string
	Value       float64
}

// Family groups the samples of one metric name.
type Family struct {
	Name       string
	Help       string
	Type       MetricType
	LabelNames []string
	Samples    []Sample
}
