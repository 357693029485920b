package proxy

import "time"

// Metrics stores basic measurements for a proxied transaction.
type Metrics struct {
	// BytesIn is the total number of response bytes received from the origin
	// server. It is zero for responses served from the cache.
	BytesIn int64

	// BytesOut is the total number of response bytes sent to the client.
	BytesOut int64

	StartedAt       time.Time
	TimeToFirstByte float64
	TimeToLastByte  float64
}

// Start the timer.
func (metrics *Metrics) Start() {
	metrics.StartedAt = time.Now()
}

// FirstByteSent records the time offset to the first byte.
func (metrics *Metrics) FirstByteSent() {
	metrics.TimeToFirstByte = metrics.elapsed()
}

// IsFirstByteSent returns true if the first byte has been sent.
func (metrics *Metrics) IsFirstByteSent() bool {
	return metrics.TimeToFirstByte > 0
}

// LastByteSent records the time offset to the last byte.
func (metrics *Metrics) LastByteSent() {
	metrics.TimeToLastByte = metrics.elapsed()
}

// IsLastByteSent returns true if the last byte has been sent.
func (metrics *Metrics) IsLastByteSent() bool {
	return metrics.TimeToLastByte > 0
}

// elapsed returns the milliseconds since Start(), never less than one
// nanosecond so that a recorded offset is always distinguishable from an
// unrecorded one.
func (metrics *Metrics) elapsed() float64 {
	duration := time.Since(metrics.StartedAt)
	if duration <= 0 {
		duration = time.Nanosecond
	}
	return float64(duration) / float64(time.Millisecond)
}
