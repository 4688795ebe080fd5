package di

import (
	"time"

	"techknowledgepills/application/commands/bus"
	"techknowledgepills/application/ports"
	querybus "techknowledgepills/application/queries/bus"
)

// recorderTimer reports the elapsed time to a MetricsRecorder on Stop
type recorderTimer struct {
	recorder ports.MetricsRecorder
	metric   string
	label    string
	start    time.Time
}

func (t *recorderTimer) Stop() {
	t.recorder.ObserveDuration(t.metric, time.Since(t.start), t.label)
}

// commandMetrics feeds command bus metrics into the recorder
type commandMetrics struct {
	recorder ports.MetricsRecorder
}

func (m commandMetrics) StartTimer(metric, label string) bus.Timer {
	return &recorderTimer{recorder: m.recorder, metric: metric, label: label, start: time.Now()}
}

func (m commandMetrics) Increment(metric, label string) {
	m.recorder.IncCounter(metric, label)
}

// queryMetrics feeds query bus metrics into the recorder
type queryMetrics struct {
	recorder ports.MetricsRecorder
}

func (m queryMetrics) StartTimer(metric, label string) querybus.Timer {
	return &recorderTimer{recorder: m.recorder, metric: metric, label: label, start: time.Now()}
}

func (m queryMetrics) Increment(metric, label string) {
	m.recorder.IncCounter(metric, label)
}
