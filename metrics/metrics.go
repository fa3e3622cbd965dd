// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MentionsReceived counts inbound webmention requests by result.
	MentionsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barker_webmentions_received_total",
		Help: "Inbound webmention requests by result.",
	}, []string{"result"})

	// MentionsSent counts outbound webmention notifications by result.
	MentionsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barker_webmentions_sent_total",
		Help: "Outbound webmention notifications by result.",
	}, []string{"result"})

	// Syndications counts POSSE submissions by result.
	Syndications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barker_syndications_total",
		Help: "POSSE submissions by result.",
	}, []string{"result"})

	// TasksQueued tracks the depth of the background task queue.
	TasksQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barker_tasks_queued",
		Help: "Background tasks waiting for a worker.",
	})

	// TasksDropped counts tasks shed because the queue was full.
	TasksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barker_tasks_dropped_total",
		Help: "Background tasks dropped because the queue was full.",
	})
)
