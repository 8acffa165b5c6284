package cloudagent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "edge",
		Subsystem: "relay",
		Name:      "messages_fetched_total",
		Help:      "Messages fetched from the cloud agents.",
	})
	dispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edge",
		Subsystem: "relay",
		Name:      "messages_dispatched_total",
		Help:      "Queued messages handed to the agent framework.",
	}, []string{"result"})
	queueLength = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edge",
		Subsystem: "relay",
		Name:      "queue_length",
		Help:      "Messages waiting for dispatch by queue.",
	}, []string{"queue"})
)
