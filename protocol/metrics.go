package protocol

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var actions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "edge",
	Subsystem: "protocol",
	Name:      "actions_total",
	Help:      "Negotiator actions by protocol, action and result.",
}, []string{"protocol", "action", "result"})

// Count records the result of the negotiator action. It's meant to be
// deferred with the named error result of the action.
func Count(protocol, action string, err *error) {
	result := "ok"
	if err != nil && *err != nil {
		result = "error"
	}
	actions.WithLabelValues(protocol, action, result).Inc()
}
