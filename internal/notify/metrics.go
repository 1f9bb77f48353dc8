package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var remindersSent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "staffbot",
	Subsystem: "notify",
	Name:      "reminders_sent_total",
	Help:      "Shift reminders delivered to users.",
})
