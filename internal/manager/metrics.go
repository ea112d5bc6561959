package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pocketchat",
			Subsystem: "manager",
			Name:      "transitions_total",
			Help:      "State transitions of the model lifecycle manager",
		},
		[]string{"from", "to"},
	)

	downloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pocketchat",
			Subsystem: "manager",
			Name:      "downloads_total",
			Help:      "Artifact downloads by result",
		},
		[]string{"result"},
	)

	downloadedBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pocketchat",
			Subsystem: "manager",
			Name:      "downloaded_bytes_total",
			Help:      "Bytes of artifacts downloaded successfully",
		},
	)

	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pocketchat",
			Subsystem: "manager",
			Name:      "loads_total",
			Help:      "Model loads by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(transitionsTotal, downloadsTotal, downloadedBytes, loadsTotal)
}

const (
	resultOK         = "ok"
	resultError      = "error"
	resultSuperseded = "superseded"
)
