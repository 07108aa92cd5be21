package harvest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetch_attempts_total",
		Help: "The total number of HTTP fetch attempts dispatched.",
	})
	fetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetch_retries_total",
		Help: "The total number of fetch attempts that were retried.",
	})
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_fetch_failures_total",
		Help: "The total number of fetches that exhausted their retry budget.",
	})
	adsListed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_ads_listed_total",
		Help: "The total number of listing stubs produced by phase 1.",
	})
	adsEnriched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_ads_enriched_total",
		Help: "The total number of stubs that received detail fields in phase 2.",
	})
	enrichFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_enrich_failures_total",
		Help: "The total number of stubs persisted with placeholders after a detail failure.",
	})
)
