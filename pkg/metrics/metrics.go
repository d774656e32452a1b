package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BreedFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "breed_gallery_breed_fetches_total",
		Help: "Breed image list fetches started.",
	})

	BreedFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "breed_gallery_breed_fetch_failures_total",
		Help: "Breed image list fetches that failed.",
	})

	ImagesResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "breed_gallery_images_resolved_total",
		Help: "Images whose pixel dimensions were resolved.",
	})

	ImageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "breed_gallery_image_failures_total",
		Help: "Images dropped because their dimensions could not be resolved.",
	})

	StaleBatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "breed_gallery_stale_batches_total",
		Help: "Breed batches discarded because the selection changed while they were in flight.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "breed_gallery_active_sessions",
		Help: "Sessions currently held in memory.",
	})
)
