package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/config"
	"github.com/mamamaps/backend/internal/services"
)

// The retention worker deletes report documents whose 24h window elapsed
// more than the grace period ago. Visibility never depends on it — reads
// filter expiry themselves — so the worker only reclaims storage.
func main() {
	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	reports, err := openReportStore(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("open report store")
	}

	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		logrus.WithField("addr", cfg.ServerAddress).Info("retention worker health endpoint")
		if err := http.ListenAndServe(cfg.ServerAddress, nil); err != nil {
			logrus.WithError(err).Fatal("health endpoint failed")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"grace":    cfg.RetentionGrace,
		"interval": cfg.RetentionInterval,
	}).Info("retention worker starting")

	purge(reports, cfg.RetentionGrace)
	ticker := time.NewTicker(cfg.RetentionInterval)
	defer ticker.Stop()
	for range ticker.C {
		purge(reports, cfg.RetentionGrace)
	}
}

func openReportStore(cfg *config.Config) (services.ReportService, error) {
	if cfg.MongoURI != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return services.NewMongoReportService(ctx, cfg.MongoURI, cfg.MongoDB)
	}
	return services.NewLocalReportService(cfg.DataDir)
}

func purge(reports services.ReportService, grace time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().Add(-grace)
	purged, err := reports.PurgeExpiredBefore(ctx, cutoff)
	if err != nil {
		logrus.WithError(err).Error("purge expired reports")
		return
	}
	if purged > 0 {
		logrus.WithFields(logrus.Fields{
			"purged": purged,
			"cutoff": cutoff.Format(time.RFC3339),
		}).Info("purged expired reports")
	}
}
