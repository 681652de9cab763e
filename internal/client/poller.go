package client

import (
	"context"
	"time"

	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/sirupsen/logrus"
)

// AlertLister - источник ленты сигналов
type AlertLister interface {
	ListAlerts(ctx context.Context) ([]*models.Alert, error)
}

// Poller периодически перечитывает ленту сигналов целиком
type Poller struct {
	source   AlertLister
	interval time.Duration
	logger   *logrus.Logger
}

func NewPoller(source AlertLister, interval time.Duration, logger *logrus.Logger) *Poller {
	return &Poller{
		source:   source,
		interval: interval,
		logger:   logger,
	}
}

// Run запрашивает ленту сразу и затем каждые interval, передавая ее в fn.
// Ошибки запроса логируются, опрос продолжается. Возвращается при отмене ctx.
func (p *Poller) Run(ctx context.Context, fn func([]*models.Alert)) {
	log := p.logger.WithField("component", "poller")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		alerts, err := p.source.ListAlerts(ctx)
		switch {
		case err == nil:
			fn(alerts)
		case ctx.Err() != nil:
			return
		default:
			log.WithError(err).Warn("Failed to refresh alert feed")
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			log.Info("Stopping alert poller.")
			return
		}
	}
}
