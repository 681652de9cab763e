package geofence

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Tracker на каждом тике запрашивает позицию у источника, проверяет ее по зонам
// и передает результат в OnUpdate. Изменять состояние сигналов он не может.
type Tracker struct {
	Source PositionSource
	// Zones вызывается на каждом тике, чтобы учитывать обновляемый список зон
	Zones    func() []Zone
	Spots    []SafeSpot
	OnUpdate func(Assessment)

	logger *logrus.Logger
}

func NewTracker(source PositionSource, zones func() []Zone, spots []SafeSpot, onUpdate func(Assessment), logger *logrus.Logger) *Tracker {
	return &Tracker{
		Source:   source,
		Zones:    zones,
		Spots:    spots,
		OnUpdate: onUpdate,
		logger:   logger,
	}
}

// Step выполняет один тик
func (t *Tracker) Step(ctx context.Context) (Assessment, error) {
	pos, err := t.Source.Next(ctx)
	if err != nil {
		return Assessment{}, err
	}

	var zones []Zone
	if t.Zones != nil {
		zones = t.Zones()
	}
	result := Assess(pos, zones, t.Spots)
	if t.OnUpdate != nil {
		t.OnUpdate(result)
	}
	return result, nil
}

// Run выполняет тики с интервалом interval до отмены контекста
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("Stopping position tracker.")
			return
		case <-ticker.C:
			if _, err := t.Step(ctx); err != nil {
				t.logger.WithError(err).Warn("Failed to read position")
			}
		}
	}
}
