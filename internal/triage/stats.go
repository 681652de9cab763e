package triage

import (
	"time"

	"github.com/shenikar/tourist_safety_system/internal/models"
)

const (
	statsWindow = 24 * time.Hour
	statsStep   = 4 * time.Hour
)

// StatsPoint - накопленные значения на момент времени для графика панели ведомства
type StatsPoint struct {
	Label     string    `json:"name"`
	At        time.Time `json:"at"`
	Requested int       `json:"requested"`
	Resolved  int       `json:"resolved"`
}

// Stats строит семь точек с шагом 4 часа за последние сутки.
// Requested - сколько сигналов создано к этому моменту, Resolved - сколько к нему закрыто
// (по первой записи RESOLVED в журнале).
func Stats(alerts []*models.Alert, now time.Time) []StatsPoint {
	if len(alerts) == 0 {
		return []StatsPoint{}
	}

	start := now.Add(-statsWindow)
	points := make([]StatsPoint, 0, int(statsWindow/statsStep)+1)
	for at := start; !at.After(now); at = at.Add(statsStep) {
		cutoff := at.UnixMilli()
		p := StatsPoint{Label: at.Format("15") + ":00", At: at}
		for _, a := range alerts {
			if a.Timestamp <= cutoff {
				p.Requested++
			}
			if ts, ok := resolvedAt(a); ok && ts <= cutoff {
				p.Resolved++
			}
		}
		points = append(points, p)
	}
	return points
}

func resolvedAt(a *models.Alert) (int64, bool) {
	for _, e := range a.Timeline {
		if e.Status == models.AlertStatusResolved {
			return e.Timestamp, true
		}
	}
	return 0, false
}
