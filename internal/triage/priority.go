package triage

import (
	"slices"

	"github.com/shenikar/tourist_safety_system/internal/models"
)

var priorities = map[models.AlertType]int{
	models.AlertTypeMedical:    3,
	models.AlertTypePanic:      2,
	models.AlertTypeHarassment: 2,
	models.AlertTypeLost:       1,
	models.AlertTypeOther:      0,
}

// Priority возвращает приоритет типа происшествия. Неизвестные типы получают 0.
func Priority(t models.AlertType) int {
	return priorities[t]
}

// PendingQueue возвращает сигналы в статусе PENDING в порядке обслуживания:
// приоритет по убыванию, при равенстве - сначала самые старые.
// Сортировка стабильная, исходный срез не меняется.
func PendingQueue(alerts []*models.Alert) []*models.Alert {
	queue := filterByStatus(alerts, models.AlertStatusPending)
	slices.SortStableFunc(queue, func(a, b *models.Alert) int {
		if d := Priority(b.Type) - Priority(a.Type); d != 0 {
			return d
		}
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
	return queue
}

// ActiveAlerts возвращает сигналы, по которым уже работает бригада
func ActiveAlerts(alerts []*models.Alert) []*models.Alert {
	return filterByStatus(alerts, models.AlertStatusInProgress)
}

func filterByStatus(alerts []*models.Alert, status models.AlertStatus) []*models.Alert {
	out := make([]*models.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out
}
