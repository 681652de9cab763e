package geofence

import (
	"fmt"

	"github.com/shenikar/tourist_safety_system/internal/models"
)

const (
	ReasonLiveIncident     = "Live Incident Report"
	ReasonRecentlyResolved = "Recently Resolved Incident"
)

// Zone - круговая опасная зона
type Zone struct {
	Name         string  `json:"name"`
	Center       Point   `json:"center"`
	RadiusMeters float64 `json:"radiusMeters"`
	Reason       string  `json:"reason,omitempty"`
}

// Contains сообщает, лежит ли точка строго внутри зоны
func (z Zone) Contains(p Point) bool {
	return Distance(p, z.Center) < z.RadiusMeters
}

// SafeSpot - известное безопасное место
type SafeSpot struct {
	Name  string `json:"name"`
	Point Point  `json:"point"`
}

// Assessment - результат проверки позиции
type Assessment struct {
	Position Point     `json:"position"`
	InDanger bool      `json:"inDanger"`
	Zone     *Zone     `json:"zone,omitempty"`
	SafeSpot *SafeSpot `json:"safeSpot,omitempty"`
	// Route - путь из двух точек (текущая позиция -> ближайшее безопасное место).
	// Пуст, если опасности нет или безопасных мест не известно.
	Route []Point `json:"route,omitempty"`
}

// FindZone возвращает первую зону, содержащую точку
func FindZone(p Point, zones []Zone) (*Zone, bool) {
	for i := range zones {
		if zones[i].Contains(p) {
			z := zones[i]
			return &z, true
		}
	}
	return nil, false
}

// NearestSafeSpot возвращает безопасное место с минимальным расстоянием до точки
func NearestSafeSpot(p Point, spots []SafeSpot) (*SafeSpot, bool) {
	var best *SafeSpot
	bestDist := 0.0
	for i := range spots {
		d := Distance(p, spots[i].Point)
		if best == nil || d < bestDist {
			s := spots[i]
			best, bestDist = &s, d
		}
	}
	return best, best != nil
}

// Assess классифицирует позицию и, если она в опасной зоне, строит маршрут отхода
func Assess(p Point, zones []Zone, spots []SafeSpot) Assessment {
	result := Assessment{Position: p}

	zone, inDanger := FindZone(p, zones)
	if !inDanger {
		return result
	}
	result.InDanger = true
	result.Zone = zone

	if spot, ok := NearestSafeSpot(p, spots); ok {
		result.SafeSpot = spot
		result.Route = []Point{p, spot.Point}
	}
	return result
}

// ZonesFromAlerts превращает сигналы о преследовании и потерявшихся в зоны радиуса radius.
// Незакрытые сигналы дают активные опасные зоны, закрытые - зоны повышенной уязвимости.
func ZonesFromAlerts(alerts []*models.Alert, radius float64) []Zone {
	zones := make([]Zone, 0)
	for _, a := range alerts {
		if a.Type != models.AlertTypeHarassment && a.Type != models.AlertTypeLost {
			continue
		}
		z := Zone{
			Center:       Point{Lat: a.Location.Latitude, Lng: a.Location.Longitude},
			RadiusMeters: radius,
		}
		if a.Status == models.AlertStatusResolved {
			z.Name = fmt.Sprintf("Past %s Incident (Vulnerable)", a.Type)
			z.Reason = ReasonRecentlyResolved
		} else {
			z.Name = fmt.Sprintf("%s reported in this area", a.Type)
			z.Reason = ReasonLiveIncident
		}
		zones = append(zones, z)
	}
	return zones
}

// FallbackSafeSpots возвращает безопасные места рядом с центром города,
// когда список достопримечательностей не получен
func FallbackSafeSpots(city Point) []SafeSpot {
	return []SafeSpot{
		{Name: "Main Palace / Attraction", Point: Point{Lat: city.Lat + 0.002, Lng: city.Lng + 0.002}},
		{Name: "Public Gardens", Point: Point{Lat: city.Lat - 0.003, Lng: city.Lng + 0.004}},
	}
}
