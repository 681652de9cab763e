package v1

import (
	"github.com/google/uuid"
	"github.com/shenikar/tourist_safety_system/internal/geofence"
	"github.com/shenikar/tourist_safety_system/internal/models"
	"github.com/shenikar/tourist_safety_system/internal/triage"
)

// DTOToAlertModel преобразует DTO создания в доменную модель
func DTOToAlertModel(dto CreateAlertRequest) *models.Alert {
	alert := &models.Alert{
		UserID:      dto.UserID,
		Type:        models.AlertType(dto.Type),
		Description: dto.Description,
		Timestamp:   dto.Timestamp,
		Location:    models.Location{Latitude: dto.Location.Lat, Longitude: dto.Location.Lng},
		RiskScore:   dto.RiskScore,
	}
	if id, err := uuid.Parse(dto.ID); err == nil {
		alert.ID = id
	}
	return alert
}

// DTOToAlertPatch преобразует DTO обновления в патч. Не переданные поля остаются nil.
func DTOToAlertPatch(dto UpdateAlertRequest) *models.AlertPatch {
	patch := &models.AlertPatch{
		Description:     dto.Description,
		RiskScore:       dto.RiskScore,
		ResolutionNotes: dto.ResolutionNotes,
	}
	if dto.Type != nil {
		t := models.AlertType(*dto.Type)
		patch.Type = &t
	}
	if dto.Status != nil {
		s := models.AlertStatus(*dto.Status)
		patch.Status = &s
	}
	if dto.Location != nil {
		patch.Location = &models.Location{Latitude: dto.Location.Lat, Longitude: dto.Location.Lng}
	}
	if dto.Responder != nil {
		patch.Responder = &models.Responder{
			Name:        dto.Responder.Name,
			Designation: dto.Responder.Designation,
			Contact:     dto.Responder.Contact,
		}
	}
	if dto.Timeline != nil {
		patch.Timeline = make([]models.TimelineEvent, len(dto.Timeline))
		for i, e := range dto.Timeline {
			patch.Timeline[i] = models.TimelineEvent{
				Status:    models.AlertStatus(e.Status),
				Note:      e.Note,
				Timestamp: e.Timestamp,
			}
		}
	}
	return patch
}

// ModelToAlertResponse преобразует доменную модель в DTO для ответа
func ModelToAlertResponse(model *models.Alert) *AlertResponse {
	resp := &AlertResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		Type:            string(model.Type),
		Description:     model.Description,
		Timestamp:       model.Timestamp,
		Location:        LocationDTO{Lat: model.Location.Latitude, Lng: model.Location.Longitude},
		Status:          string(model.Status),
		RiskScore:       model.RiskScore,
		Timeline:        make([]TimelineEventDTO, len(model.Timeline)),
		ResolutionNotes: model.ResolutionNotes,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.Responder != nil {
		resp.Responder = &ResponderDTO{
			Name:        model.Responder.Name,
			Designation: model.Responder.Designation,
			Contact:     model.Responder.Contact,
		}
	}
	for i, e := range model.Timeline {
		resp.Timeline[i] = TimelineEventDTO{Status: string(e.Status), Note: e.Note, Timestamp: e.Timestamp}
	}
	return resp
}

// ModelsToAlertResponses преобразует слайс моделей в слайс DTO
func ModelsToAlertResponses(models []*models.Alert) []*AlertResponse {
	responses := make([]*AlertResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToAlertResponse(model)
	}
	return responses
}

func DTOToContactModel(dto ContactRequest) *models.Contact {
	return &models.Contact{
		UserID:   dto.UserID,
		Name:     dto.Name,
		Phone:    dto.Phone,
		Relation: dto.Relation,
	}
}

func ModelToContactResponse(model *models.Contact) *ContactResponse {
	return &ContactResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		Name:      model.Name,
		Phone:     model.Phone,
		Relation:  model.Relation,
		CreatedAt: model.CreatedAt,
	}
}

func ModelsToContactResponses(models []*models.Contact) []*ContactResponse {
	responses := make([]*ContactResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToContactResponse(model)
	}
	return responses
}

// DTOToRegisterInput собирает данные регистрации. Профиль ведомства передается всегда,
// сервис отбрасывает его для туристов.
func DTOToRegisterInput(dto RegisterRequest) *models.RegisterInput {
	input := &models.RegisterInput{
		Username: dto.Username,
		Password: dto.Password,
		Name:     dto.Name,
		Role:     models.Role(dto.Role),
	}
	if input.Role.Normalize() == models.RoleAuthority {
		input.Agency = &models.AgencyProfile{
			AgencyType:    dto.AgencyType,
			OfficialEmail: dto.OfficialEmail,
			OfficialPhone: dto.OfficialPhone,
			Jurisdiction:  dto.Jurisdiction,
			OfficerName:   dto.OfficerName,
			Designation:   dto.Designation,
			OfficerID:     dto.OfficerID,
			GeoRadius:     dto.GeoRadius,
		}
	}
	return input
}

func ModelToUserSummary(user *models.User) UserSummary {
	summary := UserSummary{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Role:     string(user.Role),
	}
	if user.Agency != nil {
		summary.Jurisdiction = user.Agency.Jurisdiction
		summary.OfficerName = user.Agency.OfficerName
	}
	return summary
}

func locationToPoint(l LocationDTO) geofence.Point {
	return geofence.Point{Lat: l.Lat, Lng: l.Lng}
}

func pointToLocation(p geofence.Point) LocationDTO {
	return LocationDTO{Lat: p.Lat, Lng: p.Lng}
}

// DTOToZones преобразует зоны и безопасные места из запроса проверки координат
func DTOToZones(dto LocationCheckRequest) ([]geofence.Zone, []geofence.SafeSpot) {
	zones := make([]geofence.Zone, len(dto.Zones))
	for i, z := range dto.Zones {
		zones[i] = geofence.Zone{
			Name:         z.Name,
			Center:       locationToPoint(z.Center),
			RadiusMeters: z.RadiusMeters,
			Reason:       z.Reason,
		}
	}
	spots := make([]geofence.SafeSpot, len(dto.SafeSpots))
	for i, s := range dto.SafeSpots {
		spots[i] = geofence.SafeSpot{Name: s.Name, Point: locationToPoint(s.Location)}
	}
	return zones, spots
}

func AssessmentToResponse(a *geofence.Assessment) *LocationCheckResponse {
	resp := &LocationCheckResponse{
		IsDangerous: a.InDanger,
		Route:       make([]LocationDTO, len(a.Route)),
	}
	if a.Zone != nil {
		resp.Zone = &ZoneDTO{
			Name:         a.Zone.Name,
			Center:       pointToLocation(a.Zone.Center),
			RadiusMeters: a.Zone.RadiusMeters,
			Reason:       a.Zone.Reason,
		}
	}
	if a.SafeSpot != nil {
		resp.SafeSpot = &SafeSpotDTO{Name: a.SafeSpot.Name, Location: pointToLocation(a.SafeSpot.Point)}
	}
	for i, p := range a.Route {
		resp.Route[i] = pointToLocation(p)
	}
	return resp
}

func StatsToResponse(points []triage.StatsPoint) []StatsPointResponse {
	resp := make([]StatsPointResponse, len(points))
	for i, p := range points {
		resp[i] = StatsPointResponse{Name: p.Label, Requested: p.Requested, Resolved: p.Resolved}
	}
	return resp
}
