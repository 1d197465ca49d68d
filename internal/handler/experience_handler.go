package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lookfor-app/experience-service/internal/dto"
	"github.com/lookfor-app/experience-service/internal/geo"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/service"
)

type ExperienceHandler struct {
	experienceSvc   service.ExperienceService
	discoverySvc    service.DiscoveryService
	cancellationSvc service.CancellationService
}

func NewExperienceHandler(experienceSvc service.ExperienceService, discoverySvc service.DiscoveryService, cancellationSvc service.CancellationService) *ExperienceHandler {
	return &ExperienceHandler{
		experienceSvc:   experienceSvc,
		discoverySvc:    discoverySvc,
		cancellationSvc: cancellationSvc,
	}
}

func (h *ExperienceHandler) RegisterRoutes(e *echo.Echo) {
	experiences := e.Group("/api/v1/experiences")
	experiences.POST("", h.CreateExperience)
	experiences.GET("", h.SearchExperiences)
	experiences.GET("/:id", h.GetExperience)
	experiences.DELETE("/:id", h.CancelExperience)

	e.GET("/api/v1/users/:id/enrollments", h.ListJoined)
}

func (h *ExperienceHandler) CreateExperience(c echo.Context) error {
	var req dto.CreateExperienceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	experience := &models.Experience{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Tags:            req.Tags,
		StartAt:         req.StartAt,
		LocationAddress: req.LocationAddress,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		Price:           req.Price,
		Capacity:        req.Capacity,
		ImageURL:        req.ImageURL,
		HostUserID:      req.HostUserID,
	}

	if err := h.experienceSvc.CreateExperience(c.Request().Context(), experience); err != nil {
		var validation *service.ValidationError
		if errors.As(err, &validation) {
			return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, dto.ToExperienceResponse(experience))
}

func (h *ExperienceHandler) GetExperience(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid experience id")
	}

	experience, err := h.experienceSvc.GetExperience(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrExperienceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToExperienceResponse(experience))
}

func (h *ExperienceHandler) SearchExperiences(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	results, err := h.discoverySvc.Search(c.Request().Context(), c.QueryParam("user_id"), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toDiscoveryResponses(results))
}

func (h *ExperienceHandler) CancelExperience(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid experience id")
	}

	var req dto.CancelExperienceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	result, err := h.cancellationSvc.CancelExperience(c.Request().Context(), id, req.UserID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExperienceNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrReasonRequired):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotHost):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrCancellationLocked):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.CancellationResponse{
		ExperienceID: id,
		Participants: result.Participants,
		Notified:     result.Notified,
		Failed:       result.Failed,
	})
}

func (h *ExperienceHandler) ListJoined(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user id is required")
	}

	results, err := h.discoverySvc.ListJoined(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toDiscoveryResponses(results))
}

func toDiscoveryResponses(results []service.Result) []dto.DiscoveryItemResponse {
	resp := make([]dto.DiscoveryItemResponse, len(results))
	for i, r := range results {
		resp[i] = dto.ToDiscoveryItemResponse(r)
	}
	return resp
}

func parseFilter(c echo.Context) (service.Filter, error) {
	filter := service.Filter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Price:    service.PriceAll,
	}

	switch p := c.QueryParam("price"); p {
	case "", "all":
	case "free":
		filter.Price = service.PriceFree
	case "paid":
		filter.Price = service.PricePaid
	default:
		return filter, errors.New("price must be one of all, free, paid")
	}

	if day := c.QueryParam("date"); day != "" {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			return filter, errors.New("date must be formatted YYYY-MM-DD")
		}
		filter.Day = &parsed
	}

	if hour := c.QueryParam("hour"); hour != "" {
		parsed, err := strconv.Atoi(hour)
		if err != nil || parsed < 0 || parsed > 23 {
			return filter, errors.New("hour must be between 0 and 23")
		}
		filter.Hour = &parsed
	}

	lat, lng := c.QueryParam("lat"), c.QueryParam("lng")
	if lat != "" || lng != "" {
		parsedLat, errLat := strconv.ParseFloat(lat, 64)
		parsedLng, errLng := strconv.ParseFloat(lng, 64)
		if errLat != nil || errLng != nil {
			return filter, errors.New("lat and lng must both be valid coordinates")
		}
		filter.Origin = &geo.Point{Lat: parsedLat, Lng: parsedLng}
	}

	if radius := c.QueryParam("radius_km"); radius != "" {
		parsed, err := strconv.ParseFloat(radius, 64)
		if err != nil || parsed <= 0 {
			return filter, errors.New("radius_km must be a positive number")
		}
		if filter.Origin == nil {
			return filter, errors.New("radius_km requires lat and lng")
		}
		filter.RadiusKm = parsed
		filter.RadiusFilter = true
	}

	return filter, nil
}
