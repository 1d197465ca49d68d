package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lookfor-app/experience-service/internal/dto"
	"github.com/lookfor-app/experience-service/internal/service"
)

type EnrollmentHandler struct {
	admissionSvc  service.AdmissionService
	experienceSvc service.ExperienceService
}

func NewEnrollmentHandler(admissionSvc service.AdmissionService, experienceSvc service.ExperienceService) *EnrollmentHandler {
	return &EnrollmentHandler{admissionSvc: admissionSvc, experienceSvc: experienceSvc}
}

func (h *EnrollmentHandler) RegisterRoutes(e *echo.Echo) {
	enrollments := e.Group("/api/v1/experiences/:id/enrollments")
	enrollments.POST("", h.Join)
	enrollments.DELETE("", h.Leave)
	enrollments.GET("/count", h.Count)
}

func (h *EnrollmentHandler) Join(c echo.Context) error {
	experienceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid experience id")
	}

	var req dto.EnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	enrollment, err := h.admissionSvc.Join(c.Request().Context(), experienceID, req.UserID)
	if err != nil {
		var cooldown *service.CooldownError
		switch {
		case errors.Is(err, service.ErrExperienceNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrHostEnrollment):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrCapacityFull):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.As(err, &cooldown):
			return echo.NewHTTPError(http.StatusConflict, cooldown.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToEnrollmentResponse(enrollment))
}

func (h *EnrollmentHandler) Leave(c echo.Context) error {
	experienceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid experience id")
	}

	userID := c.QueryParam("user_id")
	if userID == "" {
		var req dto.EnrollmentRequest
		if err := c.Bind(&req); err == nil {
			userID = req.UserID
		}
	}
	if userID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	enrollment, err := h.admissionSvc.Leave(c.Request().Context(), experienceID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if enrollment == nil {
		// Leaving without an enrollment is a no-op success.
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, dto.ToEnrollmentResponse(enrollment))
}

func (h *EnrollmentHandler) Count(c echo.Context) error {
	experienceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid experience id")
	}

	experience, err := h.experienceSvc.GetExperience(c.Request().Context(), experienceID)
	if err != nil {
		if errors.Is(err, service.ErrExperienceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	joined, err := h.admissionSvc.EnrollmentCount(c.Request().Context(), experienceID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := dto.EnrollmentCountResponse{
		ExperienceID: experienceID,
		Joined:       joined,
		Capacity:     experience.Capacity,
	}
	if experience.Capacity != nil {
		available := int64(*experience.Capacity) - joined
		if available < 0 {
			available = 0
		}
		resp.Available = &available
	}

	return c.JSON(http.StatusOK, resp)
}
