package medication

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carealert/carealert/internal/platform/auth"
	"github.com/carealert/carealert/pkg/pagination"
)

// Authorizer answers whether a requester may act on a patient's medications.
// Satisfied by the relationship service.
type Authorizer interface {
	Authorize(ctx context.Context, requesterID string, patientID uuid.UUID, allowSelf bool) (bool, error)
}

// Handler exposes medication CRUD. A patient manages their own medications;
// an active caregiver may manage them on the patient's behalf.
type Handler struct {
	svc        *Service
	authorizer Authorizer
}

func NewHandler(svc *Service, authorizer Authorizer) *Handler {
	return &Handler{svc: svc, authorizer: authorizer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/medications", h.Create)
	api.GET("/medications", h.List)
	api.GET("/medications/:id", h.Get)
	api.PUT("/medications/:id", h.Update)
	api.DELETE("/medications/:id", h.Delete)
}

type medicationRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	Name      string    `json:"name"`
	Doses     []Dose    `json:"doses"`
}

func (h *Handler) Create(c echo.Context) error {
	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.requireAccess(c, req.PatientID); err != nil {
		return err
	}
	m := &Medication{PatientID: req.PatientID, Name: req.Name, Doses: req.Doses}
	if err := h.svc.Create(c.Request().Context(), m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.requireAccess(c, m.PatientID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) List(c echo.Context) error {
	patientID, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
	}
	if err := h.requireAccess(c, patientID); err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	existing, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.requireAccess(c, existing.PatientID); err != nil {
		return err
	}
	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m := &Medication{ID: id, PatientID: existing.PatientID, Name: req.Name, Doses: req.Doses}
	if err := h.svc.Update(c.Request().Context(), m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	existing, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medication not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.requireAccess(c, existing.PatientID); err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) requireAccess(c echo.Context, patientID uuid.UUID) error {
	requester := auth.UserIDFromContext(c.Request().Context())
	if requester == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated requester")
	}
	ok, err := h.authorizer.Authorize(c.Request().Context(), requester, patientID, true)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "requester is not an active caregiver for this patient")
	}
	return nil
}
