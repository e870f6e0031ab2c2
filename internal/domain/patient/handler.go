package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carealert/carealert/internal/platform/auth"
)

// Handler exposes the device registration surface. Only the patient themself
// may change their own token.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.PUT("/patients/:id/device", h.RegisterDevice)
	api.DELETE("/patients/:id/device", h.UnregisterDevice)
}

type registerDeviceRequest struct {
	DeviceToken string `json:"device_token"`
}

func (h *Handler) RegisterDevice(c echo.Context) error {
	id, err := h.authorizedPatientID(c)
	if err != nil {
		return err
	}
	var req registerDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.DeviceToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "device_token is required")
	}
	if err := h.svc.RegisterDevice(c.Request().Context(), id, req.DeviceToken); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UnregisterDevice(c echo.Context) error {
	id, err := h.authorizedPatientID(c)
	if err != nil {
		return err
	}
	if err := h.svc.UnregisterDevice(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) authorizedPatientID(c echo.Context) (uuid.UUID, error) {
	requester := auth.UserIDFromContext(c.Request().Context())
	if requester == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated requester")
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	if requester != id.String() {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "patients may only manage their own device")
	}
	return id, nil
}
