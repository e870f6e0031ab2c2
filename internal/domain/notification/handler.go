package notification

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carealert/carealert/internal/platform/auth"
)

// Handler exposes the dispatch operations.
type Handler struct {
	dispatcher *Dispatcher
}

func NewHandler(d *Dispatcher) *Handler {
	return &Handler{dispatcher: d}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/notifications/caregiver-message", h.SendCaregiverMessage)
	api.POST("/notifications/medication-alarm", h.SendMedicationAlarm)
}

func (h *Handler) SendCaregiverMessage(c echo.Context) error {
	var in CaregiverMessage
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	requester := auth.UserIDFromContext(c.Request().Context())
	result, err := h.dispatcher.DispatchCaregiverMessage(c.Request().Context(), requester, &in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) SendMedicationAlarm(c echo.Context) error {
	var in MedicationAlarm
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	requester := auth.UserIDFromContext(c.Request().Context())
	result, err := h.dispatcher.DispatchMedicationAlarm(c.Request().Context(), requester, &in)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func toHTTPError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return echo.NewHTTPError(HTTPStatus(e.Kind), e.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
