package relationship

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carealert/carealert/internal/platform/auth"
	"github.com/carealert/carealert/pkg/pagination"
)

// Handler exposes the read-only caregiver link surface.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/caregivers/me/patients", h.ListMyPatients, auth.RequireRole("caregiver"))
}

// ListMyPatients returns the active links for the authenticated caregiver.
func (h *Handler) ListMyPatients(c echo.Context) error {
	caregiverID := auth.UserIDFromContext(c.Request().Context())
	if caregiverID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated requester")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatients(c.Request().Context(), caregiverID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
