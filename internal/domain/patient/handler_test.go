package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carealert/carealert/internal/platform/auth"
)

func deviceRequest(e *echo.Echo, method, patientID, requesterID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/api/v1/patients/"+patientID+"/device", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if requesterID != "" {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, requesterID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(patientID)
	return c, rec
}

func TestRegisterDevice_Self(t *testing.T) {
	repo := newMockPatientRepo()
	id := uuid.New()
	repo.store[id] = &Patient{ID: id}
	h := NewHandler(NewService(repo))

	e := echo.New()
	c, rec := deviceRequest(e, http.MethodPut, id.String(), id.String(), `{"device_token":"tok-1"}`)

	if err := h.RegisterDevice(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if !repo.store[id].HasDeviceToken() {
		t.Error("expected token stored")
	}
}

func TestRegisterDevice_OtherPatientForbidden(t *testing.T) {
	repo := newMockPatientRepo()
	id := uuid.New()
	repo.store[id] = &Patient{ID: id}
	h := NewHandler(NewService(repo))

	e := echo.New()
	c, _ := deviceRequest(e, http.MethodPut, id.String(), uuid.New().String(), `{"device_token":"tok-1"}`)

	err := h.RegisterDevice(c)
	if err == nil {
		t.Fatal("expected error for foreign patient")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", httpErr.Code)
	}
}

func TestRegisterDevice_MissingToken(t *testing.T) {
	repo := newMockPatientRepo()
	id := uuid.New()
	repo.store[id] = &Patient{ID: id}
	h := NewHandler(NewService(repo))

	e := echo.New()
	c, _ := deviceRequest(e, http.MethodPut, id.String(), id.String(), `{}`)

	err := h.RegisterDevice(c)
	if err == nil {
		t.Fatal("expected error for missing token")
	}
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestUnregisterDevice_NotFound(t *testing.T) {
	h := NewHandler(NewService(newMockPatientRepo()))

	e := echo.New()
	id := uuid.New()
	c, _ := deviceRequest(e, http.MethodDelete, id.String(), id.String(), "")

	err := h.UnregisterDevice(c)
	if err == nil {
		t.Fatal("expected error for unknown patient")
	}
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestUnregisterDevice_Self(t *testing.T) {
	repo := newMockPatientRepo()
	token := "tok-1"
	id := uuid.New()
	repo.store[id] = &Patient{ID: id, DeviceToken: &token}
	h := NewHandler(NewService(repo))

	e := echo.New()
	c, rec := deviceRequest(e, http.MethodDelete, id.String(), id.String(), "")

	if err := h.UnregisterDevice(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if repo.store[id].DeviceToken != nil {
		t.Error("expected token cleared")
	}
}
