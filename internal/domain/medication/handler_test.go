package medication

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carealert/carealert/internal/platform/auth"
)

// allowSelfAuthorizer grants self access plus an explicit caregiver set.
type allowSelfAuthorizer struct {
	caregivers map[string]bool
}

func (a *allowSelfAuthorizer) Authorize(_ context.Context, requesterID string, patientID uuid.UUID, allowSelf bool) (bool, error) {
	if allowSelf && requesterID == patientID.String() {
		return true, nil
	}
	return a.caregivers[requesterID], nil
}

func medRequest(e *echo.Echo, method, target, requesterID, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if requesterID != "" {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, requesterID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateMedication_Self(t *testing.T) {
	repo := newMockMedicationRepo()
	h := NewHandler(NewService(repo), &allowSelfAuthorizer{})

	e := echo.New()
	patientID := uuid.New()
	body := fmt.Sprintf(`{"patient_id":%q,"name":"Lisinopril","doses":[{"time":"08:00"},{"time":"20:00"}]}`, patientID)
	c, rec := medRequest(e, http.MethodPost, "/api/v1/medications", patientID.String(), body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var created Medication
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(created.Doses) != 2 || created.Doses[0].Time != "08:00" {
		t.Errorf("doses not preserved in order: %+v", created.Doses)
	}
}

func TestCreateMedication_Caregiver(t *testing.T) {
	repo := newMockMedicationRepo()
	h := NewHandler(NewService(repo), &allowSelfAuthorizer{caregivers: map[string]bool{"caregiver-1": true}})

	e := echo.New()
	body := fmt.Sprintf(`{"patient_id":%q,"name":"Lisinopril"}`, uuid.New())
	c, rec := medRequest(e, http.MethodPost, "/api/v1/medications", "caregiver-1", body)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestCreateMedication_Forbidden(t *testing.T) {
	h := NewHandler(NewService(newMockMedicationRepo()), &allowSelfAuthorizer{})

	e := echo.New()
	body := fmt.Sprintf(`{"patient_id":%q,"name":"Lisinopril"}`, uuid.New())
	c, _ := medRequest(e, http.MethodPost, "/api/v1/medications", "stranger", body)

	err := h.Create(c)
	if err == nil {
		t.Fatal("expected error for unlinked requester")
	}
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestGetMedication_NotFound(t *testing.T) {
	h := NewHandler(NewService(newMockMedicationRepo()), &allowSelfAuthorizer{})

	e := echo.New()
	c, _ := medRequest(e, http.MethodGet, "/api/v1/medications/x", "someone", "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	if err == nil {
		t.Fatal("expected error")
	}
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestUpdateMedication_EmitsOneEvent(t *testing.T) {
	repo := newMockMedicationRepo()
	svc := NewService(repo)
	listener := &recordingListener{}
	svc.AddListener(listener)
	h := NewHandler(svc, &allowSelfAuthorizer{})

	patientID := uuid.New()
	med := &Medication{PatientID: patientID, Name: "Old", Doses: []Dose{{Time: "08:00"}}}
	if err := svc.Create(context.Background(), med); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	body := `{"name":"New","doses":[{"time":"09:00"}]}`
	c, rec := medRequest(e, http.MethodPut, "/api/v1/medications/"+med.ID.String(), patientID.String(), body)
	c.SetParamNames("id")
	c.SetParamValues(med.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// One create + one update.
	if len(listener.events) != 2 {
		t.Errorf("expected 2 events, got %d", len(listener.events))
	}
}

func TestDeleteMedication(t *testing.T) {
	repo := newMockMedicationRepo()
	svc := NewService(repo)
	h := NewHandler(svc, &allowSelfAuthorizer{})

	patientID := uuid.New()
	med := &Medication{PatientID: patientID, Name: "Lisinopril"}
	if err := svc.Create(context.Background(), med); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	c, rec := medRequest(e, http.MethodDelete, "/api/v1/medications/"+med.ID.String(), patientID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(med.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(repo.store) != 0 {
		t.Error("expected medication removed")
	}
}

func TestListMedications_RequiresPatientID(t *testing.T) {
	h := NewHandler(NewService(newMockMedicationRepo()), &allowSelfAuthorizer{})

	e := echo.New()
	c, _ := medRequest(e, http.MethodGet, "/api/v1/medications", "someone", "")

	err := h.List(c)
	if err == nil {
		t.Fatal("expected error without patient_id")
	}
	if httpErr, ok := err.(*echo.HTTPError); !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestListMedications(t *testing.T) {
	repo := newMockMedicationRepo()
	svc := NewService(repo)
	h := NewHandler(svc, &allowSelfAuthorizer{})

	patientID := uuid.New()
	if err := svc.Create(context.Background(), &Medication{PatientID: patientID, Name: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	c, rec := medRequest(e, http.MethodGet, "/api/v1/medications?patient_id="+patientID.String(), patientID.String(), "")

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected one medication, got %d", resp.Total)
	}
}
