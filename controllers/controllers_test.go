package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"WardCare360/config/authorization"
	jwt "WardCare360/config/jwt"
	"WardCare360/models"
	"WardCare360/notification"
	"WardCare360/repository"
	"WardCare360/services"
	"WardCare360/upload"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct{}

func (stubRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwt.Configure("controller-test-secret", "wardcare360")
	require.NoError(t, services.Init(services.Dependencies{
		Store:    repository.NewMemoryStore(),
		Renderer: stubRenderer{},
		Uploader: upload.NewMemoryUploader("/files"),
		Notifier: &notification.Recorder{},
	}))
	r := gin.New()
	r.Use(authorization.JWTAuth())
	Admin(r)
	Doctor(r)
	Nurse(r)
	Files(r)
	return r
}

func token(t *testing.T, code, usertype string) string {
	t.Helper()
	signed, err := jwt.GenerateToken(code, code+"-name", usertype, time.Hour)
	require.NoError(t, err)
	return signed
}

func call(t *testing.T, r *gin.Engine, method, path, bearer string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	out := envelope{}
	if w.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func TestMissingTokenIsUnauthenticated(t *testing.T) {
	r := newRouter(t)
	code, body := call(t, r, http.MethodGet, "/admin/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, body.Success)
}

func TestRoleWithoutCapabilityIsForbidden(t *testing.T) {
	r := newRouter(t)
	nurse := token(t, "N1", "nurse")
	code, _ := call(t, r, http.MethodPost, "/admin/patients", nurse, map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusForbidden, code)

	doctor := token(t, "D1", "doctor")
	code, _ = call(t, r, http.MethodPost, "/admin/archival/reconcile", doctor, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdmissionLifecycleOverHTTP(t *testing.T) {
	r := newRouter(t)
	admin := token(t, "A1", "admin")
	doctor := token(t, "D1", "doctor")
	nurse := token(t, "N1", "nurse")

	code, body := call(t, r, http.MethodPost, "/admin/patients", admin, map[string]interface{}{
		"name":          "Ravi",
		"gender":        "Male",
		"pendingAmount": 200,
		"admission":     map[string]interface{}{"reason": "Fever"},
	})
	require.Equal(t, http.StatusCreated, code, body.Message)
	var patient models.Patient
	require.NoError(t, json.Unmarshal(body.Data, &patient))
	admissionID := patient.AdmissionRecords[0].AdmissionID
	base := "/admissions/" + patient.PatientID + "/" + admissionID

	code, _ = call(t, r, http.MethodPut, "/admin"+base+"/doctor", admin, map[string]string{"id": "D1", "name": "Dr. One"})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, r, http.MethodPost, "/doctor"+base+"/admit", doctor, map[string]string{"admitNotes": "observe"})
	require.Equal(t, http.StatusOK, code, body.Message)
	code, body = call(t, r, http.MethodPost, "/doctor"+base+"/admit", doctor, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", body.Kind)

	code, body = call(t, r, http.MethodPost, "/doctor"+base+"/treatments/medications", doctor, map[string]string{"name": "Paracetamol"})
	require.Equal(t, http.StatusCreated, code, body.Message)
	var item models.TreatmentItem
	require.NoError(t, json.Unmarshal(body.Data, &item))

	code, _ = call(t, r, http.MethodPut, "/nurse"+base+"/treatments/medications/"+item.ItemID+"/administer", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodPut, "/nurse"+base+"/treatments/medications/"+item.ItemID+"/skip", nurse, map[string]string{"notes": "late"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, r, http.MethodPut, "/doctor"+base+"/discharge-condition", doctor, map[string]interface{}{"conditionAtDischarge": "Recovered", "amountToBePayed": 10})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = call(t, r, http.MethodPut, "/doctor"+base+"/discharge-condition", doctor, map[string]interface{}{"conditionAtDischarge": "Discharged", "amountToBePayed": 500})
	require.Equal(t, http.StatusOK, code)

	code, body = call(t, r, http.MethodPost, "/doctor"+base+"/discharge-summary/preview", doctor, map[string]string{
		"finalDiagnosis":       "Viral fever",
		"complaints":           "Fever",
		"examinationFindings":  "Febrile",
		"conditionOnDischarge": "Stable",
	})
	require.Equal(t, http.StatusCreated, code, body.Message)
	var draft models.DischargeDraft
	require.NoError(t, json.Unmarshal(body.Data, &draft))

	code, _ = call(t, r, http.MethodPost, "/doctor/discharge-summary/confirm", doctor, map[string]string{"draftId": draft.DraftID})
	require.Equal(t, http.StatusCreated, code)
	code, _ = call(t, r, http.MethodPost, "/doctor/discharge-summary/confirm", doctor, map[string]string{"draftId": draft.DraftID})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, r, http.MethodGet, "/files/"+draft.FileID, nurse, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodGet, "/files/missing", nurse, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = call(t, r, http.MethodPost, "/doctor"+base+"/discharge", doctor, nil)
	require.Equal(t, http.StatusOK, code, body.Message)

	code, body = call(t, r, http.MethodGet, "/admin/history/"+patient.PatientID, admin, nil)
	require.Equal(t, http.StatusOK, code)
	var history models.PatientHistory
	require.NoError(t, json.Unmarshal(body.Data, &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, 500.0, history.History[0].AmountToBePayed)
	assert.Equal(t, 200.0, history.History[0].PreviousRemainingAmount)

	code, body = call(t, r, http.MethodGet, "/admin/patients?discharged=true", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var discharged []models.Patient
	require.NoError(t, json.Unmarshal(body.Data, &discharged))
	assert.Len(t, discharged, 1)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	r := newRouter(t)
	admin := token(t, "A1", "admin")
	req := httptest.NewRequest(http.MethodPost, "/admin/sections", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	code, _ := call(t, r, http.MethodGet, "/admin/patients?discharged=maybe", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWardRoutes(t *testing.T) {
	r := newRouter(t)
	admin := token(t, "A1", "admin")
	nurse := token(t, "N1", "nurse")

	code, _ := call(t, r, http.MethodPost, "/admin/sections", admin, map[string]interface{}{"name": "ICU", "beds": 3})
	require.Equal(t, http.StatusCreated, code)
	code, body := call(t, r, http.MethodPost, "/admin/wards/sync", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"created":1,"updated":0}`, string(body.Data))

	code, body = call(t, r, http.MethodGet, "/admin/wards", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var wards []models.Ward
	require.NoError(t, json.Unmarshal(body.Data, &wards))
	require.Len(t, wards, 1)

	code, _ = call(t, r, http.MethodPost, "/admin/wards/"+wards[0].WardID+"/nurses", admin, map[string]string{"nurseId": "N1", "nurseName": "Nisha", "shift": "Night"})
	require.Equal(t, http.StatusCreated, code)

	code, body = call(t, r, http.MethodGet, "/nurse/wards", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []services.NurseWard
	require.NoError(t, json.Unmarshal(body.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "Night", mine[0].Shift)

	code, body = call(t, r, http.MethodGet, "/nurse/wards/occupancy", nurse, nil)
	require.Equal(t, http.StatusOK, code)
	var occupancy []models.WardOccupancy
	require.NoError(t, json.Unmarshal(body.Data, &occupancy))
	require.Len(t, occupancy, 1)
	assert.Len(t, occupancy[0].Beds, 3)
	assert.Len(t, occupancy[0].ActiveNurses, 1)
}

// Unknown patients and ids would be 404 from the services, so a 400 shows binding ran first.
func TestBindingRejectsBeforeServices(t *testing.T) {
	r := newRouter(t)
	admin := token(t, "A1", "admin")
	doctor := token(t, "D1", "doctor")
	base := "/admissions/P09999/missing"

	cases := []struct {
		name   string
		method string
		path   string
		bearer string
		body   interface{}
	}{
		{"bed without section", http.MethodPut, "/doctor" + base + "/bed", doctor, map[string]interface{}{"bedNumber": 2}},
		{"bed number zero", http.MethodPut, "/doctor" + base + "/bed", doctor, map[string]interface{}{"sectionId": "S1", "bedNumber": 0}},
		{"confirm without draft", http.MethodPost, "/doctor/discharge-summary/confirm", doctor, map[string]string{}},
		{"unknown discharge condition", http.MethodPut, "/doctor" + base + "/discharge-condition", doctor, map[string]interface{}{"conditionAtDischarge": "Recovered", "amountToBePayed": 10}},
		{"missing discharge condition", http.MethodPut, "/doctor" + base + "/discharge-condition", doctor, map[string]interface{}{"amountToBePayed": 10}},
		{"decision without approved", http.MethodPut, "/doctor/emergency-medications/missing/decision", doctor, map[string]string{"notes": "ok"}},
		{"review with unknown status", http.MethodPut, "/admin/emergency-medications/missing/review", admin, map[string]string{"status": "Maybe"}},
		{"nurse without id", http.MethodPost, "/admin/wards/missing/nurses", admin, map[string]string{"shift": "Night"}},
		{"nurse with unknown shift", http.MethodPost, "/admin/wards/missing/nurses", admin, map[string]string{"nurseId": "N1", "shift": "Afternoon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := call(t, r, tc.method, tc.path, tc.bearer, tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "VALIDATION_ERROR", body.Kind)
		})
	}

	code, _ := call(t, r, http.MethodPut, "/doctor/emergency-medications/missing/decision", doctor, map[string]interface{}{"approved": false})
	assert.Equal(t, http.StatusNotFound, code)
}
