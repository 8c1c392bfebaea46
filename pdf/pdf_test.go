package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDischargeHTML(t *testing.T) {
	html, err := BuildDischargeHTML(DischargeData{
		HospitalName:         "WardCare360",
		PatientID:            "P00001",
		PatientName:          "Ravi <Kumar>",
		FinalDiagnosis:       "Dengue fever",
		Complaints:           "Fever",
		ExaminationFindings:  "Low platelets",
		ConditionOnDischarge: "Stable",
		GeneratedAt:          time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "Dengue fever")
	assert.Contains(t, html, "Ravi &lt;Kumar&gt;")
	assert.Contains(t, html, "02/01/2026 10:30")
	assert.NotContains(t, html, "Treatment Given")
}

func TestWkhtmltopdfRenderer_MissingBinary(t *testing.T) {
	r := NewWkhtmltopdfRenderer("/nonexistent/wkhtmltopdf")
	_, err := r.Render(context.Background(), "<p>x</p>")
	assert.Error(t, err)
}
