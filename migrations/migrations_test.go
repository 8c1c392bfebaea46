package migrations

import (
	"testing"

	"WardCare360/models"

	"github.com/stretchr/testify/assert"
)

func TestLatestOpenAdmission(t *testing.T) {
	records := []models.AdmissionRecord{
		{AdmissionID: "a1", Status: models.AdmissionDischarged},
		{AdmissionID: "a2", Status: models.AdmissionDischarged},
	}
	assert.Equal(t, -1, latestOpenAdmission(records))
	assert.Equal(t, -1, latestOpenAdmission(nil))

	records = append(records, models.AdmissionRecord{AdmissionID: "a3"})
	assert.Equal(t, 2, latestOpenAdmission(records))
}

func TestStepsRunInOrder(t *testing.T) {
	names := []string{}
	for _, s := range steps {
		names = append(names, s.name)
	}
	assert.Equal(t, []string{"ensure indexes", "backfill revision", "backfill active admission"}, names)
}
