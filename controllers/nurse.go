package controllers

import (
	"net/http"

	"WardCare360/config/authorization"
	"WardCare360/services"

	"github.com/gin-gonic/gin"
)

func Nurse(router *gin.Engine) {
	nurse := router.Group("/nurse")
	{
		nurse.GET("/wards", authorization.Authorize("ward", "view"), ListNurseWards)
		nurse.GET("/wards/occupancy", authorization.Authorize("ward", "view"), WardOccupancy)
		nurse.POST(admissionPath+"/clinical/:kind", authorization.Authorize("admission", "clinical"), AddClinicalEntry)
		nurse.PUT(admissionPath+"/treatments/:type/:itemId/administer", authorization.Authorize("treatment", "administer"), AdministerTreatment)
		nurse.PUT(admissionPath+"/treatments/:type/:itemId/skip", authorization.Authorize("treatment", "skip"), SkipTreatment)
		nurse.PUT(admissionPath+"/ipd-details", authorization.Authorize("admission", "ipdDetails"), MarkIPDDetailsUpdated)
		nurse.POST("/emergency-medications", authorization.Authorize("emergencyMedication", "request"), RequestEmergencyMedication)
		nurse.POST("/lab-reports", authorization.Authorize("labReport", "create"), AddLabReport)
	}
}

func ListNurseWards(c *gin.Context) {
	wards, err := services.ListNurseWards(c, authorization.Caller(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, wards)
}

type treatmentNotes struct {
	Notes string `json:"notes"`
}

func treatmentNotesFrom(c *gin.Context) (string, bool) {
	var body treatmentNotes
	if c.Request.ContentLength > 0 && !bind(c, &body) {
		return "", false
	}
	return body.Notes, true
}

func AdministerTreatment(c *gin.Context) {
	notes, ok := treatmentNotesFrom(c)
	if !ok {
		return
	}
	item, err := services.AdministerTreatment(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), c.Param("type"), c.Param("itemId"), notes)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func SkipTreatment(c *gin.Context) {
	notes, ok := treatmentNotesFrom(c)
	if !ok {
		return
	}
	item, err := services.SkipTreatment(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), c.Param("type"), c.Param("itemId"), notes)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, item)
}

func MarkIPDDetailsUpdated(c *gin.Context) {
	admission, err := services.MarkIPDDetailsUpdated(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, admission)
}

func RequestEmergencyMedication(c *gin.Context) {
	var input services.EmergencyMedicationInput
	if !bind(c, &input) {
		return
	}
	med, err := services.RequestEmergencyMedication(c, authorization.Caller(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, med)
}
