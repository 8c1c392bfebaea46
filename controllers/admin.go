package controllers

import (
	"net/http"
	"strconv"

	"WardCare360/config/authorization"
	"WardCare360/models"
	"WardCare360/services"
	"WardCare360/util"

	"github.com/gin-gonic/gin"
)

func Admin(router *gin.Engine) {
	admin := router.Group("/admin")
	{
		admin.POST("/patients", authorization.Authorize("patient", "create"), CreatePatient)
		admin.GET("/patients", authorization.Authorize("patient", "view"), ListPatients)
		admin.GET("/patients/:patientId", authorization.Authorize("patient", "view"), FetchPatient)
		admin.PATCH("/patients/:patientId", authorization.Authorize("patient", "update"), UpdatePatient)
		admin.POST("/patients/:patientId/admissions", authorization.Authorize("admission", "create"), Admit)
		admin.PUT(admissionPath+"/doctor", authorization.Authorize("admission", "assignDoctor"), AssignDoctor)

		admin.POST("/sections", authorization.Authorize("section", "create"), CreateSection)
		admin.GET("/sections", authorization.Authorize("section", "view"), ListSections)
		admin.POST("/wards", authorization.Authorize("ward", "create"), CreateWard)
		admin.GET("/wards", authorization.Authorize("ward", "view"), ListWards)
		admin.POST("/wards/sync", authorization.Authorize("ward", "sync"), SyncWards)
		admin.GET("/wards/occupancy", authorization.Authorize("ward", "view"), WardOccupancy)
		admin.POST("/wards/:wardId/nurses", authorization.Authorize("ward", "assignNurse"), AssignNurse)
		admin.DELETE("/wards/:wardId/nurses/:assignmentId", authorization.Authorize("ward", "assignNurse"), EndNurseAssignment)

		admin.GET("/emergency-medications", authorization.Authorize("emergencyMedication", "view"), ListEmergencyMedications)
		admin.PUT("/emergency-medications/:id/review", authorization.Authorize("emergencyMedication", "review"), ReviewEmergencyMedication)
		admin.POST("/lab-reports", authorization.Authorize("labReport", "create"), AddLabReport)
		admin.GET("/history/:patientId", authorization.Authorize("history", "view"), FetchHistory)
		admin.POST("/archival/reconcile", authorization.Authorize("archival", "reconcile"), ReconcileArchival)
	}
}

/*
* Bind JSON
* And Pass to the service
 */
func CreatePatient(c *gin.Context) {
	var input services.PatientInput
	if !bind(c, &input) {
		return
	}
	patient, err := services.CreatePatient(c, authorization.Caller(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, patient)
}

/*
* discharged is optional: true, false or absent for every patient
 */
func ListPatients(c *gin.Context) {
	var discharged *bool
	if raw := c.Query("discharged"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, util.ValidationError("discharged must be true or false"))
			return
		}
		discharged = &value
	}
	patients, err := services.ListPatients(c, discharged)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, patients)
}

func FetchPatient(c *gin.Context) {
	patient, err := services.FetchPatient(c, c.Param("patientId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, patient)
}

func UpdatePatient(c *gin.Context) {
	var update services.PatientUpdate
	if !bind(c, &update) {
		return
	}
	patient, err := services.UpdatePatient(c, authorization.Caller(c), c.Param("patientId"), update)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, patient)
}

func Admit(c *gin.Context) {
	var input services.AdmissionInput
	if !bind(c, &input) {
		return
	}
	admission, err := services.Admit(c, authorization.Caller(c), c.Param("patientId"), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, admission)
}

func AssignDoctor(c *gin.Context) {
	var doctor models.StaffRef
	if !bind(c, &doctor) {
		return
	}
	admission, err := services.AssignDoctor(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), doctor)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, admission)
}

func CreateSection(c *gin.Context) {
	var input services.SectionInput
	if !bind(c, &input) {
		return
	}
	section, err := services.CreateSection(c, authorization.Caller(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, section)
}

func ListSections(c *gin.Context) {
	sections, err := services.ListSections(c)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, sections)
}

func CreateWard(c *gin.Context) {
	var input services.WardInput
	if !bind(c, &input) {
		return
	}
	ward, err := services.CreateWard(c, authorization.Caller(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, ward)
}

func ListWards(c *gin.Context) {
	wards, err := services.ListWards(c)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, wards)
}

func SyncWards(c *gin.Context) {
	result, err := services.SyncWardsWithSections(c)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// WardOccupancy is shared by the admin and nurse groups.
func WardOccupancy(c *gin.Context) {
	occupancy, err := services.WardOccupancy(c)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, occupancy)
}

func AssignNurse(c *gin.Context) {
	var input services.NurseAssignmentInput
	if !bind(c, &input) {
		return
	}
	assignment, err := services.AssignNurse(c, authorization.Caller(c), c.Param("wardId"), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, assignment)
}

func EndNurseAssignment(c *gin.Context) {
	assignment, err := services.EndNurseAssignment(c, authorization.Caller(c), c.Param("wardId"), c.Param("assignmentId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, assignment)
}

func ListEmergencyMedications(c *gin.Context) {
	meds, err := services.ListEmergencyMedications(c, c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, meds)
}

type reviewRequest struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected PendingDoctorApproval"`
	Notes  string `json:"notes"`
}

func ReviewEmergencyMedication(c *gin.Context) {
	var body reviewRequest
	if !bind(c, &body) {
		return
	}
	med, err := services.ReviewEmergencyMedication(c, authorization.Caller(c), c.Param("id"), body.Status, body.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, med)
}

// AddLabReport is shared by the admin and nurse groups.
func AddLabReport(c *gin.Context) {
	var input services.LabReportInput
	if !bind(c, &input) {
		return
	}
	report, err := services.AddLabReport(c, authorization.Caller(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, report)
}

// FetchHistory is shared by the admin and doctor groups.
func FetchHistory(c *gin.Context) {
	history, err := services.FetchHistory(c, c.Param("patientId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, history)
}

func ReconcileArchival(c *gin.Context) {
	report, err := services.ReconcileArchival(c)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, report)
}
