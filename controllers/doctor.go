package controllers

import (
	"net/http"

	"WardCare360/config/authorization"
	"WardCare360/models"
	"WardCare360/services"

	"github.com/gin-gonic/gin"
)

func Doctor(router *gin.Engine) {
	doctor := router.Group("/doctor")
	{
		doctor.GET("/patients", authorization.Authorize("patient", "view"), ListDoctorPatients)
		doctor.GET("/discharges/pending", authorization.Authorize("admission", "discharge"), ListPendingDischarges)

		doctor.POST(admissionPath+"/admit", authorization.Authorize("admission", "promote"), PromoteToInpatient)
		doctor.PUT(admissionPath+"/bed", authorization.Authorize("admission", "assignBed"), AssignBed)
		doctor.POST(admissionPath+"/clinical/:kind", authorization.Authorize("admission", "clinical"), AddClinicalEntry)
		doctor.POST(admissionPath+"/treatments/:type", authorization.Authorize("treatment", "order"), OrderTreatment)
		doctor.DELETE(admissionPath+"/treatments/:type/:itemId", authorization.Authorize("treatment", "delete"), DeleteTreatment)
		doctor.PUT(admissionPath+"/discharge-condition", authorization.Authorize("admission", "dischargeCondition"), SetDischargeCondition)
		doctor.PUT(admissionPath+"/amount", authorization.Authorize("admission", "amount"), SetAmountToBePayed)
		doctor.POST(admissionPath+"/discharge-summary/preview", authorization.Authorize("dischargeSummary", "preview"), PreviewDischargeSummary)
		doctor.POST("/discharge-summary/confirm", authorization.Authorize("dischargeSummary", "confirm"), ConfirmDischargeSummary)
		doctor.POST(admissionPath+"/discharge", authorization.Authorize("admission", "discharge"), Discharge)
		doctor.POST(admissionPath+"/investigations", authorization.Authorize("investigation", "create"), OrderInvestigation)
		doctor.GET(admissionPath+"/investigations", authorization.Authorize("investigation", "view"), ListInvestigations)
		doctor.PUT("/emergency-medications/:id/decision", authorization.Authorize("emergencyMedication", "decide"), DecideEmergencyMedication)
		doctor.GET("/history/:patientId", authorization.Authorize("history", "view"), FetchHistory)
	}
}

func ListDoctorPatients(c *gin.Context) {
	patients, err := services.ListDoctorPatients(c, authorization.Caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, patients)
}

func ListPendingDischarges(c *gin.Context) {
	pending, err := services.ListPendingDischarges(c, authorization.Caller(c))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, pending)
}

type admitRequest struct {
	AdmitNotes string `json:"admitNotes"`
}

/*
* The body is optional, admit notes default to empty
 */
func PromoteToInpatient(c *gin.Context) {
	var body admitRequest
	if c.Request.ContentLength > 0 && !bind(c, &body) {
		return
	}
	admission, err := services.PromoteToInpatient(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), body.AdmitNotes)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, admission)
}

type bedRequest struct {
	SectionID string `json:"sectionId" binding:"required"`
	BedNumber int    `json:"bedNumber" binding:"required,min=1"`
}

func AssignBed(c *gin.Context) {
	var body bedRequest
	if !bind(c, &body) {
		return
	}
	admission, err := services.AssignBed(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), body.SectionID, body.BedNumber)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, admission)
}

// AddClinicalEntry is shared by the doctor and nurse groups. The service decides which kinds each role may add.
func AddClinicalEntry(c *gin.Context) {
	var input services.ClinicalEntryInput
	if !bind(c, &input) {
		return
	}
	admission, err := services.AddClinicalEntry(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), c.Param("kind"), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, admission)
}

func OrderTreatment(c *gin.Context) {
	var input services.TreatmentInput
	if !bind(c, &input) {
		return
	}
	item, err := services.OrderTreatment(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), c.Param("type"), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, item)
}

func DeleteTreatment(c *gin.Context) {
	err := services.DeleteTreatment(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), c.Param("type"), c.Param("itemId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"itemId": c.Param("itemId")})
}

func SetDischargeCondition(c *gin.Context) {
	var input services.DischargeConditionInput
	if !bind(c, &input) {
		return
	}
	admission, err := services.SetDischargeCondition(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, admission)
}

type amountRequest struct {
	AmountToBePayed interface{} `json:"amountToBePayed"`
}

func SetAmountToBePayed(c *gin.Context) {
	var body amountRequest
	if !bind(c, &body) {
		return
	}
	admission, err := services.SetAmountToBePayed(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), body.AmountToBePayed)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, admission)
}

func PreviewDischargeSummary(c *gin.Context) {
	var fields models.DischargeSummaryFields
	if !bind(c, &fields) {
		return
	}
	draft, err := services.PreviewDischargeSummary(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), fields)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, draft)
}

type confirmRequest struct {
	DraftID string `json:"draftId" binding:"required"`
}

func ConfirmDischargeSummary(c *gin.Context) {
	var body confirmRequest
	if !bind(c, &body) {
		return
	}
	summary, err := services.ConfirmDischargeSummary(c, authorization.Caller(c), body.DraftID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, summary)
}

func Discharge(c *gin.Context) {
	result, err := services.Discharge(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func OrderInvestigation(c *gin.Context) {
	var input services.InvestigationInput
	if !bind(c, &input) {
		return
	}
	inv, err := services.OrderInvestigation(c, authorization.Caller(c), c.Param("patientId"), c.Param("admissionId"), input)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, inv)
}

func ListInvestigations(c *gin.Context) {
	invs, err := services.ListInvestigations(c, c.Param("patientId"), c.Param("admissionId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, invs)
}

type decisionRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Notes    string `json:"notes"`
}

func DecideEmergencyMedication(c *gin.Context) {
	var body decisionRequest
	if !bind(c, &body) {
		return
	}
	med, err := services.DecideEmergencyMedication(c, authorization.Caller(c), c.Param("id"), *body.Approved, body.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, med)
}
