package controllers

import (
	"WardCare360/util"

	"github.com/gin-gonic/gin"
)

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, util.SuccessResponse(data))
}

func fail(c *gin.Context, err error) {
	c.JSON(util.StatusCode(err), util.FailedResponse(err))
}

// bind reports a malformed body as a validation error and tells the handler to stop.
func bind(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		fail(c, util.ValidationError(err.Error()))
		return false
	}
	return true
}

const admissionPath = "/admissions/:patientId/:admissionId"
