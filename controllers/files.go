package controllers

import (
	"net/http"

	"WardCare360/config/authorization"
	"WardCare360/services"

	"github.com/gin-gonic/gin"
)

func Files(router *gin.Engine) {
	router.GET("/files/:fileId", authorization.Authorize("file", "view"), DownloadFile)
}

func DownloadFile(c *gin.Context) {
	data, err := services.DownloadFile(c, c.Param("fileId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/pdf", data)
}
