package util

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Production hides causes and upstream messages from clients. Set once at startup.
var Production = false

func SuccessResponse(data interface{}) gin.H {
	return gin.H{
		"success": true,
		"message": SUCCESS,
		"data":    data,
	}
}

func SuccessMessage(message string, data interface{}) gin.H {
	return gin.H{
		"success": true,
		"message": message,
		"data":    data,
	}
}

/*
* Upstream and internal messages are withheld in production
* The error field only carries the cause outside production
 */
func FailedResponse(err error) gin.H {
	message := err.Error()
	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	kind := KindOf(err)
	if Production && (kind == KindUpstream || kind == KindInternal) {
		message = SOMETHING_WENT_WRONG
	}
	body := gin.H{
		"success": false,
		"message": message,
		"kind":    kind,
	}
	if !Production {
		body["error"] = err.Error()
	}
	return body
}
