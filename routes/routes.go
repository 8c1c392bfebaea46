package routes

import (
	"WardCare360/config/authorization"
	"WardCare360/controllers"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine) {

	//privateroutes
	r.Use(authorization.JWTAuth())
	controllers.Admin(r)
	controllers.Doctor(r)
	controllers.Nurse(r)
	controllers.Files(r)
}
