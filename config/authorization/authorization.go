package authorization

import (
	"net/http"
	"strings"

	jwt "WardCare360/config/jwt"
	"WardCare360/models"
	"WardCare360/role"
	"WardCare360/util"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

/*
* Read the bearer token and parse it
* Keep code, name and usertype in the context for the handlers
 */
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.Unauthenticated(util.MISSING_TOKEN)))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.Unauthenticated(util.INVALID_TOKEN)))
			return
		}
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			log.Println("Error from parseToken: ", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, util.FailedResponse(util.Unauthenticated(util.INVALID_TOKEN)))
			return
		}
		c.Set("code", claims.Code)
		c.Set("name", claims.Name)
		c.Set("usertype", claims.UserType)
		c.Next()
	}
}

func Authorize(resource string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		usertype := c.GetString("usertype")
		if !role.Can(usertype, resource, action) {
			log.WithFields(log.Fields{"usertype": usertype, "resource": resource, "action": action}).Warn("access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, util.FailedResponse(util.NotAuthorized(util.INVALID_USER_TO_ACCESS)))
			return
		}
		c.Next()
	}
}

func Caller(c *gin.Context) models.StaffRef {
	return models.StaffRef{
		ID:       c.GetString("code"),
		Name:     c.GetString("name"),
		UserType: c.GetString("usertype"),
	}
}
