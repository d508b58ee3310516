package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/persondata/internal/pkg/validation"
)

// ValidateIdentifier checks the path parameter param against an identity
// class before the handler runs. Failures go through HandleAPIError as
// InvalidIdentifier.
func ValidateIdentifier(v *validation.IdentityValidator, param, class string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := v.Validate(class, c.Param(param)); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}
