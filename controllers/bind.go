package controllers

import (
	"github.com/Ram-SrinivasChandran/cos-spring-project/pkg/resp"
	"github.com/Ram-SrinivasChandran/cos-spring-project/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		services.UseJSONFieldNames(v)
	}
}

// bindJSON decodes the body into obj and writes a 400 with the violated
// fields when it does not fit.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		resp.Error(c, services.BindError(err))
		return false
	}
	return true
}
