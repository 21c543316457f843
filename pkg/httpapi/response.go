package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Code: 0, Message: "success", Data: data})
}

func fail(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, envelope{Code: httpCode, Message: message})
}
