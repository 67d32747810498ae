package testutils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetTestGinContext(w http.ResponseWriter, req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

// WithUser marks the context as authenticated for userID.
func WithUser(c *gin.Context, userID uuid.UUID, username string) *gin.Context {
	c.Set("userID", userID)
	c.Set("username", username)
	return c
}
