package handlers

import (
	"github.com/gin-gonic/gin"
)

// respond writes the success envelope: {"status":"success", ...payload}.
func respond(c *gin.Context, code int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["status"] = "success"
	c.JSON(code, payload)
}

// respondMessage writes a success envelope that carries only a message.
func respondMessage(c *gin.Context, code int, message string) {
	respond(c, code, gin.H{"message": message})
}
