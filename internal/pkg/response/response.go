package response

import "github.com/gin-gonic/gin"

// The share API speaks the flat wire format its browser shell expects:
// payloads as-is on success, {"error": message} on failure.

func JSON(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
