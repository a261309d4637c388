// internal/interfaces/http/handlers/common.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// respondError writes the error envelope; 5xx causes are logged, not leaked
func respondError(c *gin.Context, logger logrus.FieldLogger, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		if err != nil {
			_ = c.Error(err)
			logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error(message)
		}
		c.JSON(status, gin.H{"error": message})
		return
	}

	body := gin.H{"error": message}
	if err != nil && err.Error() != message {
		body["details"] = err.Error()
	}
	c.JSON(status, body)
}

// bindError answers a request whose body or query did not bind
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": details,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
