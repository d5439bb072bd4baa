package http

import (
	"net/http"

	"github.com/dkeye/sfu-control-plane/internal/apperr"
	"github.com/gin-gonic/gin"
)

// writeError translates an apperr.Kind into the §6/§7 JSON error shape and
// status code.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		status = http.StatusBadRequest
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperr.KindForbidden:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindAmbiguous:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "candidates": apperr.CandidatesOf(err)})
		return
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindUpstreamUnavailable:
		status = http.StatusServiceUnavailable
	case apperr.KindTransient:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
