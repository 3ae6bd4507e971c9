package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/gin-gonic/gin"
)

// PageSize caps every paginated response.
const PageSize = 10

// Page returns rows[offset:offset+PageSize], or an empty slice when offset is past the end.
func Page[T any](rows []T, offset int) []T {
	if offset < 0 || offset >= len(rows) {
		return []T{}
	}
	end := offset + PageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

type pageQuery struct {
	Offset int `form:"offset" binding:"gte=0"`
}

func bindOffset(c *gin.Context) (int, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return 0, false
	}
	return q.Offset, true
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"message": msg})
}

func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrServiceUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database not available"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
