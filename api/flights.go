package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/Domenick1991/flightdata/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/date", h.listByDate)
	router.GET("/routes", h.routes)
	router.GET("/delay/", h.delayed)
	router.GET("/delay/percentage/", h.delayPercentage)
	router.GET("/:id", h.get)
}

// dateQuery treats an empty or zero value like a missing one.
type dateQuery struct {
	Day   int `form:"day" binding:"required"`
	Month int `form:"month" binding:"required"`
	Year  int `form:"year" binding:"required"`
}

type delayQuery struct {
	Airline string `form:"airline"`
	Airport string `form:"airport"`
}

type percentageQuery struct {
	Category string `form:"category"`
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	result, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(result) == 0 {
		notFound(c, "No flight found for the provided ID")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) listByDate(c *gin.Context) {
	var q dateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing date parameters"})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date parameters"})
		}
		return
	}
	offset, ok := bindOffset(c)
	if !ok {
		return
	}

	result, err := h.service.ListByDate(c.Request.Context(), q.Day, q.Month, q.Year)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(result) == 0 {
		notFound(c, "No flights found for the provided date")
		return
	}
	c.JSON(http.StatusOK, Page(result, offset))
}

func (h *FlightHandler) routes(c *gin.Context) {
	offset, ok := bindOffset(c)
	if !ok {
		return
	}
	result, err := h.service.FrequentRoutes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if len(result) == 0 {
		notFound(c, "No flight routes found")
		return
	}
	c.JSON(http.StatusOK, Page(result, offset))
}

func (h *FlightHandler) delayed(c *gin.Context) {
	var q delayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, ok := bindOffset(c)
	if !ok {
		return
	}

	var (
		result []domain.Flight
		err    error
	)
	switch {
	case q.Airline != "" && q.Airport != "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide either an airline or an airport, not both"})
		return
	case q.Airline != "":
		result, err = h.service.ListDelayedByAirline(c.Request.Context(), q.Airline)
	case q.Airport != "":
		result, err = h.service.ListDelayedByAirport(c.Request.Context(), q.Airport)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parameter airline or airport is required"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if len(result) == 0 {
		notFound(c, "No delayed flights found")
		return
	}
	c.JSON(http.StatusOK, Page(result, offset))
}

// delayPercentage pages only the airports breakdown; the airline and hour breakdowns are small.
func (h *FlightHandler) delayPercentage(c *gin.Context) {
	var q percentageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category := domain.DelayCategory(q.Category)

	offset := 0
	if category == domain.DelayByAirports {
		var ok bool
		if offset, ok = bindOffset(c); !ok {
			return
		}
	}

	result, err := h.service.DelayPercentage(c.Request.Context(), category)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(result) == 0 {
		notFound(c, "No delay percentages found")
		return
	}
	if category == domain.DelayByAirports {
		c.JSON(http.StatusOK, Page(result, offset))
		return
	}
	c.JSON(http.StatusOK, result)
}
