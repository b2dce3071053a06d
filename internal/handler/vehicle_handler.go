package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/service"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

// VehicleHandler handles HTTP requests for vehicles, their trips and
// their daily status
type VehicleHandler struct {
	vehicles *service.VehicleService
	status   *service.StatusService
	log      zerolog.Logger
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicles *service.VehicleService, status *service.StatusService, log zerolog.Logger) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, status: status, log: log}
}

// List handles GET /api/v1/vehicles
func (h *VehicleHandler) List(c *gin.Context) {
	var q models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.vehicles.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, result)
}

// Get handles GET /api/v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.vehicles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, vehicle)
}

// Status handles GET /api/v1/vehicles/:id/status?date=YYYY-MM-DD
func (h *VehicleHandler) Status(c *gin.Context) {
	summary, err := h.status.ComputeStatus(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, summary)
}

// Create handles POST /api/v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var in models.CreateVehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	vehicle, err := h.vehicles.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, vehicle)
}

// Update handles PUT /api/v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var in models.UpdateVehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	vehicle, err := h.vehicles.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, vehicle)
}

// Delete handles DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.vehicles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Success(c, gin.H{"id": c.Param("id")})
}

// RecordTrip handles POST /api/v1/vehicles/:id/trips
func (h *VehicleHandler) RecordTrip(c *gin.Context) {
	var in models.CreateTripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	trip, err := h.vehicles.RecordTrip(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Created(c, trip)
}
