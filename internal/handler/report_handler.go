package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves spreadsheet exports
type ReportHandler struct {
	service *service.ReportService
	clock   service.Clock
	log     zerolog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service *service.ReportService, clock service.Clock, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{service: service, clock: clock, log: log}
}

// VehicleReport handles GET /api/v1/reports/vehicles
func (h *ReportHandler) VehicleReport(c *gin.Context) {
	var f models.ReportFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondBindError(c, err)
		return
	}

	wb, err := h.service.GenerateVehicleReport(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer func() {
		if err := wb.Close(); err != nil {
			h.log.Warn().Err(err).Msg("close workbook")
		}
	}()

	filename := fmt.Sprintf("vehicle-report-%s.xlsx", h.clock.Now().UTC().Format(time.DateOnly))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := wb.Write(c.Writer); err != nil {
		h.log.Error().Err(err).Msg("write report")
		_ = c.Error(err)
	}
}
