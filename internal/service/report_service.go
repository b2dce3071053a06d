package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/jengzang/fleet-tracker-go/internal/models"
	"github.com/jengzang/fleet-tracker-go/internal/repository"
)

// ReportSheet is the name of the worksheet holding the trip rows.
const ReportSheet = "Vehicle Report"

const (
	ongoing       = "Ongoing"
	noAddress     = "N/A"
	isoTimeFormat = "2006-01-02T15:04:05.000Z"
)

var reportColumns = []struct {
	header string
	width  float64
}{
	{"Vehicle", 15},
	{"Plate Number", 15},
	{"Status", 10},
	{"Start Time", 20},
	{"End Time", 20},
	{"Duration (min)", 15},
	{"Address", 30},
}

// ReportService renders trip history as spreadsheets
type ReportService struct {
	trips *repository.TripRepository
	loc   *time.Location
	log   zerolog.Logger
}

// NewReportService creates a report service. Filter dates are interpreted in loc.
func NewReportService(trips *repository.TripRepository, loc *time.Location, log zerolog.Logger) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{trips: trips, loc: loc, log: log}
}

// reportQuery turns the optional YYYY-MM-DD bounds into [startDate, endDate+1d).
func (s *ReportService) reportQuery(f models.ReportFilter) (repository.ReportQuery, error) {
	q := repository.ReportQuery{VehicleID: f.VehicleID}
	if f.StartDate != "" {
		d, err := ParseDate(f.StartDate, s.loc)
		if err != nil {
			return q, err
		}
		q.From = d
	}
	if f.EndDate != "" {
		d, err := ParseDate(f.EndDate, s.loc)
		if err != nil {
			return q, err
		}
		_, q.To = DayWindow(d)
	}
	if !q.From.IsZero() && !q.To.IsZero() && !q.From.Before(q.To) {
		return q, invalidArgument("startDate must not be after endDate")
	}
	return q, nil
}

// GenerateVehicleReport builds a workbook of matching trips, newest first.
// The caller must Close the returned file.
func (s *ReportService) GenerateVehicleReport(ctx context.Context, f models.ReportFilter) (*excelize.File, error) {
	q, err := s.reportQuery(f)
	if err != nil {
		return nil, err
	}

	trips, err := s.trips.ListForReport(ctx, q)
	if err != nil {
		return nil, storeUnavailable("list report trips", err)
	}

	wb, err := renderReport(trips)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	s.log.Info().Str("vehicle_id", f.VehicleID).Int("rows", len(trips)).Msg("vehicle report generated")
	return wb, nil
}

func renderReport(trips []models.TripWithVehicle) (*excelize.File, error) {
	wb := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			_ = wb.Close()
		}
	}()

	if err := wb.SetSheetName("Sheet1", ReportSheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(reportColumns))
	for i, col := range reportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := wb.SetColWidth(ReportSheet, name, name, col.width); err != nil {
			return nil, err
		}
		header[i] = col.header
	}
	if err := wb.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return nil, err
	}

	style, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E0E0E0"}},
	})
	if err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(len(reportColumns), 1)
	if err != nil {
		return nil, err
	}
	if err := wb.SetCellStyle(ReportSheet, "A1", last, style); err != nil {
		return nil, err
	}

	for i, t := range trips {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := reportRow(t)
		if err := wb.SetSheetRow(ReportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	ok = true
	return wb, nil
}

func reportRow(t models.TripWithVehicle) []interface{} {
	var end, duration interface{} = ongoing, ongoing
	if t.EndTime != nil {
		end = t.EndTime.UTC().Format(isoTimeFormat)
		duration = int64(math.Round(t.EndTime.Sub(t.StartTime).Minutes()))
	}
	address := noAddress
	if t.Address != nil && *t.Address != "" {
		address = *t.Address
	}
	return []interface{}{
		t.Vehicle.Brand + " " + t.Vehicle.Model,
		t.Vehicle.PlateNumber,
		string(t.Status),
		t.StartTime.UTC().Format(isoTimeFormat),
		end,
		duration,
		address,
	}
}
