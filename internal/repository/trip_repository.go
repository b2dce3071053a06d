package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/fleet-tracker-go/internal/models"
)

const tripColumns = `t.id, t.vehicle_id, t.status, t.start_time, t.end_time,
		t.latitude, t.longitude, t.address, t.created_at, t.updated_at`

// TripRepository handles database operations for trip intervals
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

func scanTrip(s scanner, extra ...any) (models.TripInterval, error) {
	var (
		t                   models.TripInterval
		start, created, upd int64
		end                 sql.NullInt64
		lat, lon            sql.NullFloat64
		address             sql.NullString
		status              string
	)
	dest := []any{&t.ID, &t.VehicleID, &status, &start, &end, &lat, &lon, &address, &created, &upd}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return t, err
	}
	t.Status = models.TripStatus(status)
	t.StartTime = fromMillis(start)
	if end.Valid {
		e := fromMillis(end.Int64)
		t.EndTime = &e
	}
	if lat.Valid {
		t.Latitude = &lat.Float64
	}
	if lon.Valid {
		t.Longitude = &lon.Float64
	}
	if address.Valid {
		t.Address = &address.String
	}
	t.CreatedAt = fromMillis(created)
	t.UpdatedAt = fromMillis(upd)
	return t, nil
}

func (r *TripRepository) queryTrips(ctx context.Context, query string, args ...any) ([]models.TripInterval, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]models.TripInterval, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

// FindInWindow returns the vehicle's intervals whose start time lies in
// [start, end), ordered by start time ascending.
func (r *TripRepository) FindInWindow(ctx context.Context, vehicleID string, start, end time.Time) ([]models.TripInterval, error) {
	query := `SELECT ` + tripColumns + `
		FROM vehicle_trips t
		WHERE t.vehicle_id = ? AND t.start_time >= ? AND t.start_time < ?
		ORDER BY t.start_time ASC, t.created_at ASC, t.id ASC`
	return r.queryTrips(ctx, query, vehicleID, toMillis(start), toMillis(end))
}

// Recent returns the vehicle's latest intervals, newest first.
func (r *TripRepository) Recent(ctx context.Context, vehicleID string, limit int) ([]models.TripInterval, error) {
	query := `SELECT ` + tripColumns + `
		FROM vehicle_trips t
		WHERE t.vehicle_id = ?
		ORDER BY t.start_time DESC, t.id DESC
		LIMIT ?`
	return r.queryTrips(ctx, query, vehicleID, limit)
}

// Create inserts a trip interval
func (r *TripRepository) Create(ctx context.Context, t *models.TripInterval) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO vehicle_trips
		(id, vehicle_id, status, start_time, end_time, latitude, longitude, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.VehicleID, string(t.Status), toMillis(t.StartTime), nullMillis(t.EndTime),
		nullFloat(t.Latitude), nullFloat(t.Longitude), nullString(t.Address),
		toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// ReportQuery selects trips for the spreadsheet report. Zero values are
// not filtered on.
type ReportQuery struct {
	VehicleID string
	From      time.Time // inclusive
	To        time.Time // exclusive
}

// ListForReport returns trips joined with their vehicle, newest first.
func (r *TripRepository) ListForReport(ctx context.Context, q ReportQuery) ([]models.TripWithVehicle, error) {
	query := `SELECT ` + tripColumns + `,
		v.id, v.plate_number, v.brand, v.model, v.year, v.color, v.created_at, v.updated_at
		FROM vehicle_trips t
		JOIN vehicles v ON v.id = t.vehicle_id`

	var conditions []string
	var args []any

	if q.VehicleID != "" {
		conditions = append(conditions, "t.vehicle_id = ?")
		args = append(args, q.VehicleID)
	}
	if !q.From.IsZero() {
		conditions = append(conditions, "t.start_time >= ?")
		args = append(args, toMillis(q.From))
	}
	if !q.To.IsZero() {
		conditions = append(conditions, "t.start_time < ?")
		args = append(args, toMillis(q.To))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.start_time DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query report trips: %w", err)
	}
	defer rows.Close()

	out := make([]models.TripWithVehicle, 0)
	for rows.Next() {
		var (
			v        models.Vehicle
			vCreated int64
			vUpdated int64
		)
		t, err := scanTrip(rows, &v.ID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year, &v.Color, &vCreated, &vUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report trip: %w", err)
		}
		v.CreatedAt = fromMillis(vCreated)
		v.UpdatedAt = fromMillis(vUpdated)
		out = append(out, models.TripWithVehicle{TripInterval: t, Vehicle: v})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate report trips: %w", err)
	}
	return out, nil
}
