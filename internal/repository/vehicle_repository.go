package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jengzang/fleet-tracker-go/internal/database"
	"github.com/jengzang/fleet-tracker-go/internal/models"
)

const vehicleColumns = `id, plate_number, brand, model, year, color, created_at, updated_at`

// VehicleRepository handles database operations for vehicles
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func scanVehicle(s scanner) (models.Vehicle, error) {
	var v models.Vehicle
	var created, updated int64
	err := s.Scan(&v.ID, &v.PlateNumber, &v.Brand, &v.Model, &v.Year, &v.Color, &created, &updated)
	v.CreatedAt = fromMillis(created)
	v.UpdatedAt = fromMillis(updated)
	return v, err
}

// List retrieves one page of vehicles, newest first, and the total count
func (r *VehicleRepository) List(ctx context.Context, limit, offset int) ([]models.Vehicle, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vehicles").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+vehicleColumns+`
		FROM vehicles ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate vehicles: %w", err)
	}

	return vehicles, total, nil
}

// GetByID retrieves a single vehicle by ID, or nil when it does not exist
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &v, nil
}

// Exists reports whether a vehicle with the given ID exists
func (r *VehicleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM vehicles WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check vehicle: %w", err)
	}
	return true, nil
}

// Create inserts a vehicle
func (r *VehicleRepository) Create(ctx context.Context, v *models.Vehicle) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.PlateNumber, v.Brand, v.Model, v.Year, v.Color, toMillis(v.CreatedAt), toMillis(v.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return nil
}

// Update overwrites every mutable column. It reports false when no row matched.
func (r *VehicleRepository) Update(ctx context.Context, v *models.Vehicle) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles
		SET plate_number = ?, brand = ?, model = ?, year = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		v.PlateNumber, v.Brand, v.Model, v.Year, v.Color, toMillis(v.UpdatedAt), v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return false, ErrDuplicate
		}
		return false, fmt.Errorf("failed to update vehicle: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return n > 0, nil
}

// Delete removes a vehicle and its trips. It reports false when no row matched.
func (r *VehicleRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vehicle_trips WHERE vehicle_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete vehicle trips: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete vehicle: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}
