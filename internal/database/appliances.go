package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/energyadvisor/internal/consumption"
	"github.com/jgoulah/energyadvisor/pkg/models"
)

const applianceColumns = `a.id, a.comodo_id, a.nome, a.categoria, a.potencia_watts, a.horas_uso_dia, a.created_at`

// CreateAppliance validates and inserts an appliance. Callers check that
// the room belongs to the user first.
func (db *DB) CreateAppliance(ctx context.Context, appliance *models.Appliance) error {
	if err := appliance.Validate(); err != nil {
		return err
	}

	appliance.CreatedAt = time.Now().UTC().Truncate(time.Second)
	result, err := db.conn.ExecContext(ctx, `
	INSERT INTO aparelhos (comodo_id, nome, categoria, potencia_watts, horas_uso_dia, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`, appliance.RoomID, appliance.Name, string(appliance.Category),
		appliance.PowerWatts, appliance.HoursPerDay, formatTime(appliance.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting appliance: %w", err)
	}

	appliance.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading appliance id: %w", err)
	}
	return nil
}

// ListAppliancesByRoom returns the appliances of a room owned by userID,
// ordered by name
func (db *DB) ListAppliancesByRoom(ctx context.Context, userID, roomID int64) ([]models.Appliance, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT `+applianceColumns+`
	FROM aparelhos a
	JOIN comodos c ON a.comodo_id = c.id
	WHERE c.id = ? AND c.usuario_id = ?
	ORDER BY a.nome, a.id
	`, roomID, userID)
	if err != nil {
		return nil, fmt.Errorf("querying appliances: %w", err)
	}
	defer rows.Close()

	appliances := []models.Appliance{}
	for rows.Next() {
		a, err := scanAppliance(rows)
		if err != nil {
			return nil, err
		}
		appliances = append(appliances, *a)
	}

	return appliances, rows.Err()
}

// GetAppliance returns an appliance whose room is owned by userID
func (db *DB) GetAppliance(ctx context.Context, userID, applianceID int64) (*models.Appliance, error) {
	row := db.conn.QueryRowContext(ctx, `
	SELECT `+applianceColumns+`
	FROM aparelhos a
	JOIN comodos c ON a.comodo_id = c.id
	WHERE a.id = ? AND c.usuario_id = ?
	`, applianceID, userID)

	a, err := scanAppliance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// UpdateAppliance replaces the editable fields of an appliance. The room
// it belongs to does not change.
func (db *DB) UpdateAppliance(ctx context.Context, userID int64, appliance *models.Appliance) error {
	if err := appliance.Validate(); err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx, `
	UPDATE aparelhos
	SET nome = ?, categoria = ?, potencia_watts = ?, horas_uso_dia = ?
	WHERE id = ? AND comodo_id IN (SELECT id FROM comodos WHERE usuario_id = ?)
	`, appliance.Name, string(appliance.Category), appliance.PowerWatts, appliance.HoursPerDay,
		appliance.ID, userID)
	if err != nil {
		return fmt.Errorf("updating appliance: %w", err)
	}
	return notFoundIfNoRows(result)
}

// DeleteAppliance removes an appliance whose room is owned by userID
func (db *DB) DeleteAppliance(ctx context.Context, userID, applianceID int64) error {
	result, err := db.conn.ExecContext(ctx, `
	DELETE FROM aparelhos
	WHERE id = ? AND comodo_id IN (SELECT id FROM comodos WHERE usuario_id = ?)
	`, applianceID, userID)
	if err != nil {
		return fmt.Errorf("deleting appliance: %w", err)
	}
	return notFoundIfNoRows(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAppliance(s scanner) (*models.Appliance, error) {
	var a models.Appliance
	var category, createdAt string
	err := s.Scan(&a.ID, &a.RoomID, &a.Name, &category, &a.PowerWatts, &a.HoursPerDay, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning appliance: %w", err)
	}
	a.Category = models.Category(category)
	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

// averageOf averages the per-user monthly totals
func averageOf(users map[int64][]models.Appliance) models.AverageConsumption {
	if len(users) == 0 {
		return models.AverageConsumption{}
	}

	var kwh, brl float64
	for _, appliances := range users {
		totals := consumption.Totals([]models.Room{{Appliances: appliances}})
		kwh += totals.MonthlyKWh
		brl += totals.MonthlyBRL
	}
	n := float64(len(users))
	return models.AverageConsumption{MonthlyKWh: kwh / n, MonthlyBRL: brl / n}
}
