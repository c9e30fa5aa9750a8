package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/energyadvisor/pkg/models"
)

// CreateRoom inserts a room for room.UserID and fills in its ID
func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return &models.ValidationError{Field: "nome", Message: "is required"}
	}

	room.CreatedAt = time.Now().UTC().Truncate(time.Second)
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO comodos (usuario_id, nome, descricao, created_at) VALUES (?, ?, ?, ?)`,
		room.UserID, room.Name, room.Description, formatTime(room.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}

	room.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading room id: %w", err)
	}
	return nil
}

// ListRooms returns a user's rooms ordered by name, without appliances
func (db *DB) ListRooms(ctx context.Context, userID int64) ([]models.Room, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT id, usuario_id, nome, descricao, created_at
	FROM comodos
	WHERE usuario_id = ?
	ORDER BY nome, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		var r models.Room
		var createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		rooms = append(rooms, r)
	}

	return rooms, rows.Err()
}

// GetRoom returns a room owned by userID or ErrNotFound
func (db *DB) GetRoom(ctx context.Context, userID, roomID int64) (*models.Room, error) {
	row := db.conn.QueryRowContext(ctx, `
	SELECT id, usuario_id, nome, descricao, created_at
	FROM comodos
	WHERE id = ? AND usuario_id = ?
	`, roomID, userID)

	var r models.Room
	var createdAt string
	err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying room: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)

	return &r, nil
}

// UpdateRoom renames a room and replaces its description
func (db *DB) UpdateRoom(ctx context.Context, room *models.Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return &models.ValidationError{Field: "nome", Message: "is required"}
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE comodos SET nome = ?, descricao = ? WHERE id = ? AND usuario_id = ?`,
		room.Name, room.Description, room.ID, room.UserID)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	return notFoundIfNoRows(result)
}

// DeleteRoom removes a room and, by cascade, its appliances
func (db *DB) DeleteRoom(ctx context.Context, userID, roomID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM comodos WHERE id = ? AND usuario_id = ?`, roomID, userID)
	if err != nil {
		return fmt.Errorf("deleting room: %w", err)
	}
	return notFoundIfNoRows(result)
}

// ListRoomsWithAppliances returns every room of a user with its appliances,
// rooms and appliances in insertion order. Rooms without appliances are
// included with an empty list.
func (db *DB) ListRoomsWithAppliances(ctx context.Context, userID int64) ([]models.Room, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT c.id, c.usuario_id, c.nome, c.descricao, c.created_at,
		a.id, a.nome, a.categoria, a.potencia_watts, a.horas_uso_dia, a.created_at
	FROM comodos c
	LEFT JOIN aparelhos a ON a.comodo_id = c.id
	WHERE c.usuario_id = ?
	ORDER BY c.id, a.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying rooms with appliances: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		var r models.Room
		var roomCreated string
		var (
			applianceID      sql.NullInt64
			name, category   sql.NullString
			power, hours     sql.NullFloat64
			applianceCreated sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Description, &roomCreated,
			&applianceID, &name, &category, &power, &hours, &applianceCreated); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if len(rooms) == 0 || rooms[len(rooms)-1].ID != r.ID {
			r.CreatedAt = parseTime(roomCreated)
			r.Appliances = []models.Appliance{}
			rooms = append(rooms, r)
		}
		if !applianceID.Valid {
			continue
		}

		current := &rooms[len(rooms)-1]
		current.Appliances = append(current.Appliances, models.Appliance{
			ID:          applianceID.Int64,
			RoomID:      r.ID,
			Name:        name.String,
			Category:    models.Category(category.String),
			PowerWatts:  power.Float64,
			HoursPerDay: hours.Float64,
			CreatedAt:   parseTime(applianceCreated.String),
		})
	}

	return rooms, rows.Err()
}
