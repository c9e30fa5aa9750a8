package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/energyadvisor/pkg/models"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist or is not owned by
// the requesting user
var ErrNotFound = errors.New("not found")

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS comodos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		usuario_id INTEGER NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		nome TEXT NOT NULL,
		descricao TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS aparelhos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comodo_id INTEGER NOT NULL REFERENCES comodos(id) ON DELETE CASCADE,
		nome TEXT NOT NULL,
		categoria TEXT NOT NULL DEFAULT 'outros'
			CHECK (categoria IN ('climatizacao', 'iluminacao', 'eletrodomesticos', 'entretenimento', 'higiene', 'outros')),
		potencia_watts REAL NOT NULL,
		horas_uso_dia REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comodos_usuario ON comodos(usuario_id);
	CREATE INDEX IF NOT EXISTS idx_aparelhos_comodo ON aparelhos(comodo_id);
	CREATE INDEX IF NOT EXISTS idx_aparelhos_categoria ON aparelhos(categoria);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CreateUser inserts a user and fills in its ID and creation time
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	if user.Name == "" {
		return &models.ValidationError{Field: "nome", Message: "is required"}
	}
	if user.Email == "" {
		return &models.ValidationError{Field: "email", Message: "is required"}
	}

	user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO usuarios (nome, email, created_at) VALUES (?, ?, ?)`,
		user.Name, user.Email, formatTime(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	return nil
}

// ListUsers returns every user ordered by ID
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, nome, email, created_at FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		u.CreatedAt = parseTime(createdAt)
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetUser returns one user or ErrNotFound
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT id, nome, email, created_at FROM usuarios WHERE id = ?`, id)

	var u models.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)

	return &u, nil
}

// UserAverages returns the mean monthly consumption and cost across users
// that have at least one appliance
func (db *DB) UserAverages(ctx context.Context) (models.AverageConsumption, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT c.usuario_id, a.potencia_watts, a.horas_uso_dia
	FROM comodos c
	JOIN aparelhos a ON a.comodo_id = c.id
	`)
	if err != nil {
		return models.AverageConsumption{}, fmt.Errorf("querying appliances: %w", err)
	}
	defer rows.Close()

	users := make(map[int64][]models.Appliance)
	for rows.Next() {
		var userID int64
		var a models.Appliance
		if err := rows.Scan(&userID, &a.PowerWatts, &a.HoursPerDay); err != nil {
			return models.AverageConsumption{}, fmt.Errorf("scanning row: %w", err)
		}
		users[userID] = append(users[userID], a)
	}
	if err := rows.Err(); err != nil {
		return models.AverageConsumption{}, err
	}

	return averageOf(users), nil
}

func notFoundIfNoRows(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime tolerates rows written by other tools; unparsable values are zero
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
