package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kwat0g/enrollment/internal/models"
)

// RoomRepository handles persistence of rooms.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository constructs the repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns all rooms ordered by name.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	const query = `SELECT id, name FROM rooms ORDER BY name ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID returns a room by its ID.
func (r *RoomRepository) FindByID(ctx context.Context, id int64) (*models.Room, error) {
	const query = `SELECT id, name FROM rooms WHERE id = $1`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// FindByName returns a room by name, nil when absent.
func (r *RoomRepository) FindByName(ctx context.Context, name string) (*models.Room, error) {
	const query = `SELECT id, name FROM rooms WHERE LOWER(name) = LOWER($1)`
	var room models.Room
	if err := r.db.GetContext(ctx, &room, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find room by name: %w", err)
	}
	return &room, nil
}

// ExistsByName checks whether a room with the given name already exists.
func (r *RoomRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT 1 FROM rooms WHERE LOWER(name) = LOWER($1)`
	args := []interface{}{name}
	if excludeID > 0 {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check room name: %w", err)
	}
	return true, nil
}

// Create persists a new room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	const query = `INSERT INTO rooms (name) VALUES ($1) RETURNING id`
	if err := r.db.GetContext(ctx, &room.ID, query, room.Name); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Update modifies a room record.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	const query = `UPDATE rooms SET name = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, room.ID, room.Name); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Delete removes a room by id.
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
