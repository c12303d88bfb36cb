package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kwat0g/enrollment/internal/models"
	appErrors "github.com/kwat0g/enrollment/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id int64) (*models.Room, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, room *models.Room) error
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64) error
}

type roomScheduleRepository interface {
	CountByRoom(ctx context.Context, roomID int64) (int, error)
}

// RoomService manages rooms.
type RoomService struct {
	rooms     roomRepository
	schedules roomScheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomService constructs a RoomService instance.
func NewRoomService(rooms roomRepository, schedules roomScheduleRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RoomService{rooms: rooms, schedules: schedules, validator: validate, logger: logger}
}

// List returns all rooms.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	return rooms, nil
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.rooms.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	return room, nil
}

// Create adds a room with a unique name.
func (s *RoomService) Create(ctx context.Context, req models.RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	name := strings.TrimSpace(req.Name)
	taken, err := s.rooms.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("room %s already exists", name))
	}

	room := &models.Room{Name: name}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.FromError(err)
	}
	return room, nil
}

// Update renames a room.
func (s *RoomService) Update(ctx context.Context, id int64, req models.RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	room, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	taken, err := s.rooms.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check room name")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("room %s already exists", name))
	}

	room.Name = name
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, appErrors.FromError(err)
	}
	return room, nil
}

// Delete removes a room unless schedules still book it.
func (s *RoomService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	booked, err := s.schedules.CountByRoom(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count room schedules")
	}
	if booked > 0 {
		return appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("room is booked by %d schedule(s)", booked))
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}
