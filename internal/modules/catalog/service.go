package catalog

import (
	"context"
	"errors"
	"fmt"

	"femida-backend/internal/domain"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Service manages the room inventory: buildings and the rooms inside them.
// Manual status edits are validated against live occupancy so staff cannot
// mark a room free while an active booking still holds it.
type Service struct {
	buildings BuildingRepository
	rooms     RoomRepository
	bookings  BookingCounter
	audit     AuditRecorder
	log       zerolog.Logger
}

func NewService(buildings BuildingRepository, rooms RoomRepository, bookings BookingCounter, audit AuditRecorder, log zerolog.Logger) *Service {
	return &Service{
		buildings: buildings,
		rooms:     rooms,
		bookings:  bookings,
		audit:     audit,
		log:       log.With().Str("component", "catalog").Logger(),
	}
}

func (s *Service) CreateBuilding(ctx context.Context, req CreateBuildingRequest, actorID int64) (*domain.Building, error) {
	b := &domain.Building{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
	}
	if err := s.buildings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditCreate, "Building", b.ID, fmt.Sprintf("building: %s", b.Name))
	return b, nil
}

func (s *Service) GetBuilding(ctx context.Context, id int64) (*domain.Building, error) {
	b, err := s.buildings.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrBuildingNotFound)
	}
	return b, nil
}

func (s *Service) UpdateBuilding(ctx context.Context, id int64, req UpdateBuildingRequest, actorID int64) (*domain.Building, error) {
	b, err := s.GetBuilding(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, domain.Invalid("name", "must not be empty")
		}
		b.Name = *req.Name
	}
	if req.Address != nil {
		b.Address = *req.Address
	}
	if req.Description != nil {
		b.Description = *req.Description
	}
	if err := s.buildings.Update(ctx, b); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditUpdate, "Building", b.ID, fmt.Sprintf("building: %s", b.Name))
	return b, nil
}

func (s *Service) ListBuildings(ctx context.Context) ([]domain.Building, error) {
	return s.buildings.List(ctx)
}

// DeleteBuilding refuses to remove a building that still has rooms; rooms must
// be trashed or moved first so no bookings are left dangling.
func (s *Service) DeleteBuilding(ctx context.Context, id int64, actorID int64) error {
	b, err := s.GetBuilding(ctx, id)
	if err != nil {
		return err
	}
	rooms, err := s.rooms.List(ctx, id)
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		return domain.Invalid("building", "building still has rooms")
	}
	if err := s.buildings.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, &actorID, domain.AuditDelete, "Building", id, fmt.Sprintf("building: %s", b.Name))
	return nil
}

func (s *Service) CreateRoom(ctx context.Context, req CreateRoomRequest, actorID int64) (*domain.Room, error) {
	room, err := s.buildRoom(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditCreate, "Room", room.ID,
		fmt.Sprintf("room %s in building %d", room.Number, room.BuildingID))
	return room, nil
}

// CreateRooms inserts a batch. Validation is all-or-nothing: the first invalid
// entry aborts the call before anything is written.
func (s *Service) CreateRooms(ctx context.Context, req BulkCreateRoomsRequest, actorID int64) ([]domain.Room, error) {
	built := make([]*domain.Room, 0, len(req.Rooms))
	for i, rr := range req.Rooms {
		room, err := s.buildRoom(ctx, rr)
		if err != nil {
			var invalid *domain.ValidationError
			if errors.As(err, &invalid) {
				return nil, domain.Invalid(fmt.Sprintf("rooms[%d].%s", i, invalid.Field), invalid.Message)
			}
			return nil, err
		}
		built = append(built, room)
	}

	out := make([]domain.Room, 0, len(built))
	for _, room := range built {
		if err := s.rooms.Create(ctx, room); err != nil {
			return nil, err
		}
		s.audit.Record(ctx, &actorID, domain.AuditCreate, "Room", room.ID,
			fmt.Sprintf("room %s in building %d", room.Number, room.BuildingID))
		out = append(out, *room)
	}
	return out, nil
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrRoomNotFound)
	}
	if room.IsDeleted {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, buildingID int64) ([]domain.Room, error) {
	return s.rooms.List(ctx, buildingID)
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, req UpdateRoomRequest, actorID int64) (*domain.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.BuildingID != nil {
		if _, err := s.GetBuilding(ctx, *req.BuildingID); err != nil {
			return nil, err
		}
		room.BuildingID = *req.BuildingID
	}
	if req.Number != nil {
		if *req.Number == "" {
			return nil, domain.Invalid("number", "must not be empty")
		}
		room.Number = *req.Number
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 || *req.Capacity > 10 {
			return nil, domain.Invalid("capacity", "must be between 1 and 10")
		}
		room.Capacity = *req.Capacity
	}
	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.RoomClass != nil {
		cls, ok := domain.ParseRoomClass(*req.RoomClass)
		if !ok {
			return nil, domain.Invalid("room_class", "unknown room class")
		}
		room.Class = cls
	}
	if req.Status != nil {
		st, ok := domain.ParseRoomStatus(*req.Status)
		if !ok {
			return nil, domain.Invalid("status", "unknown room status")
		}
		if st == domain.RoomFree {
			cnt, err := s.bookings.CountActiveForRoom(ctx, id)
			if err != nil {
				return nil, err
			}
			if cnt > 0 {
				return nil, domain.Invalid("status", "room has active bookings and cannot be marked free")
			}
		}
		room.Status = st
	}
	if req.Description != nil {
		room.Description = *req.Description
	}
	if req.PricePerNight != nil {
		if *req.PricePerNight < 0 {
			return nil, domain.Invalid("price_per_night", "must not be negative")
		}
		room.PricePerNight = *req.PricePerNight
	}
	if req.RoomsCount != nil {
		room.RoomsCount = *req.RoomsCount
	}
	if req.Amenities != nil {
		room.Amenities = *req.Amenities
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, &actorID, domain.AuditUpdate, "Room", room.ID,
		fmt.Sprintf("room %s in building %d, status: %s", room.Number, room.BuildingID, room.Status))
	return room, nil
}

// SoftDeleteRoom trashes the room. A room with active bookings cannot be
// removed; the bookings must be cancelled or moved first.
func (s *Service) SoftDeleteRoom(ctx context.Context, id int64, actorID int64) error {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return err
	}
	cnt, err := s.bookings.CountActiveForRoom(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return domain.Invalid("room", "room has active bookings and cannot be deleted")
	}
	if err := s.rooms.SetDeleted(ctx, id, true); err != nil {
		return err
	}
	s.audit.Record(ctx, &actorID, domain.AuditDelete, "Room", id,
		fmt.Sprintf("room %s in building %d", room.Number, room.BuildingID))
	return nil
}

func (s *Service) buildRoom(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if _, err := s.GetBuilding(ctx, req.BuildingID); err != nil {
		if errors.Is(err, ErrBuildingNotFound) {
			return nil, domain.Invalid("building_id", "building does not exist")
		}
		return nil, err
	}
	if req.Capacity < 1 || req.Capacity > 10 {
		return nil, domain.Invalid("capacity", "must be between 1 and 10")
	}
	if req.PricePerNight < 0 {
		return nil, domain.Invalid("price_per_night", "must not be negative")
	}

	class := domain.RoomStandard
	if req.RoomClass != "" {
		cls, ok := domain.ParseRoomClass(req.RoomClass)
		if !ok {
			return nil, domain.Invalid("room_class", "unknown room class")
		}
		class = cls
	}
	status := domain.RoomFree
	if req.Status != "" {
		st, ok := domain.ParseRoomStatus(req.Status)
		if !ok {
			return nil, domain.Invalid("status", "unknown room status")
		}
		status = st
	}
	roomsCount := req.RoomsCount
	if roomsCount <= 0 {
		roomsCount = 1
	}

	return &domain.Room{
		BuildingID:    req.BuildingID,
		Number:        req.Number,
		Capacity:      req.Capacity,
		RoomType:      req.RoomType,
		Class:         class,
		Status:        status,
		Description:   req.Description,
		PricePerNight: req.PricePerNight,
		RoomsCount:    roomsCount,
		Amenities:     req.Amenities,
	}, nil
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
