package domain

import "time"

type RoomClass string

const (
	RoomStandard RoomClass = "standard"
	RoomSemiLux  RoomClass = "semi_lux"
	RoomLux      RoomClass = "lux"
)

func ParseRoomClass(s string) (RoomClass, bool) {
	switch RoomClass(s) {
	case RoomStandard, RoomSemiLux, RoomLux:
		return RoomClass(s), true
	}
	return "", false
}

type RoomStatus string

const (
	RoomFree   RoomStatus = "free"
	RoomBusy   RoomStatus = "busy"
	RoomRepair RoomStatus = "repair"
)

func ParseRoomStatus(s string) (RoomStatus, bool) {
	switch RoomStatus(s) {
	case RoomFree, RoomBusy, RoomRepair:
		return RoomStatus(s), true
	}
	return "", false
}

// Room.Status is busy iff at least one active, non-deleted booking exists for
// the room, unless the status was manually pinned to repair. Repair is sticky:
// only an explicit staff edit clears it.
type Room struct {
	ID            int64      `json:"id"`
	BuildingID    int64      `json:"building_id" validate:"required"`
	Number        string     `json:"number" validate:"required"`
	Capacity      int        `json:"capacity" validate:"required,gte=1,lte=10"`
	RoomType      string     `json:"room_type,omitempty"`
	Class         RoomClass  `json:"room_class"`
	Status        RoomStatus `json:"status"`
	Description   string     `json:"description,omitempty"`
	PricePerNight float64    `json:"price_per_night" validate:"gte=0"`
	RoomsCount    int        `json:"rooms_count"`
	Amenities     string     `json:"amenities,omitempty"`
	IsDeleted     bool       `json:"is_deleted"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Building *Building `json:"building,omitempty"`
}
