package catalog

type CreateBuildingRequest struct {
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type UpdateBuildingRequest struct {
	Name        *string `json:"name"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
}

type CreateRoomRequest struct {
	BuildingID    int64   `json:"building_id" binding:"required"`
	Number        string  `json:"number" binding:"required"`
	Capacity      int     `json:"capacity" binding:"required"`
	RoomType      string  `json:"room_type"`
	RoomClass     string  `json:"room_class"`
	Status        string  `json:"status"`
	Description   string  `json:"description"`
	PricePerNight float64 `json:"price_per_night"`
	RoomsCount    int     `json:"rooms_count"`
	Amenities     string  `json:"amenities"`
}

// BulkCreateRoomsRequest creates several rooms in one call, typically when a
// building is first entered into the system.
type BulkCreateRoomsRequest struct {
	Rooms []CreateRoomRequest `json:"rooms" binding:"required,min=1"`
}

type UpdateRoomRequest struct {
	BuildingID    *int64   `json:"building_id"`
	Number        *string  `json:"number"`
	Capacity      *int     `json:"capacity"`
	RoomType      *string  `json:"room_type"`
	RoomClass     *string  `json:"room_class"`
	Status        *string  `json:"status"`
	Description   *string  `json:"description"`
	PricePerNight *float64 `json:"price_per_night"`
	RoomsCount    *int     `json:"rooms_count"`
	Amenities     *string  `json:"amenities"`
}
