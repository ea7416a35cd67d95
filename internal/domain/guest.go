package domain

import "time"

type GuestStatus string

const (
	GuestActive    GuestStatus = "active"
	GuestInactive  GuestStatus = "inactive"
	GuestVIP       GuestStatus = "vip"
	GuestBlacklist GuestStatus = "blacklist"
)

func ParseGuestStatus(s string) (GuestStatus, bool) {
	switch GuestStatus(s) {
	case GuestActive, GuestInactive, GuestVIP, GuestBlacklist:
		return GuestStatus(s), true
	}
	return "", false
}

type Guest struct {
	ID               int64       `json:"id"`
	FullName         string      `json:"full_name" validate:"required"`
	Phone            string      `json:"phone" validate:"required"`
	Email            string      `json:"email,omitempty"`
	Address          string      `json:"address,omitempty"`
	PeopleCount      int         `json:"people_count" validate:"gte=1,lte=10"`
	Notes            string      `json:"notes,omitempty"`
	INN              string      `json:"inn,omitempty"`
	RegistrationDate time.Time   `json:"registration_date"`
	VisitsCount      int         `json:"visits_count"`
	Status           GuestStatus `json:"status"`
	IsDeleted        bool        `json:"is_deleted"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	// TotalSpent is derived: the sum of total_amount over the guest's paid,
	// non-deleted bookings. Never stored.
	TotalSpent float64 `json:"total_spent"`
}
