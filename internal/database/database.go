package database

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

func Connect(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Info().Msg("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Info().Str("path", dsn).Msg("using SQLite for local development")

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema. Table layouts mirror the repository row models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userTable{},
		&buildingTable{},
		&roomTable{},
		&guestTable{},
		&bookingTable{},
		&auditTable{},
	); err != nil {
		return err
	}
	return createOverlapGuard(db)
}

// createOverlapGuard installs the database-side defense against double
// booking: no two active, non-deleted bookings may overlap on the same room.
// Postgres only; SQLite deployments rely on the per-room lock alone.
func createOverlapGuard(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}
	return db.Exec(`
		DO $$ BEGIN
			ALTER TABLE bookings ADD CONSTRAINT idx_no_overbooking
				EXCLUDE USING gist (
					room_id WITH =,
					tstzrange(check_in, check_out, '[)') WITH &&
				) WHERE (status = 'active' AND NOT is_deleted);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;
	`).Error
}

type userTable struct {
	ID                  int64  `gorm:"primaryKey"`
	Username            string `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash        string `gorm:"size:255;not null"`
	FirstName           string `gorm:"size:100"`
	LastName            string `gorm:"size:100"`
	Email               string `gorm:"size:255"`
	Phone               string `gorm:"size:20"`
	Role                string `gorm:"size:20;not null;default:admin"`
	IsActive            bool   `gorm:"not null;default:true"`
	LastSeen            time.Time
	FailedLoginAttempts int `gorm:"not null;default:0"`
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (userTable) TableName() string { return "users" }

type buildingTable struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Address     string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (buildingTable) TableName() string { return "buildings" }

type roomTable struct {
	ID            int64  `gorm:"primaryKey"`
	BuildingID    int64  `gorm:"index;not null"`
	Number        string `gorm:"size:10;not null"`
	Capacity      int    `gorm:"not null"`
	RoomType      string `gorm:"size:50"`
	RoomClass     string `gorm:"size:40;not null;default:standard"`
	Status        string `gorm:"size:20;not null;default:free"`
	Description   string `gorm:"type:text"`
	PricePerNight float64 `gorm:"not null;default:0"`
	RoomsCount    int     `gorm:"not null;default:1"`
	Amenities     string  `gorm:"size:255"`
	IsDeleted     bool    `gorm:"not null;default:false;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (roomTable) TableName() string { return "rooms" }

type guestTable struct {
	ID               int64  `gorm:"primaryKey"`
	FullName         string `gorm:"size:100;not null;index"`
	Phone            string `gorm:"size:20;not null"`
	Email            string `gorm:"size:255"`
	Address          string `gorm:"size:255"`
	PeopleCount      int    `gorm:"not null;default:1"`
	Notes            string `gorm:"type:text"`
	INN              string `gorm:"column:inn;size:20"`
	RegistrationDate time.Time
	VisitsCount      int    `gorm:"not null;default:0"`
	Status           string `gorm:"size:20;not null;default:active"`
	IsDeleted        bool   `gorm:"not null;default:false;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (guestTable) TableName() string { return "guests" }

type bookingTable struct {
	ID            int64     `gorm:"primaryKey"`
	GuestID       int64     `gorm:"index;not null"`
	RoomID        int64     `gorm:"index;not null"`
	CheckIn       time.Time `gorm:"not null;index"`
	CheckOut      time.Time `gorm:"not null"`
	PeopleCount   int       `gorm:"not null"`
	Status        string    `gorm:"size:20;not null;default:active;index"`
	PaymentStatus string    `gorm:"size:20;not null;default:pending"`
	PaymentAmount float64   `gorm:"not null;default:0"`
	PaymentMethod string    `gorm:"size:20;not null;default:cash"`
	Comments      string    `gorm:"type:text"`
	TotalAmount   float64   `gorm:"not null;default:0"`
	CreatedBy     *int64
	IsDeleted     bool `gorm:"not null;default:false;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (bookingTable) TableName() string { return "bookings" }

type auditTable struct {
	ID         int64  `gorm:"primaryKey"`
	EventID    string `gorm:"size:36;uniqueIndex;not null"`
	UserID     *int64 `gorm:"index"`
	Action     string `gorm:"size:50;not null"`
	ObjectType string `gorm:"size:50;not null;index"`
	ObjectID   int64  `gorm:"not null;index"`
	Details    string `gorm:"type:text"`
	Timestamp  time.Time `gorm:"not null;index"`
}

func (auditTable) TableName() string { return "audit_logs" }
