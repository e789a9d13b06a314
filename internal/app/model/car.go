package model

import (
	"time"

	"github.com/lib/pq"
)

type CarCondition string

const (
	ConditionNew       CarCondition = "new"
	ConditionUsed      CarCondition = "used"
	ConditionCertified CarCondition = "certified"
)

// Availability is the sale axis of a listing's state. A car moves from
// available to sold exactly once and never back.
type Availability string

// Visibility is the soft-delete axis. A removed car is hidden from
// every public query but the row is retained; sold cars stay sold even
// after removal.
type Visibility string

const (
	Available        Availability = "available"
	AvailabilitySold Availability = "sold"

	Active  Visibility = "active"
	Removed Visibility = "removed"
)

type Car struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null;index" json:"name"` // e.g. "Toyota Corolla 2018"
	Brand        string         `gorm:"not null;index" json:"brand"`
	Model        string         `gorm:"not null" json:"model"`
	Year         int            `gorm:"not null" json:"year"`
	Price        float64        `gorm:"not null" json:"price"`
	KmDriven     int            `json:"km_driven"`
	FuelType     string         `json:"fuel_type"`
	Transmission string         `json:"transmission"`
	OwnerCount   int            `json:"owner_count"`
	Description  string         `gorm:"type:text" json:"description"`
	Features     pq.StringArray `gorm:"type:text[]" json:"features"`
	Condition    CarCondition   `gorm:"type:varchar(20);default:'used'" json:"condition"`
	Images       pq.StringArray `gorm:"type:text[]" json:"images"` // asset refs, display order
	IsFeatured   bool           `gorm:"default:false" json:"is_featured"`
	IsDeleted    bool           `gorm:"default:false;index" json:"is_deleted"`
	IsSold       bool           `gorm:"default:false;index" json:"is_sold"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Car) TableName() string {
	return "cars"
}

func (c *Car) Availability() Availability {
	if c.IsSold {
		return AvailabilitySold
	}
	return Available
}

func (c *Car) Visibility() Visibility {
	if c.IsDeleted {
		return Removed
	}
	return Active
}
