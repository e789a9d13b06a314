package model

import (
	"time"
)

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryViewed    InquiryStatus = "viewed"
	InquiryContacted InquiryStatus = "contacted"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryViewed, InquiryContacted:
		return true
	}
	return false
}

// Inquiry records buyer interest against a car. UserID is nil for guests.
type Inquiry struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	UserID    *uint         `gorm:"index" json:"user_id,omitempty"`
	CarID     uint          `gorm:"not null;index" json:"car_id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Message   string        `gorm:"type:text" json:"message"`
	Status    InquiryStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Car  Car   `gorm:"foreignKey:CarID" json:"car,omitempty"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}
