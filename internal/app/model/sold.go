package model

import (
	"time"

	"github.com/lib/pq"
)

type PaymentMode string

const (
	PaymentCash         PaymentMode = "Cash"
	PaymentUPI          PaymentMode = "UPI"
	PaymentBankTransfer PaymentMode = "Bank Transfer"
	PaymentCheque       PaymentMode = "Cheque"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentBankTransfer, PaymentCheque:
		return true
	}
	return false
}

type IDProofType string

const (
	ProofAadhar         IDProofType = "Aadhar"
	ProofPAN            IDProofType = "PAN"
	ProofDrivingLicense IDProofType = "Driving License"
	ProofPassport       IDProofType = "Passport"
)

func (t IDProofType) Valid() bool {
	switch t {
	case ProofAadhar, ProofPAN, ProofDrivingLicense, ProofPassport:
		return true
	}
	return false
}

// IDProof is the buyer's identity document. Exactly one supporting
// image is required; the cardinality is enforced in the sale service
// before anything is persisted.
type IDProof struct {
	Type   IDProofType    `gorm:"type:varchar(30)" json:"type"`
	Number string         `json:"number"`
	Images pq.StringArray `gorm:"type:text[]" json:"images"`
}

type BuyerAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `gorm:"type:varchar(6)" json:"pincode"`
}

type Buyer struct {
	FullName     string       `gorm:"not null" json:"full_name"`
	MobileNumber string       `gorm:"not null;type:varchar(10)" json:"mobile_number"`
	Email        string       `json:"email"`
	Address      BuyerAddress `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	IDProof      IDProof      `gorm:"embedded;embeddedPrefix:id_proof_" json:"id_proof"`
}

// Sold records a completed sale. Created once, atomically with the
// referenced car's is_sold flip; never edited or voided.
type Sold struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	CarID       uint        `gorm:"not null;uniqueIndex" json:"car_id"` // one sale per car
	Buyer       Buyer       `gorm:"embedded;embeddedPrefix:buyer_" json:"buyer"`
	SoldPrice   float64     `gorm:"not null" json:"sold_price"`
	PaymentMode PaymentMode `gorm:"type:varchar(20);not null" json:"payment_mode"`
	Remarks     string      `gorm:"type:text" json:"remarks"`
	SoldDate    time.Time   `json:"sold_date"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Car Car `gorm:"foreignKey:CarID" json:"car,omitempty"`
}

func (Sold) TableName() string {
	return "sold_records"
}
