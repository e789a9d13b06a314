package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarStateAccessors(t *testing.T) {
	tests := []struct {
		name             string
		car              Car
		wantAvailability Availability
		wantVisibility   Visibility
	}{
		{
			name:             "fresh listing",
			car:              Car{},
			wantAvailability: Available,
			wantVisibility:   Active,
		},
		{
			name:             "sold listing",
			car:              Car{IsSold: true},
			wantAvailability: AvailabilitySold,
			wantVisibility:   Active,
		},
		{
			name:             "removed listing",
			car:              Car{IsDeleted: true},
			wantAvailability: Available,
			wantVisibility:   Removed,
		},
		{
			name:             "sold then removed stays sold",
			car:              Car{IsSold: true, IsDeleted: true},
			wantAvailability: AvailabilitySold,
			wantVisibility:   Removed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAvailability, tt.car.Availability())
			assert.Equal(t, tt.wantVisibility, tt.car.Visibility())
		})
	}
}

// The sold-state constant and the sale record are distinct names; a
// record for a sold car carries both.
func TestSoldRecordReferencesSoldCar(t *testing.T) {
	car := Car{ID: 7, IsSold: true}
	record := Sold{CarID: car.ID, Car: car}

	assert.Equal(t, AvailabilitySold, record.Car.Availability())
	assert.Equal(t, car.ID, record.CarID)
}
