package model

import "github.com/google/uuid"

type ServiceCategory string

const (
	CategoryHotelRoom    ServiceCategory = "HOTEL_ROOM"
	CategoryTransfer     ServiceCategory = "TRANSFER"
	CategoryVehicleHire  ServiceCategory = "VEHICLE_HIRE"
	CategoryGuideService ServiceCategory = "GUIDE_SERVICE"
	CategoryActivity     ServiceCategory = "ACTIVITY"
)

// Categories lists every category the catalog knows about.
var Categories = []ServiceCategory{
	CategoryHotelRoom,
	CategoryTransfer,
	CategoryVehicleHire,
	CategoryGuideService,
	CategoryActivity,
}

func (c ServiceCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type ServiceOffering struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Category        ServiceCategory
	Title           string
	SupplierName    string
	MaxOccupancy    int // hotel rooms
	MaxPassengers   int // transfers and vehicles
	MinParticipants int // activities
	MaxParticipants int // activities, 0 means unbounded
}
