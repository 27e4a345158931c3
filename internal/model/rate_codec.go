package model

import (
	"encoding/json"
	"fmt"
)

// DecodeRatePayload unmarshals raw into the payload variant of category.
func DecodeRatePayload(category ServiceCategory, raw []byte) (RatePayload, error) {
	switch category {
	case CategoryHotelRoom:
		var p HotelRate
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CategoryTransfer:
		var p TransferRate
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CategoryVehicleHire:
		var p VehicleRate
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CategoryGuideService:
		var p GuideRate
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case CategoryActivity:
		var p ActivityRate
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown service category %q", category)
	}
}
