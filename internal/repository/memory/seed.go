package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/tourops-pricing/internal/model"
)

type seedOffering struct {
	ID              uuid.UUID `json:"id"`
	TenantID        uuid.UUID `json:"tenant_id"`
	Category        string    `json:"category"`
	Title           string    `json:"title"`
	SupplierName    string    `json:"supplier_name"`
	MaxOccupancy    int       `json:"max_occupancy"`
	MaxPassengers   int       `json:"max_passengers"`
	MinParticipants int       `json:"min_participants"`
	MaxParticipants int       `json:"max_participants"`
}

type seedFile struct {
	Offerings []seedOffering `json:"offerings"`
}

// SeedOfferingsFile loads the offering catalog from a JSON fixture on disk.
func (s *Store) SeedOfferingsFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return s.SeedOfferings(f)
}

// SeedOfferings reads {"offerings": [...]} and registers every entry.
// Nothing is stored when any entry is invalid.
func (s *Store) SeedOfferings(r io.Reader) (int, error) {
	var file seedFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	offerings := make([]model.ServiceOffering, 0, len(file.Offerings))
	seen := make(map[uuid.UUID]struct{}, len(file.Offerings))
	for i, entry := range file.Offerings {
		offering, err := entry.toModel()
		if err != nil {
			return 0, fmt.Errorf("seed offering %d: %w", i, err)
		}
		if _, dup := seen[offering.ID]; dup {
			return 0, fmt.Errorf("seed offering %d: duplicate id %s", i, offering.ID)
		}
		seen[offering.ID] = struct{}{}
		offerings = append(offerings, offering)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, offering := range offerings {
		s.offerings[offering.ID] = offering
	}
	return len(offerings), nil
}

func (o seedOffering) toModel() (model.ServiceOffering, error) {
	category := model.ServiceCategory(strings.ToUpper(strings.TrimSpace(o.Category)))
	switch {
	case o.ID == uuid.Nil:
		return model.ServiceOffering{}, fmt.Errorf("id is required")
	case o.TenantID == uuid.Nil:
		return model.ServiceOffering{}, fmt.Errorf("tenant_id is required")
	case !category.Valid():
		return model.ServiceOffering{}, fmt.Errorf("unknown category %q", o.Category)
	case o.MaxOccupancy < 0 || o.MaxPassengers < 0 || o.MinParticipants < 0 || o.MaxParticipants < 0:
		return model.ServiceOffering{}, fmt.Errorf("capacity limits cannot be negative")
	case o.MaxParticipants > 0 && o.MinParticipants > o.MaxParticipants:
		return model.ServiceOffering{}, fmt.Errorf("min_participants exceeds max_participants")
	}
	return model.ServiceOffering{
		ID:              o.ID,
		TenantID:        o.TenantID,
		Category:        category,
		Title:           strings.TrimSpace(o.Title),
		SupplierName:    strings.TrimSpace(o.SupplierName),
		MaxOccupancy:    o.MaxOccupancy,
		MaxPassengers:   o.MaxPassengers,
		MinParticipants: o.MinParticipants,
		MaxParticipants: o.MaxParticipants,
	}, nil
}
