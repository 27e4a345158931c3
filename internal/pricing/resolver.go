package pricing

import (
	"fmt"
	"sort"
	"time"

	"github.com/nurpe/tourops-pricing/internal/model"
)

// Resolve picks the active season covering asOf. An empty subKey matches any
// sub-key. If several seasons match, the most recently created one wins.
func Resolve(candidates []model.RateRecord, subKey string, asOf time.Time) (*model.RateRecord, error) {
	day := DateOnly(asOf)

	var picked *model.RateRecord
	for i := range candidates {
		rate := &candidates[i]
		if !rate.IsActive {
			continue
		}
		if subKey != "" && rate.SubKey() != subKey {
			continue
		}
		if !rate.Covers(day) {
			continue
		}
		if picked == nil || rate.Seq > picked.Seq {
			picked = rate
		}
	}
	if picked == nil {
		return nil, fmt.Errorf("%w: No active rate found for the selected date", ErrNotFound)
	}
	result := *picked
	return &result, nil
}

// CoveringSubKeys lists, sorted, the distinct sub-keys of active seasons that
// cover asOf.
func CoveringSubKeys(candidates []model.RateRecord, asOf time.Time) []string {
	day := DateOnly(asOf)
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, rate := range candidates {
		if !rate.IsActive || !rate.Covers(day) {
			continue
		}
		key := rate.SubKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
