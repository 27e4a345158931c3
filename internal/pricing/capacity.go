package pricing

import "fmt"

// checkMaxCapacity rejects count above max. A non-positive max is unbounded.
func checkMaxCapacity(count, max int, what string) error {
	if max > 0 && count > max {
		return fmt.Errorf("%w: requested %d exceeds %s maximum capacity of %d", ErrInvalidInput, count, what, max)
	}
	return nil
}

func checkParticipants(pax, min, max int) error {
	if min > 0 && pax < min {
		return fmt.Errorf("%w: %d participants is below minimum requirement of %d", ErrInvalidInput, pax, min)
	}
	if max > 0 && pax > max {
		return fmt.Errorf("%w: %d participants exceeds maximum capacity of %d", ErrInvalidInput, pax, max)
	}
	return nil
}
