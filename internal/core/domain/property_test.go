package domain

import "testing"

func TestConfirmableStatuses(t *testing.T) {
	confirmable := make(map[PropertyStatus]bool)
	for _, s := range ConfirmableStatuses() {
		confirmable[s] = true
	}

	for _, s := range []PropertyStatus{PropertyAvailable, PropertyUnavailable, PropertyPendingConfirmation} {
		if !confirmable[s] {
			t.Errorf("%s is not confirmable, but owners must re-confirm it", s)
		}
	}
	// Закрытые сделки не опрашиваются.
	for _, s := range []PropertyStatus{PropertyRented, PropertySold, PropertyReserved} {
		if confirmable[s] {
			t.Errorf("%s is confirmable, but closed deals must not be polled", s)
		}
	}
}
