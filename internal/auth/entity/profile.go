package entity

import "time"

// Profile is the personnel directory snapshot for one employee, keyed by
// document number.
type Profile struct {
	DocumentNumber string
	FullName       string
	Email          string
	Phone          string
	Position       string
	OfficeCode     string
	ContractEndAt  *time.Time
}

// Active reports whether the employee still has a running contract.
//
// A nil contract end date means an open-ended contract. An end date on or
// after today's date still counts as active; only a date strictly in the past
// deactivates the profile.
func (p *Profile) Active(now time.Time) bool {
	if p.ContractEndAt == nil {
		return true
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	return !p.ContractEndAt.Before(today)
}
