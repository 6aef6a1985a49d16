package employeeattendance

import (
	"attendly/internal/employee"

	eaerrors "attendly/internal/employeeattendance/errors"
)

func isNegative(status string) bool {
	return status == employee.StatusAbsent || status == employee.StatusLate
}

// validateTransition guards the daily lifecycle of an existing row against a
// requested check-in status:
//
//	present/checked_out -> absent/late  rejected (no retroactive downgrade)
//	absent/late         -> absent/late  rejected (no duplicate negative mark)
//	anything else                       allowed  (e.g. absent -> present correction)
//
// Check-out is not routed through here; it overwrites unconditionally.
func validateTransition(current, requested string) error {
	if isNegative(requested) {
		if current == employee.StatusPresent || current == employee.StatusCheckedOut {
			return eaerrors.ErrStatusDowngrade(current, requested)
		}
		if isNegative(current) {
			return eaerrors.ErrDuplicateNegativeMarking(current, requested)
		}
	}
	return nil
}
