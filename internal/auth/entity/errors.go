package entity

import "fmt"

// ResendThrottledError reports that a resend was denied by the throttle
// policy, with the remaining wait rounded up to whole minutes.
//
// The store returns it when the re-check under the row lock fails, so two
// concurrent resends can never both slip past the cap.
type ResendThrottledError struct {
	RetryAfterMinutes int
}

func (e *ResendThrottledError) Error() string {
	return fmt.Sprintf("resend throttled, retry after %d minute(s)", e.RetryAfterMinutes)
}
