// Package service holds the business rules of the API.
//
//	Handler (HTTP)  → parses requests, writes responses
//	Service         → validates, enforces rules, owns transactions
//	Repository      → reads and writes the database
//
// Services depend on the interfaces in internal/repository, never on the
// sqlite package, so tests can hand them a fake or an in-memory database.
//
// Every operation that changes a user's point total runs inside
// repository.TxRunner.InTx, so the task (or checklist) row and the user's
// total_points/level commit or roll back together.
package service

import (
	"strings"
	"time"

	"github.com/sakif/studyquest/internal/apperror"
	"github.com/sakif/studyquest/internal/model"
)

// Clock returns the current time in the zone calendar dates are computed in.
type Clock func() time.Time

// SystemClock is the wall clock in loc. A nil loc means time.Local.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always returns t. Used by tests.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// parseDate validates a YYYY-MM-DD value and returns it in canonical form.
func parseDate(field, value string) (string, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", apperror.ValidationFailed(field, field+" must be a date in YYYY-MM-DD format")
	}
	return d.Format(model.DateLayout), nil
}
