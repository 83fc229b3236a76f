package compose

import (
	"strings"
	"time"

	"github.com/rheumaview/rheumaview/internal/model"
)

// Warnings recorded while deriving the age. They never contain the date
// of birth itself.
const (
	warnDOBMalformed = "date of birth is not a valid YYYY-MM-DD date"
	warnDOBFuture    = "date of birth is after the report date"
)

// DeriveAge resolves the patient age on the given day.
//
// A DOB in YYYY-MM-DD wins; the age is the difference in years, minus one
// while the birthday has not been reached. A DOB that is malformed or in
// the future is not an error: the entered age is used instead, or the age
// is unknown, and a warning is returned.
func DeriveAge(dob string, entered *int, today time.Time) (model.Age, string) {
	fallback := model.UnknownAge
	if entered != nil {
		fallback = model.Age{Years: *entered, Known: true, Source: model.AgeEntered}
	}

	dob = strings.TrimSpace(dob)
	if dob == "" {
		return fallback, ""
	}

	born, err := time.Parse(time.DateOnly, dob)
	if err != nil {
		return fallback, warnDOBMalformed
	}

	years := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return fallback, warnDOBFuture
	}
	return model.Age{Years: years, Known: true, Source: model.AgeFromDOB}, ""
}
