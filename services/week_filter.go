package services

import (
	"iter"
	"time"

	"gorm.io/datatypes"

	"github.com/bookahead/backend/models"
)

// FilterReservationsByWeek yields, for every reservation dated within
// [start, end], a copy of its table carrying only that reservation.
// Reservations with unparsable dates are skipped. The source tables are
// never modified and the sequence can be ranged over any number of times.
func FilterReservationsByWeek(tables []models.Table, start, end time.Time) iter.Seq[models.Table] {
	start, end = truncateDay(start), truncateDay(end)
	return projectReservations(tables, func(r models.Reservation) bool {
		d, err := ParseDate(r.ReservationDate)
		if err != nil {
			return false
		}
		return !d.Before(start) && !d.After(end)
	})
}

// ReservationsOf yields one single-reservation table copy per reservation made by user.
func ReservationsOf(tables []models.Table, user string) iter.Seq[models.Table] {
	return projectReservations(tables, func(r models.Reservation) bool {
		return r.User == user
	})
}

func projectReservations(tables []models.Table, keep func(models.Reservation) bool) iter.Seq[models.Table] {
	return func(yield func(models.Table) bool) {
		for _, t := range tables {
			for _, r := range t.Reservations {
				if !keep(r) {
					continue
				}
				projection := t
				projection.Reservations = datatypes.JSONSlice[models.Reservation]{r}
				if !yield(projection) {
					return
				}
			}
		}
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
