package models

// Reservation is embedded in a Table and has no table of its own.
type Reservation struct {
	ID              string `json:"_id"`
	User            string `json:"user"`
	ReservationDate string `json:"reservationDate"`
	ReservationTime string `json:"reservationTime"`
}

// Matches compares the full (date, time, user) triple without normalization.
func (r Reservation) Matches(date, time, user string) bool {
	return r.ReservationDate == date && r.ReservationTime == time && r.User == user
}
