package measurements

import "time"

// BodyMeasurement is one body-weight entry, tracked at day granularity.
// The store does not enforce one entry per day; readers must tolerate
// duplicates and treat the collection as ordered by date ascending.
type BodyMeasurement struct {
	ID      int       `json:"id"`
	Date    time.Time `json:"date"`
	Weight  float64   `json:"weight"`
	BodyFat *float64  `json:"bodyFat,omitempty"`
	Note    string    `json:"note,omitempty"`
}
