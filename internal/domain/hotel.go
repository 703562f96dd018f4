package domain

import "time"

// Hotel owns a pool of identical rooms. AvailableRooms is the single point
// of contention under concurrent reservations and must only be mutated
// through conditional updates that keep 0 <= available_rooms <= total_rooms.
type Hotel struct {
	ID                 string
	Name               string
	City               string
	OwnerID            string
	Active             bool
	TotalRooms         int
	AvailableRooms     int
	BasePrice          int64
	WeekendMultiplier  float64
	SurgeMultiplier    float64
	FestivalMultiplier float64
	CommissionPercent  float64
	TotalBookings      int64
	TotalRevenue       int64
	CreatedAt          time.Time
}
