package store

import "time"

// Status is the event lifecycle state, always derived rather than stored.
type Status string

const (
	Live      Status = "live"
	Running   Status = "running"
	Completed Status = "completed"
	Signed    Status = "signed"
)

// StatusOf derives an event's lifecycle status from (observation_date,
// now, attestation):
//
//	Live      -> before the observation window opens
//	Running   -> now in [observation_date, observation_date+1d) and unsigned
//	Completed -> now >= observation_date+1d and unsigned
//	Signed    -> attestation present, regardless of time
func StatusOf(ev Event, now time.Time) Status {
	if len(ev.AttestationSignature) > 0 {
		return Signed
	}
	closes := ev.ObservationDate.Add(24 * time.Hour)
	switch {
	case now.Before(ev.ObservationDate):
		return Live
	case now.Before(closes):
		return Running
	default:
		return Completed
	}
}
