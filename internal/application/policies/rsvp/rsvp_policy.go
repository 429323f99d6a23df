package policies

import (
	"strings"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"
)

// Attendance answers accepted from the RSVP form.
const (
	AttendanceYes = "yes"
	AttendanceNo  = "no"
)

// Reason explains why an RSVP was rejected. Empty means accepted.
type Reason string

const (
	ReasonOutOfRange        Reason = "OUT_OF_RANGE"
	ReasonInvalidAttendance Reason = "INVALID_ATTENDANCE"
	ReasonAlreadyResponded  Reason = "ALREADY_RESPONDED"
)

// Decision is the outcome of an RSVP: the new status and seat count, or a rejection.
type Decision struct {
	Status          string
	ConfirmedGuests int
	Rejected        Reason
}

func (d Decision) Accepted() bool { return d.Rejected == "" }

// Policy decides RSVP transitions. The zero value lets guests change their answer
// any number of times; LockAfterResponse makes the first answer final.
type Policy struct {
	LockAfterResponse bool
}

// Decide maps (current status, attendance, count) to the next state. It has no side
// effects and never fails; invalid input comes back as a rejected Decision.
func (p Policy) Decide(current, attendance string, count, maxGuests int) Decision {
	if p.LockAfterResponse && current != "" && current != domain.StatusPending {
		return Decision{Status: current, Rejected: ReasonAlreadyResponded}
	}
	switch NormalizeAttendance(attendance) {
	case AttendanceYes:
		if count < 1 || count > maxGuests {
			return Decision{Status: current, Rejected: ReasonOutOfRange}
		}
		return Decision{Status: domain.StatusConfirmed, ConfirmedGuests: count}
	case AttendanceNo:
		return Decision{Status: domain.StatusDeclined, ConfirmedGuests: 0}
	default:
		return Decision{Status: current, Rejected: ReasonInvalidAttendance}
	}
}

func NormalizeAttendance(attendance string) string {
	return strings.ToLower(strings.TrimSpace(attendance))
}
