package policies

import (
	"testing"

	"github.com/AndyRamoss/Invitacion-Andy/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestDecide_Yes(t *testing.T) {
	p := Policy{}
	for count := 1; count <= 4; count++ {
		d := p.Decide(domain.StatusPending, "yes", count, 4)
		assert.True(t, d.Accepted())
		assert.Equal(t, domain.StatusConfirmed, d.Status)
		assert.Equal(t, count, d.ConfirmedGuests)
	}
}

func TestDecide_YesOutOfRange(t *testing.T) {
	p := Policy{}
	for _, count := range []int{0, -1, 5, 100} {
		d := p.Decide(domain.StatusPending, "yes", count, 4)
		assert.Equal(t, ReasonOutOfRange, d.Rejected, "count %d", count)
		assert.Equal(t, domain.StatusPending, d.Status)
	}
}

func TestDecide_NoIgnoresCount(t *testing.T) {
	d := Policy{}.Decide(domain.StatusConfirmed, "no", 3, 4)
	assert.True(t, d.Accepted())
	assert.Equal(t, domain.StatusDeclined, d.Status)
	assert.Equal(t, 0, d.ConfirmedGuests)
}

func TestDecide_NormalizesAttendance(t *testing.T) {
	d := Policy{}.Decide(domain.StatusPending, "  YES ", 2, 2)
	assert.Equal(t, domain.StatusConfirmed, d.Status)
}

func TestDecide_InvalidAttendance(t *testing.T) {
	for _, a := range []string{"", "maybe", "si", "y"} {
		d := Policy{}.Decide(domain.StatusPending, a, 1, 4)
		assert.Equal(t, ReasonInvalidAttendance, d.Rejected, a)
	}
}

func TestDecide_ResubmissionAllowedByDefault(t *testing.T) {
	p := Policy{}
	d := p.Decide(domain.StatusConfirmed, "yes", 1, 4)
	assert.True(t, d.Accepted())
	assert.Equal(t, 1, d.ConfirmedGuests)

	d = p.Decide(domain.StatusDeclined, "yes", 2, 4)
	assert.Equal(t, domain.StatusConfirmed, d.Status)
}

func TestDecide_LockAfterResponse(t *testing.T) {
	p := Policy{LockAfterResponse: true}
	assert.True(t, p.Decide(domain.StatusPending, "no", 0, 4).Accepted())

	d := p.Decide(domain.StatusDeclined, "yes", 2, 4)
	assert.Equal(t, ReasonAlreadyResponded, d.Rejected)
	assert.Equal(t, domain.StatusDeclined, d.Status)
}
