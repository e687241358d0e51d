package callbacktypes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseReservationID(t *testing.T) {
	id := uuid.New()

	got, ok := ParseReservationID(Approve(id), ApproveReservation)
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = ParseReservationID(Approve(id), RejectReservation)
	assert.False(t, ok, "wrong prefix")

	_, ok = ParseReservationID("cancel:not-a-uuid", CancelReservation)
	assert.False(t, ok)
}
