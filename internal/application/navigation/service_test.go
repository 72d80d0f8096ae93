package navigation

import (
	"log/slog"
	"testing"

	"github.com/organizer-api/internal/pkg/deeplink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"

func newSvc() Service {
	return NewService(slog.Default())
}

func TestDeliver_ValidLinkSetsPendingOnce(t *testing.T) {
	svc := newSvc()
	svc.Deliver(deeplink.Encode(validID))

	got, ok := svc.ConsumePending()
	require.True(t, ok)
	assert.Equal(t, validID, got)

	// Consumed: a second read finds nothing.
	_, ok = svc.ConsumePending()
	assert.False(t, ok)
}

func TestDeliver_MalformedLinkLeavesPendingUnchanged(t *testing.T) {
	svc := newSvc()
	svc.Deliver(deeplink.Encode(validID))

	// An unrelated malformed URI must not disturb the pending route.
	svc.Deliver("organizer://reminder/not-a-ulid")
	svc.Deliver("https://example.com/whatever")

	got, ok := svc.ConsumePending()
	require.True(t, ok)
	assert.Equal(t, validID, got)
}

func TestDeliver_SecondValidLinkReplacesFirst(t *testing.T) {
	svc := newSvc()
	svc.Deliver(deeplink.Encode(validID))
	svc.Deliver(deeplink.Encode("01BX5ZZKBKACTAV9WEVGEMMVRZ"))

	got, ok := svc.ConsumePending()
	require.True(t, ok)
	assert.Equal(t, "01BX5ZZKBKACTAV9WEVGEMMVRZ", got)
}

func TestConsumePending_EmptyByDefault(t *testing.T) {
	_, ok := newSvc().ConsumePending()
	assert.False(t, ok)
}

func TestRegisterHandler_LastRegistrationWins(t *testing.T) {
	svc := newSvc()

	var first, second []string
	svc.RegisterHandler(func(id string) { first = append(first, id) })
	svc.RegisterHandler(func(id string) { second = append(second, id) })

	svc.Deliver(deeplink.Encode(validID))

	assert.Empty(t, first)
	assert.Equal(t, []string{validID}, second)
	// The default pending-route handler was replaced too.
	_, ok := svc.ConsumePending()
	assert.False(t, ok)
}
