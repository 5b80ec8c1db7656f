package notify

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/storefront/internal/domain"
	"github.com/nfrund/storefront/internal/pubsub"
	"github.com/nfrund/storefront/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SendsMailForEvents(t *testing.T) {
	bridge := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &testutils.RecordingSender{}
	require.NoError(t, New(mailer).Start(ctx, bridge))

	require.NoError(t, pubsub.Publish(ctx, bridge, pubsub.UserSignedUp, "u1", domain.UserSignedUp{UserID: "u1", Email: "new@example.com"}))
	require.NoError(t, pubsub.Publish(ctx, bridge, pubsub.OrderPlaced, "u1", domain.OrderPlaced{OrderID: "o1", UserID: "u1", Email: "new@example.com", Total: "19.98", Items: 1}))

	require.Eventually(t, func() bool { return len(mailer.Sent()) == 2 }, 2*time.Second, 10*time.Millisecond)

	subjects := map[string]bool{}
	for _, m := range mailer.Sent() {
		assert.Equal(t, "new@example.com", m.To)
		subjects[m.Subject] = true
	}
	assert.True(t, subjects["Signup succeeded!"])
	assert.True(t, subjects["Your order o1"])
}
