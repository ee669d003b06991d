package brackets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishToChampionshipRoom(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	follower := NewClient(hub, nil, ChampionshipRoom(3))
	other := NewClient(hub, nil, ChampionshipRoom(4))
	hub.Register <- follower
	hub.Register <- other
	require.Eventually(t, func() bool {
		return hub.RoomSize("championship_3") == 1 && hub.RoomSize("championship_4") == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(3, EventPhaseAdvanced, map[string]int{"phase": 5})

	select {
	case raw := <-follower.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, EventPhaseAdvanced, msg.Type)
		assert.Equal(t, "championship_3", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("follower did not receive the event")
	}
	assert.Empty(t, other.Send)

	hub.Unregister <- follower
	require.Eventually(t, func() bool { return hub.RoomSize("championship_3") == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-follower.Send
	assert.False(t, open)
}
