package handlers_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/state"
	"github.com/ammerola/storefront/internal/handlers"
	"github.com/ammerola/storefront/test/helpers"
)

// readEvent returns the data line of the next "state" event
func readEvent(t *testing.T, r *bufio.Reader) handlers.StateEvent {
	t.Helper()

	var isState bool
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case line == "event: state":
			isState = true
		case isState && strings.HasPrefix(line, "data: "):
			var ev handlers.StateEvent
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
			return ev
		}
	}
}

func openStream(t *testing.T, url string) (*bufio.Reader, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	return bufio.NewReader(resp.Body), cancel
}

func TestEventHub_BroadcastsStateChanges(t *testing.T) {
	st := state.New()
	hub := handlers.NewEventHub(st, helpers.TestLogger())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	first, cancelFirst := openStream(t, srv.URL)
	defer cancelFirst()
	second, cancelSecond := openStream(t, srv.URL)
	defer cancelSecond()

	helpers.AssertEventuallyWithTimeout(t, func() bool { return hub.Clients() == 2 }, time.Second, "both streams registered")

	st.SetCart([]domain.CartItem{{ID: 1, Content: "Apple", Amount: 1}})

	for _, r := range []*bufio.Reader{first, second} {
		ev := readEvent(t, r)
		assert.Equal(t, uint64(1), ev.Seq)
		assert.Equal(t, uint64(1), ev.CartRevision)
	}

	st.SetInventory(nil)
	ev := readEvent(t, first)
	assert.Equal(t, uint64(2), ev.Seq)
	assert.Equal(t, uint64(1), ev.CartRevision, "inventory changes keep the cart revision")
}

func TestEventHub_ClientDisconnect(t *testing.T) {
	st := state.New()
	hub := handlers.NewEventHub(st, helpers.TestLogger())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	_, cancel := openStream(t, srv.URL)
	helpers.AssertEventuallyWithTimeout(t, func() bool { return hub.Clients() == 1 }, time.Second, "stream registered")

	cancel()
	helpers.AssertEventuallyWithTimeout(t, func() bool { return hub.Clients() == 0 }, time.Second, "stream removed")

	assert.NotPanics(t, func() { st.SetCart(nil) })
}

func TestEventHub_Close(t *testing.T) {
	st := state.New()
	hub := handlers.NewEventHub(st, helpers.TestLogger())
	srv := httptest.NewServer(hub)
	defer srv.Close()

	r, cancel := openStream(t, srv.URL)
	defer cancel()
	helpers.AssertEventuallyWithTimeout(t, func() bool { return hub.Clients() == 1 }, time.Second, "stream registered")

	hub.Close()
	hub.Close()

	_, err := r.ReadString('\n')
	assert.Error(t, err, "the stream ends once the hub is closed")
	assert.Equal(t, 0, hub.Clients())

	w := httptest.NewRecorder()
	hub.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
