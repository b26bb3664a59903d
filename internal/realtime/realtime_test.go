package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blockgen/pkg"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestHub_RoutesByProject(t *testing.T) {
	hub := startHub(t)

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	hub.register <- a
	hub.register <- b
	hub.subscribe <- subscribeMsg{client: a, projectID: 1}
	hub.subscribe <- subscribeMsg{client: b, projectID: 2}

	hub.Publish(1, []byte(`one`))
	hub.Publish(2, []byte(`two`))

	assert.Equal(t, []byte(`one`), receive(t, a))
	assert.Equal(t, []byte(`two`), receive(t, b))
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub, nil)
	hub.register <- c
	hub.subscribe <- subscribeMsg{client: c, projectID: 1}
	hub.subscribe <- subscribeMsg{client: c, projectID: 2}
	hub.subscribe <- subscribeMsg{client: c, projectID: 1, leave: true}

	hub.Publish(1, []byte(`one`))
	hub.Publish(2, []byte(`two`))

	assert.Equal(t, []byte(`two`), receive(t, c))
}

func TestHub_UnregisterClosesQueue(t *testing.T) {
	hub := startHub(t)

	c := NewClient(hub, nil)
	hub.register <- c
	hub.subscribe <- subscribeMsg{client: c, projectID: 1}
	hub.unregister <- c

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("queue not closed")
	}
}

func TestHub_StoppedHubDoesNotBlockSenders(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(hub, nil)
	require.True(t, deliver(hub, hub.register, c))
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	returned := make(chan struct{})
	go func() {
		defer close(returned)
		for i := 0; i < 2*cap(hub.broadcast); i++ {
			hub.Publish(1, []byte(`late`))
		}
		assert.False(t, deliver(hub, hub.unregister, c))
		assert.False(t, deliver(hub, hub.subscribe, subscribeMsg{client: c, projectID: 1}))
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("senders blocked after the hub stopped")
	}

	_, ok := <-c.send
	assert.False(t, ok)
}

func TestParseProjectIDFromSubject(t *testing.T) {
	id, err := parseProjectIDFromSubject("tenant.acme.project.42.generated")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, subject := range []string{
		"tenant.acme.job.42.progress",
		"tenant.acme.project.x.generated",
		"tenant.acme.project.42",
	} {
		_, err := parseProjectIDFromSubject(subject)
		assert.Error(t, err, subject)
	}
}

func TestNATSBridge_Handle(t *testing.T) {
	hub := startHub(t)
	bridge := &NATSBridge{hub: hub, tenantID: "acme", logger: zerolog.Nop()}
	assert.Equal(t, "tenant.acme.project.*.generated", bridge.Subject())

	c := NewClient(hub, nil)
	hub.register <- c
	hub.subscribe <- subscribeMsg{client: c, projectID: 7}

	bridge.handle(&nats.Msg{Subject: "tenant.acme.project.7.generated", Data: []byte(`{"type":"project.generated"}`)})

	var out outgoingMsg
	require.NoError(t, json.Unmarshal(receive(t, c), &out))
	assert.Equal(t, MessageProjectGenerated, out.Type)
	assert.Equal(t, uint(7), out.ProjectID)
	assert.JSONEq(t, `{"type":"project.generated"}`, string(out.Payload))
}

func TestEnvelope_RejectsNonJSON(t *testing.T) {
	_, err := envelope(1, []byte("not json"))
	assert.Error(t, err)
}

func TestServeWS_RequiresToken(t *testing.T) {
	hub := startHub(t)

	w := httptest.NewRecorder()
	ServeWS(hub, "secret", w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	ServeWS(hub, "secret", w, httptest.NewRequest(http.MethodGet, "/ws?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServeWS_RejectsBadProject(t *testing.T) {
	hub := startHub(t)
	token, err := pkg.GenerateToken(3, "user@example.com", "user", "secret", 5)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ServeWS(hub, "secret", w, httptest.NewRequest(http.MethodGet, "/ws?token="+token+"&project=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
