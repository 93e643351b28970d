package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	enabled bool
	token   string
}

func (v *fakeValidator) IsEnabled() bool { return v.enabled }

func (v *fakeValidator) ValidateTokenString(token string) error {
	if token == v.token {
		return nil
	}
	return errors.New("invalid token")
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestHandler_SubscribeAndBroadcast(t *testing.T) {
	t.Parallel()

	hub := NewOccupancyHub()
	srv := httptest.NewServer(NewHandler(hub, nil))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/occupancy/lot-a"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.HasClients("lot-a")
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.ClientCount())
	assert.False(t, hub.HasClients("lot-b"))

	verdicts := []bool{true, false, true}
	hub.BroadcastOccupancy("lot-a", NewOccupancyMessage("lot-a", 42, 900, verdicts))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg OccupancyMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "occupancy", msg.Type)
	assert.Equal(t, "lot-a", msg.StreamID)
	assert.Equal(t, uint64(42), msg.FrameSeq)
	assert.Equal(t, 900, msg.Threshold)
	assert.Equal(t, verdicts, msg.Verdicts)
	assert.Equal(t, 2, msg.Summary.Free)
	assert.Equal(t, 1, msg.Summary.Occupied)
}

func TestHandler_CalibrationNotice(t *testing.T) {
	t.Parallel()

	hub := NewOccupancyHub()
	srv := httptest.NewServer(NewHandler(hub, nil))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/occupancy/lot-a"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.HasClients("lot-a")
	}, time.Second, 10*time.Millisecond)

	hub.BroadcastCalibration("lot-a", &CalibrationMessage{
		Type:      "calibration",
		StreamID:  "lot-a",
		SessionID: "abc",
		Threshold: 550,
		Reason:    "drift",
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg CalibrationMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "calibration", msg.Type)
	assert.Equal(t, 550, msg.Threshold)
	assert.Equal(t, "drift", msg.Reason)
}

func TestHandler_InvalidPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(NewHandler(NewOccupancyHub(), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws/occupancy/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_TokenChecks(t *testing.T) {
	t.Parallel()

	hub := NewOccupancyHub()
	validator := &fakeValidator{enabled: true, token: "good"}
	srv := httptest.NewServer(NewHandler(hub, validator))
	defer srv.Close()

	t.Run("rejects missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/occupancy/lot-a"), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("accepts query token", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/occupancy/lot-a?token=good"), nil)
		require.NoError(t, err)
		conn.Close()
	})

	t.Run("accepts bearer header", func(t *testing.T) {
		header := http.Header{"Authorization": []string{"Bearer good"}}
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/occupancy/lot-a"), header)
		require.NoError(t, err)
		conn.Close()
	})
}

func TestHub_UnregisterOnDisconnect(t *testing.T) {
	t.Parallel()

	hub := NewOccupancyHub()
	srv := httptest.NewServer(NewHandler(hub, nil))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/occupancy/lot-a"), nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.HasClients("lot-a")
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return !hub.HasClients("lot-a")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, hub.ClientCount())
}
