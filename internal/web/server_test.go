package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/skyraid/internal/game"
	"github.com/tomz197/skyraid/internal/store"
)

const testPage = `<html><body><code>ssh {{.SSHHost}}</code></body></html>`

func newTestServer(t *testing.T) (*Server, *store.Records, *httptest.Server) {
	t.Helper()
	records := store.NewMemory()
	srv := NewServer(records, testPage, "play.example.com", WithPollInterval(20*time.Millisecond))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, records, ts
}

func saveRun(t *testing.T, records *store.Records, id, player string, score int) {
	t.Helper()
	_, err := records.SaveRun(context.Background(), game.Summary{
		RunID:   id,
		Player:  player,
		Score:   score,
		EndedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestPage(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "ssh play.example.com")
	assert.NotContains(t, body.String(), "{{.SSHHost}}")
}

func TestUnknownPath(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLeaderboardAPI(t *testing.T) {
	_, records, ts := newTestServer(t)

	get := func() Message {
		resp, err := http.Get(ts.URL + "/api/leaderboard")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var m Message
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
		return m
	}

	m := get()
	assert.Equal(t, "leaderboard", m.Type)
	assert.NotNil(t, m.Entries)
	assert.Empty(t, m.Entries)

	saveRun(t, records, "r1", "ace", 100)
	saveRun(t, records, "r2", "bob", 300)

	m = get()
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "bob", m.Entries[0].Player)
	assert.Equal(t, 1, m.Entries[0].Rank)
	assert.Equal(t, 100, m.Entries[1].Score)
}

func TestRunAPI(t *testing.T) {
	_, records, ts := newTestServer(t)
	saveRun(t, records, "r1", "ace", 100)

	resp, err := http.Get(ts.URL + "/api/runs/r1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run game.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Equal(t, "ace", run.Player)
	assert.Equal(t, 100, run.Score)

	missing, err := http.Get(ts.URL + "/api/runs/nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func dialFeed(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestFeedSendsChanges(t *testing.T) {
	_, records, ts := newTestServer(t)
	saveRun(t, records, "r1", "ace", 100)

	conn := dialFeed(t, ts)

	m := readMessage(t, conn)
	assert.Equal(t, "leaderboard", m.Type)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "ace", m.Entries[0].Player)

	saveRun(t, records, "r2", "bob", 300)

	m = readMessage(t, conn)
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "bob", m.Entries[0].Player)
}

func TestFeedClosesOnShutdown(t *testing.T) {
	srv, _, ts := newTestServer(t)
	conn := dialFeed(t, ts)
	readMessage(t, conn)

	srv.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
