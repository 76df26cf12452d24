package viz

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type frame struct {
	Tick int `json:"tick"`
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return f
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub(quiet())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitFor(t, func() bool { return hub.Subscribers() == 2 })

	if err := hub.Broadcast(frame{Tick: 7}); err != nil {
		t.Fatal(err)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		if f := readFrame(t, conn); f.Tick != 7 {
			t.Errorf("tick = %d, want 7", f.Tick)
		}
	}
}

func TestLateSubscriberGetsLatest(t *testing.T) {
	hub := NewHub(quiet())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Broadcast(frame{Tick: 1})
	hub.Broadcast(frame{Tick: 2})

	conn := dial(t, srv)
	if f := readFrame(t, conn); f.Tick != 2 {
		t.Errorf("tick = %d, want latest 2", f.Tick)
	}
}

func TestDisconnectRemovesSubscriber(t *testing.T) {
	hub := NewHub(quiet())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return hub.Subscribers() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.Subscribers() == 0 })
}

func TestHealthz(t *testing.T) {
	hub := NewHub(quiet())
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Broadcast(frame{Tick: 1})

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status     string `json:"status"`
		Broadcasts uint64 `json:"broadcasts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Broadcasts != 1 {
		t.Errorf("healthz = %+v", body)
	}
}

func TestBroadcastRejectsUnencodable(t *testing.T) {
	hub := NewHub(quiet())
	if err := hub.Broadcast(make(chan int)); err == nil {
		t.Error("expected marshal error")
	}
}
