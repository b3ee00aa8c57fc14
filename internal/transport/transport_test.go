package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockWSServer creates a test WebSocket server.
func mockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testConfig(url string) Config {
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.BufferSize = 100
	return cfg
}

// waitEvent reads events until one of the wanted kind arrives.
func waitEvent(t *testing.T, h Handle, kind EventKind) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-h.Events():
			if !ok {
				t.Fatalf("event stream closed while waiting for kind %d", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func TestHandle_OpenAndClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	h := NewHandle(testConfig(wsURL(server)), nil)
	h.Start(context.Background())

	waitEvent(t, h, EventOpen)

	if err := h.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}

	waitEvent(t, h, EventClose)

	if err := h.Close(); err != ErrAlreadyClosed {
		t.Errorf("second Close = %v, want ErrAlreadyClosed", err)
	}
}

func TestHandle_Send(t *testing.T) {
	var mu sync.Mutex
	var received []byte

	server := mockWSServer(t, func(conn *websocket.Conn) {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			mu.Lock()
			received = msg
			mu.Unlock()
		}
	})
	defer server.Close()

	h := NewHandle(testConfig(wsURL(server)), nil)
	h.Start(context.Background())
	defer h.Close()

	waitEvent(t, h, EventOpen)

	if err := h.Send([]byte(`{"type":"auth"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	got := string(received)
	mu.Unlock()
	if got != `{"type":"auth"}` {
		t.Errorf("server received %q, want %q", got, `{"type":"auth"}`)
	}
}

func TestHandle_SendBeforeOpen(t *testing.T) {
	h := NewHandle(testConfig("ws://127.0.0.1:1"), nil)

	if err := h.Send([]byte("x")); err != ErrNotConnected {
		t.Errorf("Send = %v, want ErrNotConnected", err)
	}
}

func TestHandle_Receive(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"status_update","payload":{"status":"ok"}}`))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	h := NewHandle(testConfig(wsURL(server)), nil)
	h.Start(context.Background())
	defer h.Close()

	ev := waitEvent(t, h, EventMessage)
	if string(ev.Data) != `{"type":"status_update","payload":{"status":"ok"}}` {
		t.Errorf("Data = %s", ev.Data)
	}
}

func TestHandle_DialFailure(t *testing.T) {
	// Nothing listens here
	h := NewHandle(testConfig("ws://127.0.0.1:1"), nil)
	h.Start(context.Background())

	waitEvent(t, h, EventError)
	ev := waitEvent(t, h, EventClose)
	if ev.Code != websocket.CloseAbnormalClosure {
		t.Errorf("Code = %d, want %d", ev.Code, websocket.CloseAbnormalClosure)
	}

	if _, ok := <-h.Events(); ok {
		t.Error("expected event stream to be closed after EventClose")
	}
}

func TestHandle_ServerClose(t *testing.T) {
	server := mockWSServer(t, func(conn *websocket.Conn) {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "maintenance"),
			time.Now().Add(time.Second),
		)
		conn.ReadMessage()
	})
	defer server.Close()

	h := NewHandle(testConfig(wsURL(server)), nil)
	h.Start(context.Background())

	waitEvent(t, h, EventOpen)
	ev := waitEvent(t, h, EventClose)
	if ev.Code != websocket.CloseGoingAway {
		t.Errorf("Code = %d, want %d", ev.Code, websocket.CloseGoingAway)
	}
	if ev.Reason != "maintenance" {
		t.Errorf("Reason = %q, want %q", ev.Reason, "maintenance")
	}
}
