package bookings

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHubSubscriberBookkeeping(t *testing.T) {
	hub := NewHub()
	if n := hub.Subscribers("b1"); n != 0 {
		t.Fatalf("expected 0 subscribers, got %d", n)
	}

	// nil conns are fine for bookkeeping; no writes happen here
	hub.add("b1", nil)
	if n := hub.Subscribers("b1"); n != 1 {
		t.Fatalf("expected 1 subscriber, got %d", n)
	}
	if n := hub.Subscribers("b2"); n != 0 {
		t.Fatalf("expected booking isolation, got %d", n)
	}

	hub.remove("b1", nil)
	if n := hub.Subscribers("b1"); n != 0 {
		t.Fatalf("expected 0 after remove, got %d", n)
	}

	// removing twice or from an unknown booking must not panic
	hub.remove("b1", nil)
	hub.remove("b2", nil)
}

// A booking can receive an admin status update and a payment webhook at
// the same moment; both broadcast to the same connections.
func TestHubConcurrentBroadcast(t *testing.T) {
	hub := NewHub()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.add("b1", conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 100 && hub.Subscribers("b1") == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Subscribers("b1") == 0 {
		t.Fatal("connection never registered")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for i := 0; i < 100; i++ {
			if _, _, err := conn.ReadMessage(); err != nil {
				t.Errorf("read %d failed: %v", i, err)
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				hub.Broadcast("b1", map[string]string{"bookingid": "b1", "bookingStatus": "confirmed"})
			}
		}()
	}
	wg.Wait()
	<-done
}
