package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// Subscribe connects to a live stream at url and calls onEvent for each event
// received. The hub may batch several events into one frame separated by
// newlines. Subscribe returns when ctx is done or the connection fails.
func Subscribe(ctx context.Context, url string, onEvent func(Event)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	// Closing the connection on cancel unblocks ReadMessage below.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		conn.Close()
	}()

	conn.SetPingHandler(func(data string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		for _, line := range bytes.Split(message, []byte{'\n'}) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var ev Event
			if err := json.Unmarshal(line, &ev); err != nil {
				log.Printf("WARN: live event: %v", err)
				continue
			}
			onEvent(ev)
		}
	}
}

// SubscribeLoop keeps a subscription open, reconnecting with a doubling
// backoff capped at maxBackoff, until ctx is done.
func SubscribeLoop(ctx context.Context, url string, maxBackoff time.Duration, onEvent func(Event)) {
	backoff := time.Second
	for {
		start := time.Now()
		err := Subscribe(ctx, url, onEvent)
		if ctx.Err() != nil {
			return
		}
		if time.Since(start) > maxBackoff {
			backoff = time.Second
		}
		log.Printf("WARN: live updates disconnected: %v (retry in %s)", err, backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}
