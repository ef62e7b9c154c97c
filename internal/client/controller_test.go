package client_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/omochice/wstest/internal/chat"
	"github.com/omochice/wstest/internal/client"
)

type testConn struct {
	sender   *mockSender
	receiver *mockReceiver
}

func newTestConn() testConn {
	return testConn{sender: &mockSender{}, receiver: newMockReceiver()}
}

func newController(dialer chat.Dialer) (*client.Controller, *client.Slot, *client.Queue) {
	slot := client.NewSlot(nil)
	queue := client.NewQueue(10)
	return client.NewController(dialer, slot, queue, nil), slot, queue
}

func TestController_EmptyEndpoint(t *testing.T) {
	dialer := &mockDialer{dial: func(string) (chat.Sender, chat.Receiver, error) {
		t.Fatal("Dial() called for empty endpoint")
		return nil, nil, nil
	}}
	controller, slot, _ := newController(dialer)
	existing := &mockSender{}
	slot.Replace(existing, "")

	for _, endpoint := range []string{"", "   "} {
		if err := controller.Connect(context.Background(), endpoint); err != nil {
			t.Errorf("Connect(%q) error = %v, want nil", endpoint, err)
		}
	}
	if slot.Current() != existing || existing.Closed() {
		t.Error("empty endpoint must leave the slot untouched")
	}
}

func TestController_InvalidEndpoint(t *testing.T) {
	dialer := &mockDialer{dial: func(endpoint string) (chat.Sender, chat.Receiver, error) {
		return nil, nil, fmt.Errorf("%w: %q", chat.ErrInvalidEndpoint, endpoint)
	}}
	controller, slot, _ := newController(dialer)
	existing := &mockSender{}
	slot.Replace(existing, "")

	err := controller.Connect(context.Background(), "not a url")
	if !errors.Is(err, chat.ErrInvalidEndpoint) {
		t.Errorf("Connect() error = %v, want ErrInvalidEndpoint", err)
	}
	if slot.Current() != existing || existing.Closed() {
		t.Error("invalid endpoint must leave the slot untouched")
	}
}

func TestController_ConnectErrorClearsSlot(t *testing.T) {
	dialer := &mockDialer{dial: func(string) (chat.Sender, chat.Receiver, error) {
		return nil, nil, errors.New("connection refused")
	}}
	controller, slot, _ := newController(dialer)
	existing := &mockSender{}
	slot.Replace(existing, "")

	err := controller.Connect(context.Background(), "ws://127.0.0.1:1/")
	if !errors.Is(err, chat.ErrConnect) {
		t.Errorf("Connect() error = %v, want ErrConnect", err)
	}
	if slot.Connected() {
		t.Error("slot still connected after failed handshake")
	}
	if !existing.Closed() {
		t.Error("previous sender was not closed")
	}
}

func TestController_ConnectInstallsAndRelays(t *testing.T) {
	conn := newTestConn()
	dialer := &mockDialer{dial: func(string) (chat.Sender, chat.Receiver, error) {
		return conn.sender, conn.receiver, nil
	}}
	controller, slot, queue := newController(dialer)

	if err := controller.Connect(context.Background(), "ws://example.test/"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if slot.Current() != conn.sender {
		t.Error("new sender not installed")
	}

	conn.receiver.text("inbound")
	select {
	case got := <-queue.Items():
		if got != "inbound" {
			t.Errorf("queued %q, want %q", got, "inbound")
		}
	case <-time.After(time.Second):
		t.Fatal("relay did not forward inbound frame")
	}

	conn.receiver.Close()
	controller.Wait()
}

func TestController_ReconnectKeepsOldRelay(t *testing.T) {
	conns := []testConn{newTestConn(), newTestConn()}
	next := 0
	dialer := &mockDialer{dial: func(string) (chat.Sender, chat.Receiver, error) {
		conn := conns[next]
		next++
		return conn.sender, conn.receiver, nil
	}}
	controller, slot, queue := newController(dialer)

	for range conns {
		if err := controller.Connect(context.Background(), "ws://example.test/"); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}
	}

	if !conns[0].sender.Closed() {
		t.Error("superseded sender was not closed")
	}
	if slot.Current() != conns[1].sender {
		t.Error("latest sender is not installed")
	}

	// The superseded relay still delivers until its stream ends.
	conns[0].receiver.text("from old")
	conns[1].receiver.text("from new")

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case text := <-queue.Items():
			got[text] = true
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for relayed frames, got %v", got)
		}
	}
	if !got["from old"] || !got["from new"] {
		t.Errorf("relayed = %v, want both connections", got)
	}

	for _, conn := range conns {
		conn.receiver.Close()
	}
	controller.Wait()
}
