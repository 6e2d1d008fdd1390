package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookstore/bookstore-api/internal/core/domain"
)

type recordingSender struct {
	mu   sync.Mutex
	got  []domain.Notification
	err  error
	done chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{done: make(chan struct{}, 16)}
}

func (s *recordingSender) Send(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	s.got = append(s.got, n)
	s.mu.Unlock()
	s.done <- struct{}{}
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d/%d", i+1, n)
		}
	}
}

func TestDispatcher_DeliversNotifications(t *testing.T) {
	sender := newRecordingSender()
	d := NewDispatcher(Config{Workers: 2, Delay: 10 * time.Millisecond}, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Notify(domain.Notification{Recipient: "a@example.com", BookID: 1, BookTitle: "Dune"})
	d.Notify(domain.Notification{Recipient: "b@example.com", BookID: 2, BookTitle: "Emma"})

	waitFor(t, sender.done, 2)
	if sender.count() != 2 {
		t.Fatalf("expected 2 deliveries, got %d", sender.count())
	}
}

func TestDispatcher_NotifyNeverBlocksWhenFull(t *testing.T) {
	sender := newRecordingSender()
	// Not started: nothing drains the single-slot channel.
	d := NewDispatcher(Config{Workers: 1, Buffer: 1, Delay: -1}, sender, zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Notify(domain.Notification{Recipient: "a@example.com", BookID: int64(i)})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	if got := len(d.workers[0]); got != 1 {
		t.Fatalf("expected exactly one queued notification, got %d", got)
	}
}

func TestDispatcher_CancelDuringDelayDropsNotification(t *testing.T) {
	sender := newRecordingSender()
	d := NewDispatcher(Config{Workers: 1, Delay: time.Hour}, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Notify(domain.Notification{Recipient: "a@example.com"})

	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	if sender.count() != 0 {
		t.Fatalf("expected no delivery after interruption, got %d", sender.count())
	}
}

func TestDispatcher_SenderFailureIsNonFatal(t *testing.T) {
	sender := newRecordingSender()
	sender.err = errors.New("redis down")
	d := NewDispatcher(Config{Workers: 1, Delay: -1}, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Notify(domain.Notification{Recipient: "a@example.com", BookID: 1})
	d.Notify(domain.Notification{Recipient: "a@example.com", BookID: 2})

	waitFor(t, sender.done, 2)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(Config{Workers: 8}, LogSender{}, zerolog.Nop())
	first := d.shardIndex("author@example.com")
	for i := 0; i < 5; i++ {
		if got := d.shardIndex("author@example.com"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
