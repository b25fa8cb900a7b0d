package async

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDrainReturnsPostedMessagesInOrder(t *testing.T) {
	b := NewBridge(context.Background())
	defer b.Close()

	b.Post(LspInitialized{Language: "go"})
	b.Post(FileChanged{Path: "/tmp/a.go"})

	msgs := b.Drain()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if _, ok := msgs[0].(LspInitialized); !ok {
		t.Fatalf("expected first message to be LspInitialized, got %T", msgs[0])
	}
	if _, ok := msgs[1].(FileChanged); !ok {
		t.Fatalf("expected second message to be FileChanged, got %T", msgs[1])
	}
}

func TestDrainEmptyReturnsNil(t *testing.T) {
	b := NewBridge(context.Background())
	defer b.Close()

	if msgs := b.Drain(); len(msgs) != 0 {
		t.Fatalf("expected no messages, got %d", len(msgs))
	}
}

func TestPostNeverBlocksWhenFull(t *testing.T) {
	b := NewBridge(context.Background())
	defer b.Close()

	for i := 0; i < bridgeCapacity; i++ {
		if !b.Post(FileChanged{Path: "x"}) {
			t.Fatalf("expected post %d to succeed", i)
		}
	}
	if b.Post(FileChanged{Path: "overflow"}) {
		t.Fatal("expected post to report dropped once the queue is full")
	}
}

func TestWorkerErrorCancelsContext(t *testing.T) {
	b := NewBridge(context.Background())
	defer b.Close()

	boom := errors.New("boom")
	b.Go(func(ctx context.Context) error {
		return boom
	})

	b.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err := b.Wait(); !errors.Is(err, boom) {
		t.Fatalf("expected Wait to surface the first worker error, got %v", err)
	}
}

func TestCloseCancelsWorkerContext(t *testing.T) {
	b := NewBridge(context.Background())

	done := make(chan struct{})
	b.Go(func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return ctx.Err()
	})

	b.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected worker context to be cancelled after Close")
	}
}
