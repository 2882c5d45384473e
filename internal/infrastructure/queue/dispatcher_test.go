package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-manager-api/internal/core/ports"
)

type recordingMailer struct {
	sent chan ports.EmailMessage
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, msg ports.EmailMessage) error {
	m.sent <- msg
	if m.fail {
		return errors.New("smtp unavailable")
	}
	return nil
}

func receiveOrFail(t *testing.T, ch chan ports.EmailMessage) ports.EmailMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("no email delivered in time")
		return ports.EmailMessage{}
	}
}

func TestMailDispatcher_Delivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{sent: make(chan ports.EmailMessage, 4)}
	d := NewMailDispatcher(2, mailer, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.EmailMessage{To: "alice@example.com", Template: "welcome"})

	msg := receiveOrFail(t, mailer.sent)
	if msg.To != "alice@example.com" || msg.Template != "welcome" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestMailDispatcher_SameRecipientInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{sent: make(chan ports.EmailMessage, 8)}
	d := NewMailDispatcher(4, mailer, zerolog.Nop())
	d.Start(ctx)

	subjects := []string{"first", "second", "third"}
	for _, s := range subjects {
		d.Enqueue(ports.EmailMessage{To: "alice@example.com", Subject: s, Template: "welcome"})
	}

	for _, want := range subjects {
		msg := receiveOrFail(t, mailer.sent)
		if msg.Subject != want {
			t.Fatalf("expected %q next, got %q", want, msg.Subject)
		}
	}
}

func TestMailDispatcher_SurvivesSendErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{sent: make(chan ports.EmailMessage, 4), fail: true}
	d := NewMailDispatcher(1, mailer, zerolog.Nop())
	d.Start(ctx)

	d.Enqueue(ports.EmailMessage{To: "a@example.com", Template: "welcome"})
	d.Enqueue(ports.EmailMessage{To: "b@example.com", Template: "cancelation"})

	receiveOrFail(t, mailer.sent)
	msg := receiveOrFail(t, mailer.sent)
	if msg.Template != "cancelation" {
		t.Fatalf("worker should keep going after a failure, got %+v", msg)
	}
}

func TestMailDispatcher_ShardIsStable(t *testing.T) {
	d := NewMailDispatcher(4, &recordingMailer{sent: make(chan ports.EmailMessage, 1)}, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}
