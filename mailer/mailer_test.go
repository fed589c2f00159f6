package mailer

import (
	"errors"
	"sync"
	"testing"

	"gopkg.in/gomail.v2"
)

func TestSendDeliversQueuedMessage(t *testing.T) {
	var mu sync.Mutex
	var got []*gomail.Message

	m := newMailer(func(msg *gomail.Message) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
		return nil
	}, "no-reply@productr.app")
	m.Start()

	m.Send("a@b.com", "Productr OTP Code", "Your login code is 123456")
	m.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected 1 delivered message, got %d", len(got))
	}
	if to := got[0].GetHeader("To"); len(to) != 1 || to[0] != "a@b.com" {
		t.Fatalf("unexpected To header: %v", to)
	}
	if from := got[0].GetHeader("From"); len(from) != 1 || from[0] != "no-reply@productr.app" {
		t.Fatalf("unexpected From header: %v", from)
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	m := newMailer(func(msg *gomail.Message) error {
		return errors.New("relay unreachable")
	}, "no-reply@productr.app")
	m.Start()

	// Must not panic or block; the failure only goes to the dead-letter log.
	m.Send("a@b.com", "Productr OTP Code", "Your login code is 123456")
	m.Stop()
}

func TestSendDoesNotBlockWhenQueueFull(t *testing.T) {
	// Worker never started, so the queue cannot drain.
	m := newMailer(func(msg *gomail.Message) error { return nil }, "no-reply@productr.app")

	for i := 0; i < queueSize+5; i++ {
		m.Send("a@b.com", "subject", "body")
	}
	// Reaching this point means the overflow messages were dropped, not blocked on.
	if len(m.queue) != queueSize {
		t.Fatalf("expected full queue of %d, got %d", queueSize, len(m.queue))
	}
}
