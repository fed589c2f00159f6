// Package mailer delivers transactional mail through an SMTP relay without
// ever blocking the request that triggered it. Messages go onto a buffered
// queue drained by a background worker; a failed delivery is logged as a dead
// letter and never surfaced to the caller.
package mailer

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const queueSize = 64

// Sender is what handlers depend on. Send must return immediately.
type Sender interface {
	Send(to, subject, body string)
}

type Mailer struct {
	deliver func(m *gomail.Message) error
	from    string
	queue   chan *gomail.Message
	done    chan struct{}
}

func New(cfg SMTPSettings) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return newMailer(func(m *gomail.Message) error {
		return dialer.DialAndSend(m)
	}, cfg.From)
}

// SMTPSettings mirrors the smtp section of the configuration.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func newMailer(deliver func(m *gomail.Message) error, from string) *Mailer {
	return &Mailer{
		deliver: deliver,
		from:    from,
		queue:   make(chan *gomail.Message, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (m *Mailer) Start() {
	go m.run()
}

// Stop closes the queue and waits for in-flight deliveries to finish.
func (m *Mailer) Stop() {
	close(m.queue)
	<-m.done
}

func (m *Mailer) run() {
	defer close(m.done)
	for msg := range m.queue {
		if err := m.deliver(msg); err != nil {
			zap.S().Errorf("mail dead letter: to=%v subject=%v error=%s",
				msg.GetHeader("To"), msg.GetHeader("Subject"), err)
			continue
		}
		zap.S().Debugf("mail delivered to %v", msg.GetHeader("To"))
	}
}

// Send enqueues a plain-text message. When the queue is full the message is
// dropped and dead-lettered instead of holding the caller.
func (m *Mailer) Send(to, subject, body string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	select {
	case m.queue <- msg:
	default:
		zap.S().Errorf("mail dead letter: queue full, dropped message to %s", to)
	}
}
