package notify

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"jobtrack_backend/internal/feature/followup/domain/entity"
)

// Sender sends prepared messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailConfig は SMTP 接続設定です。
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MailNotifier emails the owner of each reminder.
type MailNotifier struct {
	sender Sender
	from   string
}

// NewMailNotifier は gomail.Dialer を使う MailNotifier を生成します。
func NewMailNotifier(cfg MailConfig) *MailNotifier {
	return NewMailNotifierWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func NewMailNotifierWithSender(sender Sender, from string) *MailNotifier {
	return &MailNotifier{sender: sender, from: from}
}

// Notify builds and sends a plain-text reminder to r.UserEmail.
func (n *MailNotifier) Notify(ctx context.Context, r entity.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.UserEmail == "" {
		return fmt.Errorf("reminder %d has no recipient", r.ApplicationID)
	}

	if err := n.sender.DialAndSend(n.message(r)); err != nil {
		return fmt.Errorf("send reminder %d: %w", r.ApplicationID, err)
	}
	return nil
}

func (n *MailNotifier) message(r entity.Reminder) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetAddressHeader("To", r.UserEmail, r.UserName)
	m.SetHeader("Subject", fmt.Sprintf("Follow up: %s at %s", r.Role, r.CompanyName))

	name := r.UserName
	if name == "" {
		name = "there"
	}
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nThis is a reminder to follow up on your application for %s at %s.\nFollow-up date: %s\n",
		name, r.Role, r.CompanyName, r.FollowUpDate.UTC().Format(time.RFC1123),
	))
	return m
}
