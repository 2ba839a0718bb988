package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashlists/internal/platform/mailer"
)

// MailTask sends one email through a mailer.Sender.
type MailTask struct {
	id     uuid.UUID
	sender mailer.Sender
	msg    mailer.Message
}

var _ Task = (*MailTask)(nil)

// NewMailTask creates a task delivering msg.
func NewMailTask(sender mailer.Sender, msg mailer.Message) *MailTask {
	return &MailTask{id: uuid.New(), sender: sender, msg: msg}
}

// ID implements Task.
func (t *MailTask) ID() uuid.UUID { return t.id }

// Type implements Task.
func (t *MailTask) Type() string { return TaskTypeSendEmail }

// Message returns the email this task delivers.
func (t *MailTask) Message() mailer.Message { return t.msg }

// Execute implements Task.
func (t *MailTask) Execute(ctx context.Context) error {
	return t.sender.Send(ctx, t.msg)
}
