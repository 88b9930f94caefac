package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"mmorpgboard/internal/middleware"
	"mmorpgboard/internal/models"
	"mmorpgboard/internal/observability"
)

// Notification kinds, used as the metrics label.
const (
	KindReplyCreated  = "reply_created"
	KindReplyAccepted = "reply_accepted"
	KindLoginCode     = "login_code"
)

// Dispatcher composes and sends the board's emails. Delivery failures are
// logged and counted, never returned.
type Dispatcher struct {
	mailer Mailer
	from   string
	logger *slog.Logger
}

// NewDispatcher returns a Dispatcher sending from the given address.
func NewDispatcher(mailer Mailer, from string) *Dispatcher {
	return &Dispatcher{mailer: mailer, from: from, logger: middleware.Logger}
}

// NotifyPostOwnerOfReply tells the post owner that someone replied. reply
// must carry its Post (with the owner) and its author.
func (d *Dispatcher) NotifyPostOwnerOfReply(ctx context.Context, reply *models.Reply) {
	if reply.Post == nil {
		d.logger.WarnContext(ctx, "reply notification skipped: post not loaded", slog.Uint64("reply_id", uint64(reply.ID)))
		return
	}
	owner := reply.Post.User
	body := fmt.Sprintf("Hello, %s!\n\nYour ad \"%s\" has a new reply:\n\n%s\n\nAuthor: %s",
		owner.Username, reply.Post.Title, reply.Text, reply.User.Username)

	d.deliver(ctx, KindReplyCreated, Message{
		To:      owner.Email,
		Subject: "New reply to your ad",
		Body:    body,
	})
}

// NotifyReplierOfAcceptance tells the reply author that the post owner accepted the reply.
func (d *Dispatcher) NotifyReplierOfAcceptance(ctx context.Context, reply *models.Reply) {
	if reply.Post == nil {
		d.logger.WarnContext(ctx, "acceptance notification skipped: post not loaded", slog.Uint64("reply_id", uint64(reply.ID)))
		return
	}
	body := fmt.Sprintf("Hello, %s!\n\nYour reply to the ad \"%s\" was accepted.",
		reply.User.Username, reply.Post.Title)

	d.deliver(ctx, KindReplyAccepted, Message{
		To:      reply.User.Email,
		Subject: "Your reply was accepted!",
		Body:    body,
	})
}

// SendLoginCode emails a one-time code.
func (d *Dispatcher) SendLoginCode(ctx context.Context, user *models.User, code *models.OneTimeCode) {
	body := fmt.Sprintf("Hello, %s!\n\nYour confirmation code: %s\n\nIt is valid for %d seconds.",
		user.Username, code.Code, code.TTLSeconds)

	d.deliver(ctx, KindLoginCode, Message{
		To:      user.Email,
		Subject: "Your confirmation code",
		Body:    body,
		Secret:  true,
	})
}

func (d *Dispatcher) deliver(ctx context.Context, kind string, msg Message) {
	msg.From = d.from
	if msg.To == "" {
		d.logger.WarnContext(ctx, "email skipped: no recipient", slog.String("kind", kind))
		observability.MailDeliveries.WithLabelValues(kind, observability.ResultFailed).Inc()
		return
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logger.WarnContext(ctx, "email delivery failed",
			slog.String("kind", kind),
			slog.String("to", msg.To),
			slog.String("error", err.Error()),
		)
		observability.MailDeliveries.WithLabelValues(kind, observability.ResultFailed).Inc()
		return
	}
	observability.MailDeliveries.WithLabelValues(kind, observability.ResultOK).Inc()
}
