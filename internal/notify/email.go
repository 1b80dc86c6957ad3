// Package notify delivers coaching nudges outside the app: the celebration
// message after a milestone and the evening check-in reminder. Delivery is
// fire-and-forget; failures are logged, never propagated to the engines.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
	"github.com/stridecoach/stride/internal/model"
)

type EmailNotifier struct {
	client    *resend.Client
	fromEmail string
	userEmail string
	coachName string
	isDev     bool
}

func NewEmailNotifier(apiKey, fromEmail, userEmail, coachName string, isDev bool) *EmailNotifier {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailNotifier{
		client:    client,
		fromEmail: fromEmail,
		userEmail: userEmail,
		coachName: coachName,
		isDev:     isDev,
	}
}

// CelebrateMilestone queues the celebratory message in the background so the
// engine call that completed the milestone never blocks on delivery.
func (n *EmailNotifier) CelebrateMilestone(goal *model.Goal, milestone *model.Milestone) {
	subject := fmt.Sprintf("You did it: %s", milestone.Title)
	body := fmt.Sprintf("%s here. You just hit %q on your way to %q. Let's celebrate on your next call.",
		n.coachName, milestone.Title, goal.GoalText)

	go n.send("celebration", subject, body)
}

// CheckInReminder nudges the user when no check-in was recorded today.
func (n *EmailNotifier) CheckInReminder(goal *model.Goal) {
	subject := "How did today go?"
	body := fmt.Sprintf("%s wants to check in on %q.", n.coachName, goal.GoalText)

	go n.send("check_in", subject, body)
}

func (n *EmailNotifier) send(kind, subject, body string) {
	if n.isDev || n.client == nil || n.userEmail == "" {
		slog.Info("notification sent (log mode)", "type", kind, "subject", subject)
		return
	}

	params := &resend.SendEmailRequest{
		From:    n.fromEmail,
		To:      []string{n.userEmail},
		Subject: subject,
		Text:    body,
	}

	_, err := n.client.Emails.SendWithContext(context.Background(), params)
	if err != nil {
		slog.Error("failed to send notification", "error", err, "type", kind)
		return
	}
	slog.Info("notification sent", "type", kind)
}
