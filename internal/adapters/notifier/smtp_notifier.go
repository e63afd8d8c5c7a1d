package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/faithledger/church_admin_app/internal/core/domain"
	portsrepo "github.com/faithledger/church_admin_app/internal/core/ports/repositories"
	portssvc "github.com/faithledger/church_admin_app/internal/core/ports/services"
	"github.com/faithledger/church_admin_app/internal/middleware"
	"github.com/faithledger/church_admin_app/pkg/config"
	"gopkg.in/gomail.v2"
)

// SMTPNotifier delivers request status-change events by email: always to the
// requester, and to every holder of the next level's role when the chain moved
// to another step.
type SMTPNotifier struct {
	dialer   *gomail.Dialer
	from     string
	userRepo portsrepo.UserRepositoryFacade
	roleRepo portsrepo.RoleRepositoryFacade
}

// NewSMTPNotifier creates a notifier that sends through the configured SMTP host.
func NewSMTPNotifier(cfg *config.Config, userRepo portsrepo.UserRepositoryFacade, roleRepo portsrepo.RoleRepositoryFacade) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:     cfg.SMTPFrom,
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

var _ portssvc.Notifier = (*SMTPNotifier)(nil)

// NotifyStatusChange emails the event's audience. Lookup failures for single
// recipients are logged and skipped so one bad address cannot block the rest.
func (n *SMTPNotifier) NotifyStatusChange(ctx context.Context, event domain.RequestStatusEvent) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	recipients := n.collectRecipients(ctx, event)
	if len(recipients) == 0 {
		logger.Warn("No recipients resolved for status notification", slog.String("request_id", event.RequestID))
		return nil
	}

	subject, body := composeStatusEmail(event)
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("Bcc", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send status notification: %w", err)
	}

	logger.Info("Status notification sent",
		slog.String("request_id", event.RequestID),
		slog.Int("recipients", len(recipients)))
	return nil
}

// collectRecipients resolves the requester's email plus, when the chain moved
// on, the emails of everyone holding the next level's role for the request's
// department.
func (n *SMTPNotifier) collectRecipients(ctx context.Context, event domain.RequestStatusEvent) []string {
	logger := middleware.GetLoggerFromCtx(ctx)

	seen := make(map[string]bool)
	var emails []string

	addUser := func(userID string) {
		if seen[userID] {
			return
		}
		seen[userID] = true
		user, err := n.userRepo.FindUserByID(ctx, userID)
		if err != nil {
			logger.Warn("Could not resolve notification recipient",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			return
		}
		if user.Email != "" {
			emails = append(emails, user.Email)
		}
	}

	addUser(event.RequesterID)

	if event.NextLevel != nil {
		role := domain.RoleForLevel(*event.NextLevel)
		var scope *string
		if role.IsDepartmentScoped() {
			scope = &event.DepartmentID
		}
		userIDs, err := n.roleRepo.ListUsersByRole(ctx, role, scope)
		if err != nil {
			logger.Warn("Could not resolve next-level approvers for notification",
				slog.String("role", string(role)),
				slog.String("error", err.Error()))
		}
		for _, id := range userIDs {
			addUser(id)
		}
	}

	return emails
}

func composeStatusEmail(event domain.RequestStatusEvent) (subject, body string) {
	subject = fmt.Sprintf("Money request %s: %s", shortID(event.RequestID), humanStatus(event.NewStatus))

	var b strings.Builder
	fmt.Fprintf(&b, "Request: %s\n", event.Purpose)
	fmt.Fprintf(&b, "Amount: %s\n", event.Amount.StringFixed(2))
	fmt.Fprintf(&b, "Status: %s\n", humanStatus(event.NewStatus))
	if event.NextLevel != nil {
		fmt.Fprintf(&b, "Awaiting: %s\n", humanLevel(*event.NextLevel))
	}
	if event.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", event.Reason)
	}
	return subject, b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func humanStatus(status domain.RequestStatus) string {
	return titleWords(strings.TrimPrefix(string(status), "PENDING_"))
}

func humanLevel(level domain.ApprovalLevel) string {
	return titleWords(string(level))
}

func titleWords(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
