package notifications

import (
	"context"
	"fmt"
	"log/slog"

	"hrconsole/internal/platform/jobs"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Queue hands email fan-out to a background worker so request decisions
// never block on SMTP. The jobs service satisfies it.
type Queue interface {
	Enqueue(jobType string, run func(context.Context) (any, error))
}

type Service struct {
	store  *Store
	mailer Mailer
	from   string
	queue  Queue
}

func New(store *Store, mailer Mailer, from string, queue Queue) *Service {
	if from == "" {
		from = "no-reply@example.com"
	}
	return &Service{store: store, mailer: mailer, from: from, queue: queue}
}

// RequestDecided records an in-app notification for the employee whose
// request was decided, and emails them when a mailer is configured. Failures
// are logged only; a decision never fails because its notification did.
func (s *Service) RequestDecided(ctx context.Context, employeeID, kind, status, remark string) {
	userID, email, err := s.store.EmployeeRecipient(ctx, employeeID)
	if err != nil {
		slog.Warn("notification recipient lookup failed", "employeeId", employeeID, "error", err)
		return
	}
	if userID == "" {
		// No console account linked to this employee.
		return
	}

	ntype := TypeLeaveDecided
	title := fmt.Sprintf("Leave request %s", status)
	if kind == "permission" {
		ntype = TypePermissionDecided
		title = fmt.Sprintf("Permission request %s", status)
	}
	body := title
	if remark != "" {
		body = fmt.Sprintf("%s. Remark: %s", title, remark)
	}

	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		slog.Warn("notification create failed", "userId", userID, "error", err)
		return
	}
	if s.mailer == nil || email == "" {
		return
	}
	if s.queue == nil {
		if err := s.mailer.Send(ctx, s.from, email, title, body); err != nil {
			slog.Warn("notification email send failed", "userId", userID, "error", err)
		}
		return
	}
	s.queue.Enqueue(jobs.JobNotificationEmail, func(ctx context.Context) (any, error) {
		if err := s.mailer.Send(ctx, s.from, email, title, body); err != nil {
			return nil, err
		}
		return map[string]any{"userId": userID, "type": ntype}, nil
	})
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, userID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}
