package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	dispatchConcurrency = 4
	dispatchTimeout     = 30 * time.Second
	defaultOutboxLimit  = 100
	maxOutboxLimit      = 1000
)

//go:embed templates/*.html
var templateFS embed.FS

var noticeTemplate = template.Must(template.ParseFS(templateFS, "templates/notice.html"))

// Notice - уведомление одному получателю. Kind попадает в ключ записи outbox.
type Notice struct {
	Kind     string
	To       string
	Subject  string
	HTML     string
	Calendar []byte
}

type noticeView struct {
	Heading string
	Lines   []string
	Link    string
}

// renderNotice рендерит стандартное письмо. Ошибка шаблона не мешает отправке: уходит текст.
func renderNotice(view noticeView) string {
	var buf bytes.Buffer
	if err := noticeTemplate.Execute(&buf, view); err != nil {
		return template.HTMLEscapeString(view.Heading)
	}
	return buf.String()
}

type NotificationService struct {
	sender EmailSender // nil - письма только пишутся в outbox
	outbox repositories.OutboxRepository
	logger *slog.Logger
}

func NewNotificationService(sender EmailSender, outbox repositories.OutboxRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{sender: sender, outbox: outbox, logger: logger}
}

// Dispatch доставляет уведомления параллельно. Ошибки доставки логируются и пишутся в outbox,
// вызывающему ничего не возвращается.
func (s *NotificationService) Dispatch(ctx context.Context, notices []Notice) {
	if len(notices) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(dispatchConcurrency)
	for _, n := range notices {
		n := n
		g.Go(func() error {
			s.deliver(ctx, n)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *NotificationService) deliver(ctx context.Context, n Notice) {
	if n.To == "" {
		s.logger.WarnContext(ctx, "notice skipped: recipient has no email", slog.String("kind", n.Kind), slog.String("subject", n.Subject))
		return
	}
	if s.sender == nil {
		s.record(ctx, n, nil)
		return
	}

	err := s.sender.Send(ctx, Email{To: n.To, Subject: n.Subject, HTML: n.HTML, Calendar: n.Calendar})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send notice", slog.String("kind", n.Kind), slog.String("to", n.To), slog.Any("error", err))
		s.record(ctx, n, err)
		return
	}
	s.logger.InfoContext(ctx, "notice sent", slog.String("kind", n.Kind), slog.String("to", n.To))
}

func (s *NotificationService) record(ctx context.Context, n Notice, sendErr error) {
	msg := &models.OutboxMessage{
		Key:         fmt.Sprintf("%s/%s", n.Kind, uuid.NewString()),
		To:          n.To,
		Subject:     n.Subject,
		Body:        n.HTML,
		HasCalendar: len(n.Calendar) > 0,
	}
	if sendErr != nil {
		errText := sendErr.Error()
		msg.Error = &errText
	}
	if err := s.outbox.Create(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "failed to record notice in outbox", slog.String("kind", n.Kind), slog.String("to", n.To), slog.Any("error", err))
	}
}

// ListOutbox возвращает последние записи outbox в порядке добавления.
func (s *NotificationService) ListOutbox(ctx context.Context, limit int) ([]models.OutboxMessage, error) {
	if limit <= 0 {
		limit = defaultOutboxLimit
	}
	limit = min(limit, maxOutboxLimit)
	msgs, err := s.outbox.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbox: %w", err)
	}
	return msgs, nil
}
