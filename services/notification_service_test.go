package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tennis-league/repositories"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []Email
	fail map[string]error
}

func (s *fakeSender) Send(_ context.Context, email Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail[email.To]; err != nil {
		return err
	}
	s.sent = append(s.sent, email)
	return nil
}

func TestNotificationDispatch(t *testing.T) {
	ctx := context.Background()
	notices := []Notice{
		{Kind: "challenge.created", To: "bob@example.com", Subject: "New challenge", HTML: "<p>hi</p>"},
		{Kind: "challenge.accepted", To: "alice@example.com", Subject: "Accepted", HTML: "<p>ok</p>", Calendar: []byte("BEGIN:VCALENDAR")},
		{Kind: "challenge.created", To: "", Subject: "Nobody"},
	}

	t.Run("without sender writes outbox", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		svc := NewNotificationService(nil, store.Outbox, discardLogger())

		svc.Dispatch(ctx, notices)

		msgs, err := svc.ListOutbox(ctx, 0)
		if err != nil {
			t.Fatalf("ListOutbox failed: %v", err)
		}
		if len(msgs) != 2 {
			t.Fatalf("expected 2 outbox records, got %d", len(msgs))
		}
		byTo := map[string]bool{}
		for _, m := range msgs {
			byTo[m.To] = m.HasCalendar
			if m.Error != nil {
				t.Errorf("unexpected error on record to %s: %s", m.To, *m.Error)
			}
			if !strings.HasPrefix(m.Key, "challenge.") || strings.Count(m.Key, "/") != 1 {
				t.Errorf("unexpected outbox key %q", m.Key)
			}
		}
		if !byTo["alice@example.com"] {
			t.Error("expected calendar flag on alice's record")
		}
		if byTo["bob@example.com"] {
			t.Error("unexpected calendar flag on bob's record")
		}
	})

	t.Run("sender failures are recorded", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		sender := &fakeSender{fail: map[string]error{"bob@example.com": errors.New("mailbox unavailable")}}
		svc := NewNotificationService(sender, store.Outbox, discardLogger())

		svc.Dispatch(ctx, notices)

		if len(sender.sent) != 1 || sender.sent[0].To != "alice@example.com" {
			t.Fatalf("expected one delivered email to alice, got %+v", sender.sent)
		}
		if !bytes.Equal(sender.sent[0].Calendar, notices[1].Calendar) {
			t.Error("calendar attachment was not passed to sender")
		}
		msgs, err := svc.ListOutbox(ctx, 10)
		if err != nil {
			t.Fatalf("ListOutbox failed: %v", err)
		}
		if len(msgs) != 1 {
			t.Fatalf("expected only the failed notice in outbox, got %d", len(msgs))
		}
		if msgs[0].To != "bob@example.com" || msgs[0].Error == nil || *msgs[0].Error != "mailbox unavailable" {
			t.Errorf("unexpected outbox record %+v", msgs[0])
		}
	})
}

func TestListOutboxLimit(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewNotificationService(nil, store.Outbox, discardLogger())

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		svc.Dispatch(ctx, []Notice{{Kind: "season.broadcast", To: to, Subject: "News"}})
	}

	msgs, err := svc.ListOutbox(ctx, 2)
	if err != nil {
		t.Fatalf("ListOutbox failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(msgs))
	}
	if msgs[0].To != "b@example.com" || msgs[1].To != "c@example.com" {
		t.Errorf("expected the latest records in order, got %s, %s", msgs[0].To, msgs[1].To)
	}
}

func TestBuildMIMEMessage(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	email := Email{
		To:       "bob@example.com",
		Subject:  "Матч завтра",
		HTML:     "<p>See you on court</p>",
		Calendar: []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
	}

	raw, err := buildMIMEMessage("league@club.test", email, now)
	if err != nil {
		t.Fatalf("buildMIMEMessage failed: %v", err)
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("message is not parseable: %v", err)
	}
	if got := msg.Header.Get("To"); got != email.To {
		t.Errorf("To = %q, want %q", got, email.To)
	}
	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	if err != nil || subject != email.Subject {
		t.Errorf("Subject = %q (%v), want %q", subject, err, email.Subject)
	}
	if id := msg.Header.Get("Message-ID"); !strings.HasSuffix(id, "@club.test>") {
		t.Errorf("unexpected Message-ID %q", id)
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/mixed" {
		t.Fatalf("unexpected content type %q (%v)", mediaType, err)
	}

	reader := multipart.NewReader(msg.Body, params["boundary"])
	var parts []string
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		encoded, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("read part body: %v", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
		if err != nil {
			t.Fatalf("part is not base64: %v", err)
		}
		parts = append(parts, part.Header.Get("Content-Type"))

		switch {
		case strings.HasPrefix(part.Header.Get("Content-Type"), "text/html"):
			if string(decoded) != email.HTML {
				t.Errorf("html part = %q", decoded)
			}
		case strings.HasPrefix(part.Header.Get("Content-Type"), "text/calendar"):
			if !bytes.Equal(decoded, email.Calendar) {
				t.Errorf("calendar part = %q", decoded)
			}
			if !strings.Contains(part.Header.Get("Content-Disposition"), "match.ics") {
				t.Errorf("unexpected disposition %q", part.Header.Get("Content-Disposition"))
			}
		}
	}
	if len(parts) != 2 {
		t.Errorf("expected html and calendar parts, got %v", parts)
	}

	noInvite, err := buildMIMEMessage("league@club.test", Email{To: "bob@example.com", Subject: "Hi", HTML: "<p>x</p>"}, now)
	if err != nil {
		t.Fatalf("buildMIMEMessage failed: %v", err)
	}
	if bytes.Contains(noInvite, []byte("text/calendar")) {
		t.Error("message without invite must not carry a calendar part")
	}
}

func TestWriteBase64LineLength(t *testing.T) {
	var buf bytes.Buffer
	if err := writeBase64(&buf, bytes.Repeat([]byte("x"), 500)); err != nil {
		t.Fatalf("writeBase64 failed: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n") {
		if len(line) > 76 {
			t.Errorf("line longer than 76 characters: %d", len(line))
		}
	}
}
