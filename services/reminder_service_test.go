package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tennis-league/models"
)

const testTolerance = 5 * time.Minute

func newTestReminders(env *testEnv) *ReminderService {
	return NewReminderService(
		env.store.Tx,
		env.store.Challenges,
		env.store.Members,
		env.notifier,
		env.events,
		NoticeConfig{CalendarDomain: "league.test"},
		testTolerance,
		env.logger,
	)
}

func TestReminderScan(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")

	start := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	c := env.acceptedChallenge(t, alice, bob, &start)
	env.notifier.reset()
	reminders := newTestReminders(env)

	t.Run("too early", func(t *testing.T) {
		sent, err := reminders.Scan(ctx, start.Add(-30*time.Hour))
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if sent != 0 {
			t.Errorf("expected no reminders, got %d", sent)
		}
	})

	t.Run("24h reminder inside tolerance", func(t *testing.T) {
		sent, err := reminders.Scan(ctx, start.Add(-24*time.Hour+2*time.Minute))
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if sent != 1 {
			t.Fatalf("expected 1 reminder, got %d", sent)
		}
		notices := env.notifier.byKind("challenge.reminder_24h")
		if len(notices) != 2 {
			t.Fatalf("expected reminder to both players, got %d", len(notices))
		}
		for _, n := range notices {
			if len(n.Calendar) == 0 {
				t.Errorf("reminder to %s has no invite", n.To)
			}
		}
		stored := env.challenge(t, c.ID)
		if !stored.Reminder24Sent || stored.Reminder1Sent {
			t.Errorf("expected only 24h flag set, got 24h=%v 1h=%v", stored.Reminder24Sent, stored.Reminder1Sent)
		}
	})

	t.Run("second scan does not resend", func(t *testing.T) {
		sent, err := reminders.Scan(ctx, start.Add(-24*time.Hour+3*time.Minute))
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if sent != 0 {
			t.Errorf("expected no reminders, got %d", sent)
		}
		if n := env.notifier.byKind("challenge.reminder_24h"); len(n) != 2 {
			t.Errorf("expected still 2 notices, got %d", len(n))
		}
	})

	t.Run("1h reminder", func(t *testing.T) {
		sent, err := reminders.Scan(ctx, start.Add(-time.Hour-4*time.Minute))
		if err != nil {
			t.Fatalf("Scan failed: %v", err)
		}
		if sent != 1 {
			t.Fatalf("expected 1 reminder, got %d", sent)
		}
		if n := env.notifier.byKind("challenge.reminder_1h"); len(n) != 2 {
			t.Errorf("expected 1h reminder to both players, got %d", len(n))
		}
		stored := env.challenge(t, c.ID)
		if !stored.Reminder24Sent || !stored.Reminder1Sent {
			t.Errorf("expected both flags set, got 24h=%v 1h=%v", stored.Reminder24Sent, stored.Reminder1Sent)
		}
	})

	var reminderEvents int
	for _, typ := range env.events.types() {
		if typ == models.EventReminderSent {
			reminderEvents++
		}
	}
	if reminderEvents != 2 {
		t.Errorf("expected 2 reminder events, got %d", reminderEvents)
	}
}

func TestReminderSkipsUnscheduledChallenges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")
	carol := env.addMember(t, "Carol", "carol@example.com")

	start := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)

	// ожидает ответа: напоминаний нет
	if _, err := env.challenges.CreateChallenge(ctx, memberActor(alice.ID), CreateChallengeInput{OpponentMemberID: bob.ID, ProposedDate: &start}); err != nil {
		t.Fatalf("create: %v", err)
	}
	// принят без даты
	env.acceptedChallenge(t, alice, carol, nil)

	env.notifier.reset()
	sent, err := newTestReminders(env).Scan(ctx, start.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if sent != 0 {
		t.Errorf("expected no reminders, got %d", sent)
	}
	if len(env.notifier.byKind("challenge.reminder_24h")) != 0 {
		t.Error("unexpected reminder notices")
	}
}

func TestReminderScanInProgress(t *testing.T) {
	env := newTestEnv(t)
	reminders := newTestReminders(env)

	if !reminders.scanning.TryAcquire(1) {
		t.Fatal("expected to acquire scan lock")
	}
	_, err := reminders.Scan(context.Background(), time.Now())
	if !errors.Is(err, ErrScanInProgress) {
		t.Errorf("expected ErrScanInProgress, got %v", err)
	}
	reminders.scanning.Release(1)

	if _, err := reminders.Scan(context.Background(), time.Now()); err != nil {
		t.Errorf("expected scan to run after release, got %v", err)
	}
}

func TestReminderDue(t *testing.T) {
	reminders := &ReminderService{tolerance: testTolerance}
	start := time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)
	accepted := &models.Challenge{Status: models.ChallengeStatusAccepted, ProposedDate: &start}
	kind24 := reminderKinds[0]

	tests := []struct {
		name string
		c    *models.Challenge
		now  time.Time
		want bool
	}{
		{name: "exactly at target", c: accepted, now: start.Add(-24 * time.Hour), want: true},
		{name: "before target within tolerance", c: accepted, now: start.Add(-24*time.Hour - testTolerance), want: true},
		{name: "after target within tolerance", c: accepted, now: start.Add(-24*time.Hour + testTolerance), want: true},
		{name: "outside tolerance", c: accepted, now: start.Add(-24*time.Hour + testTolerance + time.Second), want: false},
		{name: "no date", c: &models.Challenge{Status: models.ChallengeStatusAccepted}, now: start, want: false},
		{name: "not accepted", c: &models.Challenge{Status: models.ChallengeStatusPending, ProposedDate: &start}, now: start.Add(-24 * time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reminders.due(tt.c, kind24, tt.now); got != tt.want {
				t.Errorf("due() = %v, want %v", got, tt.want)
			}
		})
	}
}

// blockingNotifier держит Dispatch до закрытия release.
type blockingNotifier struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (n *blockingNotifier) Dispatch(context.Context, []Notice) {
	n.once.Do(func() { close(n.entered) })
	<-n.release
}

func TestReminderRunWaitsForScan(t *testing.T) {
	env := newTestEnv(t)
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")
	start := time.Now().Add(24 * time.Hour)
	env.acceptedChallenge(t, alice, bob, &start)

	notifier := &blockingNotifier{entered: make(chan struct{}), release: make(chan struct{})}
	reminders := NewReminderService(env.store.Tx, env.store.Challenges, env.store.Members,
		notifier, env.events, NoticeConfig{CalendarDomain: "league.test"}, testTolerance, env.logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		reminders.Run(ctx, 10*time.Millisecond)
	}()

	select {
	case <-notifier.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder was not dispatched")
	}

	cancel()
	select {
	case <-done:
		t.Fatal("Run returned while a scan was still dispatching")
	case <-time.After(50 * time.Millisecond):
	}

	close(notifier.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after the scan finished")
	}
}
