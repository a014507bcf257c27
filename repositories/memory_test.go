package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/tennis-league/models"
)

func newMember(t *testing.T, store *Store, name string) *models.Member {
	t.Helper()
	m := &models.Member{Name: name, EloRating: models.DefaultEloRating, IsActive: true}
	if err := store.Members.Create(context.Background(), m); err != nil {
		t.Fatalf("create member: %v", err)
	}
	return m
}

func TestMemoryTxRollback(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	alice := newMember(t, store, "Alice")

	boom := errors.New("boom")
	err := store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := store.Members.AdjustRecord(ctx, alice.ID, 1, 0); err != nil {
			return err
		}
		if err := store.Members.Create(ctx, &models.Member{Name: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	m, err := store.Members.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if m.Wins != 0 {
		t.Errorf("expected rollback of wins, got %d", m.Wins)
	}
	all, _ := store.Members.List(ctx)
	if len(all) != 1 {
		t.Errorf("expected rolled back member to disappear, got %d members", len(all))
	}

	// id последовательности тоже откатываются
	bob := newMember(t, store, "Bob")
	if bob.ID != alice.ID+1 {
		t.Errorf("expected id %d, got %d", alice.ID+1, bob.ID)
	}
}

func TestMemoryTxCommit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	alice := newMember(t, store, "Alice")
	bob := newMember(t, store, "Bob")

	err := store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		c := &models.Challenge{ChallengerMemberID: alice.ID, OpponentMemberID: bob.ID, Status: models.ChallengeStatusPending}
		if err := store.Challenges.Create(ctx, c); err != nil {
			return err
		}
		// вложенная транзакция выполняется в рамках внешней
		return store.Tx.WithinTx(ctx, func(ctx context.Context) error {
			return store.Members.AdjustRecord(ctx, alice.ID, 1, 0)
		})
	})
	if err != nil {
		t.Fatalf("WithinTx failed: %v", err)
	}
	list, err := store.Challenges.ListByMember(ctx, alice.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 challenge, got %d (%v)", len(list), err)
	}
}

func TestMemoryConstraints(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	alice := newMember(t, store, "Alice")

	t.Run("user email is unique ignoring case", func(t *testing.T) {
		if err := store.Users.Create(ctx, &models.User{Email: "a@example.com", Role: models.RoleMember}); err != nil {
			t.Fatalf("create user: %v", err)
		}
		err := store.Users.Create(ctx, &models.User{Email: "A@Example.com", Role: models.RoleMember})
		if !errors.Is(err, ErrUserEmailConflict) {
			t.Errorf("expected ErrUserEmailConflict, got %v", err)
		}
	})

	t.Run("one member per user", func(t *testing.T) {
		u := &models.User{Email: "linked@example.com", Role: models.RoleMember}
		if err := store.Users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		if err := store.Members.Create(ctx, &models.Member{Name: "First", UserID: &u.ID}); err != nil {
			t.Fatalf("create member: %v", err)
		}
		err := store.Members.Create(ctx, &models.Member{Name: "Second", UserID: &u.ID})
		if !errors.Is(err, ErrMemberUserConflict) {
			t.Errorf("expected ErrMemberUserConflict, got %v", err)
		}
		missing := 999
		err = store.Members.Create(ctx, &models.Member{Name: "Orphan", UserID: &missing})
		if !errors.Is(err, ErrMemberUserInvalid) {
			t.Errorf("expected ErrMemberUserInvalid, got %v", err)
		}
	})

	t.Run("enrollment is unique per season", func(t *testing.T) {
		s := &models.Season{Name: "S", Start: time.Now(), End: time.Now().Add(time.Hour), Divisions: []string{"Open"}}
		if err := store.Seasons.Create(ctx, s); err != nil {
			t.Fatalf("create season: %v", err)
		}
		e := &models.SeasonEnrollment{SeasonID: s.ID, MemberID: alice.ID, Division: "Open"}
		if err := store.Seasons.Enroll(ctx, e); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		err := store.Seasons.Enroll(ctx, &models.SeasonEnrollment{SeasonID: s.ID, MemberID: alice.ID, Division: "Open"})
		if !errors.Is(err, ErrEnrollmentConflict) {
			t.Errorf("expected ErrEnrollmentConflict, got %v", err)
		}
		err = store.Seasons.Enroll(ctx, &models.SeasonEnrollment{SeasonID: 999, MemberID: alice.ID})
		if !errors.Is(err, ErrEnrollmentRefInvalid) {
			t.Errorf("expected ErrEnrollmentRefInvalid, got %v", err)
		}
	})

	t.Run("challenge references", func(t *testing.T) {
		err := store.Challenges.Create(ctx, &models.Challenge{ChallengerMemberID: alice.ID, OpponentMemberID: alice.ID})
		if !errors.Is(err, ErrChallengeSameMember) {
			t.Errorf("expected ErrChallengeSameMember, got %v", err)
		}
		err = store.Challenges.Create(ctx, &models.Challenge{ChallengerMemberID: alice.ID, OpponentMemberID: 999})
		if !errors.Is(err, ErrChallengeMemberInvalid) {
			t.Errorf("expected ErrChallengeMemberInvalid, got %v", err)
		}
	})
}

func TestMemoryMemberUpdateKeepsRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	alice := newMember(t, store, "Alice")
	if err := store.Members.AdjustRecord(ctx, alice.ID, 2, 1); err != nil {
		t.Fatalf("adjust: %v", err)
	}

	stale := *alice
	stale.Name = "Alice B."
	stale.Wins = 100
	if err := store.Members.Update(ctx, &stale); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := store.Members.GetByID(ctx, alice.ID)
	if got.Name != "Alice B." || got.Wins != 2 || got.Losses != 1 {
		t.Errorf("unexpected member after update %+v", got)
	}

	if err := store.Members.AdjustRecord(ctx, alice.ID, -5, 0); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	got, _ = store.Members.GetByID(ctx, alice.ID)
	if got.Wins != 0 {
		t.Errorf("wins must not go below zero, got %d", got.Wins)
	}
}

func TestMemoryListScheduled(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	alice := newMember(t, store, "Alice")
	bob := newMember(t, store, "Bob")

	later := time.Date(2026, 5, 3, 18, 0, 0, 0, time.UTC)
	sooner := later.Add(-24 * time.Hour)
	fixtures := []*models.Challenge{
		{Status: models.ChallengeStatusAccepted, ProposedDate: &later},
		{Status: models.ChallengeStatusAccepted, ProposedDate: &sooner},
		{Status: models.ChallengeStatusAccepted},
		{Status: models.ChallengeStatusPending, ProposedDate: &later},
		{Status: models.ChallengeStatusAccepted, ProposedDate: &later, Reminder24Sent: true, Reminder1Sent: true},
	}
	for _, c := range fixtures {
		c.ChallengerMemberID, c.OpponentMemberID = alice.ID, bob.ID
		if err := store.Challenges.Create(ctx, c); err != nil {
			t.Fatalf("create challenge: %v", err)
		}
	}

	got, err := store.Challenges.ListScheduled(ctx)
	if err != nil {
		t.Fatalf("ListScheduled failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 scheduled challenges, got %d", len(got))
	}
	if got[0].ID != fixtures[1].ID || got[1].ID != fixtures[0].ID {
		t.Errorf("expected earliest match first, got %d, %d", got[0].ID, got[1].ID)
	}
}
