package services

import (
	"context"
	"testing"

	"github.com/Dosada05/tennis-league/models"
)

func TestReportAndVerifyResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")
	c := env.acceptedChallenge(t, alice, bob, nil)

	sets := []models.SetScore{{A: 6, B: 4}, {A: 6, B: 3}}
	c, err := env.challenges.ReportResult(ctx, memberActor(alice.ID), c.ID, alice.ID, sets)
	if err != nil {
		t.Fatalf("ReportResult failed: %v", err)
	}
	if c.Status != models.ChallengeStatusResultPending || c.VerificationStatus != models.VerificationPending {
		t.Errorf("expected ResultPending/Pending, got %s/%s", c.Status, c.VerificationStatus)
	}
	if c.ResultReportedBy == nil || *c.ResultReportedBy != alice.ID {
		t.Errorf("expected result reported by %d, got %v", alice.ID, c.ResultReportedBy)
	}
	if n := env.notifier.byKind("challenge.result_reported"); len(n) != 1 || n[0].To != bob.Email {
		t.Errorf("expected verification request to opponent, got %+v", n)
	}

	_, err = env.challenges.VerifyResult(ctx, memberActor(alice.ID), c.ID, true, nil)
	assertErrorIs(t, err, ErrSelfVerification)

	c, err = env.challenges.VerifyResult(ctx, memberActor(bob.ID), c.ID, true, nil)
	if err != nil {
		t.Fatalf("VerifyResult failed: %v", err)
	}
	if c.Status != models.ChallengeStatusCompleted || c.VerificationStatus != models.VerificationVerified {
		t.Errorf("expected Completed/Verified, got %s/%s", c.Status, c.VerificationStatus)
	}
	if !c.StatsApplied {
		t.Error("expected stats to be marked applied")
	}
	assertRecord(t, env.member(t, alice.ID), 1, 0)
	assertRecord(t, env.member(t, bob.ID), 0, 1)

	if n := env.notifier.byKind("challenge.result_verified"); len(n) != 2 {
		t.Errorf("expected verified notices to both players, got %d", len(n))
	}

	// повторное подтверждение не начисляет статистику второй раз
	_, err = env.challenges.VerifyResult(ctx, memberActor(bob.ID), c.ID, true, nil)
	assertErrorIs(t, err, ErrChallengeInvalidTransition)
	assertRecord(t, env.member(t, alice.ID), 1, 0)
	assertRecord(t, env.member(t, bob.ID), 0, 1)
}

func TestReportResultValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")
	carol := env.addMember(t, "Carol", "carol@example.com")
	c := env.acceptedChallenge(t, alice, bob, nil)

	pending, err := env.challenges.CreateChallenge(ctx, memberActor(alice.ID), CreateChallengeInput{OpponentMemberID: carol.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	valid := []models.SetScore{{A: 6, B: 4}}
	tests := []struct {
		name    string
		actor   models.Actor
		id      int
		winner  int
		sets    []models.SetScore
		wantErr error
	}{
		{name: "no sets", actor: memberActor(alice.ID), id: c.ID, winner: alice.ID, sets: []models.SetScore{}, wantErr: ErrInvalidSetCount},
		{name: "too many sets", actor: memberActor(alice.ID), id: c.ID, winner: alice.ID, sets: []models.SetScore{{A: 6, B: 4}, {A: 4, B: 6}, {A: 6, B: 4}, {A: 6, B: 4}}, wantErr: ErrInvalidSetCount},
		{name: "set score out of range", actor: memberActor(alice.ID), id: c.ID, winner: alice.ID, sets: []models.SetScore{{A: 8, B: 6}}, wantErr: ErrInvalidSetScore},
		{name: "negative games", actor: memberActor(alice.ID), id: c.ID, winner: alice.ID, sets: []models.SetScore{{A: -1, B: 6}}, wantErr: ErrInvalidSetScore},
		{name: "missing winner", actor: memberActor(alice.ID), id: c.ID, winner: 0, sets: valid, wantErr: ErrWinnerRequired},
		{name: "winner not a participant", actor: memberActor(alice.ID), id: c.ID, winner: carol.ID, sets: valid, wantErr: ErrWinnerNotParticipant},
		{name: "outsider reports", actor: memberActor(carol.ID), id: c.ID, winner: alice.ID, sets: valid, wantErr: ErrNotParticipant},
		{name: "challenge not accepted", actor: memberActor(alice.ID), id: pending.ID, winner: alice.ID, sets: valid, wantErr: ErrChallengeInvalidTransition},
		{name: "unknown challenge", actor: memberActor(alice.ID), id: 999, winner: alice.ID, sets: valid, wantErr: ErrChallengeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.challenges.ReportResult(ctx, tt.actor, tt.id, tt.winner, tt.sets)
			assertErrorIs(t, err, tt.wantErr)
		})
	}

	stored := env.challenge(t, c.ID)
	if stored.Status != models.ChallengeStatusAccepted || stored.WinnerMemberID != nil || len(stored.Sets) != 0 {
		t.Errorf("rejected reports must not change the challenge, got %+v", stored)
	}
}

func TestContestAndAdminOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")
	c := env.acceptedChallenge(t, alice, bob, nil)

	if _, err := env.challenges.ReportResult(ctx, memberActor(alice.ID), c.ID, alice.ID, []models.SetScore{{A: 7, B: 5}}); err != nil {
		t.Fatalf("report: %v", err)
	}
	contested, err := env.challenges.VerifyResult(ctx, memberActor(bob.ID), c.ID, false, strPtr("  I won the tiebreak "))
	if err != nil {
		t.Fatalf("contest: %v", err)
	}
	if contested.Status != models.ChallengeStatusResultPending || contested.VerificationStatus != models.VerificationContested {
		t.Errorf("expected ResultPending/Contested, got %s/%s", contested.Status, contested.VerificationStatus)
	}
	if derefString(contested.ContestNote) != "I won the tiebreak" {
		t.Errorf("unexpected contest note %q", derefString(contested.ContestNote))
	}
	if n := env.notifier.byKind("challenge.result_contested"); len(n) != 1 || n[0].To != alice.Email {
		t.Errorf("expected contest notice to reporter, got %+v", n)
	}
	assertRecord(t, env.member(t, alice.ID), 0, 0)

	queue, err := env.challenges.ListAdmin(ctx, adminActor())
	if err != nil {
		t.Fatalf("ListAdmin: %v", err)
	}
	if len(queue.Contested) != 1 || queue.Contested[0].ID != c.ID {
		t.Errorf("expected challenge in contested queue, got %+v", queue.Contested)
	}
	if len(queue.Pending) != 1 {
		t.Errorf("contested result is still pending, got %+v", queue.Pending)
	}

	_, err = env.challenges.AdminOverride(ctx, memberActor(alice.ID), c.ID, alice.ID)
	assertErrorIs(t, err, ErrAdminOnly)

	got, err := env.challenges.AdminOverride(ctx, adminActor(), c.ID, bob.ID)
	if err != nil {
		t.Fatalf("AdminOverride failed: %v", err)
	}
	if got.Status != models.ChallengeStatusCompleted || got.VerificationStatus != models.VerificationVerified {
		t.Errorf("expected Completed/Verified, got %s/%s", got.Status, got.VerificationStatus)
	}
	assertRecord(t, env.member(t, alice.ID), 0, 1)
	assertRecord(t, env.member(t, bob.ID), 1, 0)

	// повтор с тем же победителем ничего не меняет
	if _, err := env.challenges.AdminOverride(ctx, adminActor(), c.ID, bob.ID); err != nil {
		t.Fatalf("repeat override: %v", err)
	}
	assertRecord(t, env.member(t, alice.ID), 0, 1)
	assertRecord(t, env.member(t, bob.ID), 1, 0)

	// смена победителя снимает прежнее начисление
	got, err = env.challenges.AdminOverride(ctx, adminActor(), c.ID, alice.ID)
	if err != nil {
		t.Fatalf("flip override: %v", err)
	}
	if got.WinnerMemberID == nil || *got.WinnerMemberID != alice.ID {
		t.Errorf("expected winner %d, got %v", alice.ID, got.WinnerMemberID)
	}
	assertRecord(t, env.member(t, alice.ID), 1, 0)
	assertRecord(t, env.member(t, bob.ID), 0, 1)

	queue, err = env.challenges.ListAdmin(ctx, adminActor())
	if err != nil {
		t.Fatalf("ListAdmin: %v", err)
	}
	if len(queue.Pending)+len(queue.Contested) != 0 {
		t.Errorf("resolved challenge must leave the admin queue, got %+v", queue)
	}
}

func TestAdminOverrideValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")
	carol := env.addMember(t, "Carol", "carol@example.com")
	c := env.acceptedChallenge(t, alice, bob, nil)
	if _, err := env.challenges.ReportResult(ctx, memberActor(bob.ID), c.ID, bob.ID, []models.SetScore{{A: 6, B: 1}}); err != nil {
		t.Fatalf("report: %v", err)
	}

	_, err := env.challenges.AdminOverride(ctx, adminActor(), c.ID, 0)
	assertErrorIs(t, err, ErrWinnerRequired)

	_, err = env.challenges.AdminOverride(ctx, adminActor(), c.ID, carol.ID)
	assertErrorIs(t, err, ErrWinnerNotParticipant)

	_, err = env.challenges.AdminOverride(ctx, adminActor(), 999, alice.ID)
	assertErrorIs(t, err, ErrChallengeNotFound)

	// override без подтверждения соперником завершает матч
	got, err := env.challenges.AdminOverride(ctx, adminActor(), c.ID, alice.ID)
	if err != nil {
		t.Fatalf("AdminOverride failed: %v", err)
	}
	if got.Status != models.ChallengeStatusCompleted || got.VerificationStatus != models.VerificationVerified {
		t.Errorf("expected Completed/Verified, got %s/%s", got.Status, got.VerificationStatus)
	}
	assertRecord(t, env.member(t, alice.ID), 1, 0)
	assertRecord(t, env.member(t, bob.ID), 0, 1)
}

func TestAdminOverrideRequiresReportedResult(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.addMember(t, "Alice", "alice@example.com")
	bob := env.addMember(t, "Bob", "bob@example.com")

	pending := func(t *testing.T) *models.Challenge {
		t.Helper()
		c, err := env.challenges.CreateChallenge(ctx, memberActor(alice.ID), CreateChallengeInput{OpponentMemberID: bob.ID})
		if err != nil {
			t.Fatalf("create challenge: %v", err)
		}
		return c
	}
	moved := func(actor *models.Member, to models.ChallengeStatus) func(t *testing.T) *models.Challenge {
		return func(t *testing.T) *models.Challenge {
			t.Helper()
			c, err := env.challenges.UpdateStatus(ctx, memberActor(actor.ID), pending(t).ID, to)
			if err != nil {
				t.Fatalf("move to %s: %v", to, err)
			}
			return c
		}
	}

	tests := []struct {
		name    string
		prepare func(t *testing.T) *models.Challenge
		status  models.ChallengeStatus
	}{
		{name: "pending", prepare: pending, status: models.ChallengeStatusPending},
		{name: "accepted", prepare: func(t *testing.T) *models.Challenge { return env.acceptedChallenge(t, alice, bob, nil) }, status: models.ChallengeStatusAccepted},
		{name: "declined", prepare: moved(bob, models.ChallengeStatusDeclined), status: models.ChallengeStatusDeclined},
		{name: "cancelled", prepare: moved(alice, models.ChallengeStatusCancelled), status: models.ChallengeStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.prepare(t)
			_, err := env.challenges.AdminOverride(ctx, adminActor(), c.ID, alice.ID)
			assertErrorIs(t, err, ErrChallengeInvalidTransition)

			got := env.challenge(t, c.ID)
			if got.Status != tt.status || got.StatsApplied || got.WinnerMemberID != nil {
				t.Errorf("challenge must stay untouched, got %s stats=%v", got.Status, got.StatsApplied)
			}
		})
	}

	assertRecord(t, env.member(t, alice.ID), 0, 0)
	assertRecord(t, env.member(t, bob.ID), 0, 0)
}

func TestStatsBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	players := []*models.Member{
		env.addMember(t, "Alice", "alice@example.com"),
		env.addMember(t, "Bob", "bob@example.com"),
		env.addMember(t, "Carol", "carol@example.com"),
	}

	for i := range players {
		a, b := players[i], players[(i+1)%len(players)]
		c := env.acceptedChallenge(t, a, b, nil)
		if _, err := env.challenges.ReportResult(ctx, memberActor(b.ID), c.ID, a.ID, []models.SetScore{{A: 6, B: 2}}); err != nil {
			t.Fatalf("report: %v", err)
		}
		if _, err := env.challenges.VerifyResult(ctx, memberActor(a.ID), c.ID, true, nil); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}

	wins, losses := 0, 0
	for _, p := range players {
		m := env.member(t, p.ID)
		wins += m.Wins
		losses += m.Losses
		assertRecord(t, m, 1, 1)
	}
	if wins != losses || wins != len(players) {
		t.Errorf("expected %d wins and losses in total, got %d/%d", len(players), wins, losses)
	}
}
