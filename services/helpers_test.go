package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tennis-league/models"
	"github.com/Dosada05/tennis-league/repositories"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *recordingNotifier) Dispatch(_ context.Context, notices []Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notices...)
}

func (n *recordingNotifier) byKind(kind string) []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	var res []Notice
	for _, notice := range n.notices {
		if notice.Kind == kind {
			res = append(res, notice)
		}
	}
	return res
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		res[i] = e.Type
	}
	return res
}

type testEnv struct {
	store      *repositories.Store
	notifier   *recordingNotifier
	events     *recordingPublisher
	challenges *ChallengeService
	logger     *slog.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    repositories.NewMemoryStore(),
		notifier: &recordingNotifier{},
		events:   &recordingPublisher{},
		logger:   discardLogger(),
	}
	env.challenges = NewChallengeService(ChallengeServiceDeps{
		Tx:         env.store.Tx,
		Challenges: env.store.Challenges,
		Members:    env.store.Members,
		Seasons:    env.store.Seasons,
		Notifier:   env.notifier,
		Events:     env.events,
		Logger:     env.logger,
		Notices:    NoticeConfig{CalendarDomain: "league.test", PublicURL: "https://league.test"},
	})
	return env
}

func (e *testEnv) addMember(t *testing.T, name, email string) *models.Member {
	t.Helper()
	m := &models.Member{
		Name:         name,
		Email:        email,
		SkillRating:  DefaultSkillRating,
		EloRating:    models.DefaultEloRating,
		Availability: models.DefaultAvailability(),
		IsActive:     true,
	}
	if err := e.store.Members.Create(context.Background(), m); err != nil {
		t.Fatalf("create member %s: %v", name, err)
	}
	return m
}

func (e *testEnv) member(t *testing.T, id int) *models.Member {
	t.Helper()
	m, err := e.store.Members.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get member %d: %v", id, err)
	}
	return m
}

func (e *testEnv) challenge(t *testing.T, id int) *models.Challenge {
	t.Helper()
	c, err := e.store.Challenges.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get challenge %d: %v", id, err)
	}
	return c
}

// acceptedChallenge создает вызов alice -> bob и принимает его от имени bob.
func (e *testEnv) acceptedChallenge(t *testing.T, alice, bob *models.Member, at *time.Time) *models.Challenge {
	t.Helper()
	ctx := context.Background()
	c, err := e.challenges.CreateChallenge(ctx, memberActor(alice.ID), CreateChallengeInput{
		OpponentMemberID: bob.ID,
		ProposedDate:     at,
	})
	if err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	c, err = e.challenges.UpdateStatus(ctx, memberActor(bob.ID), c.ID, models.ChallengeStatusAccepted)
	if err != nil {
		t.Fatalf("accept challenge: %v", err)
	}
	return c
}

func memberActor(id int) models.Actor {
	return models.Actor{MemberID: id, Role: models.RoleMember}
}

func adminActor() models.Actor {
	return models.Actor{Role: models.RoleAdmin}
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func strPtr(s string) *string {
	return &s
}

func assertErrorIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected error %v, got %v", want, err)
	}
}

func assertRecord(t *testing.T, m *models.Member, wins, losses int) {
	t.Helper()
	if m.Wins != wins || m.Losses != losses {
		t.Errorf("member %d (%s): expected %d-%d, got %d-%d", m.ID, m.Name, wins, losses, m.Wins, m.Losses)
	}
}
