package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tennis-league/models"
)

type memoryState struct {
	seq         map[string]int
	users       map[int]models.User
	members     map[int]models.Member
	challenges  map[int]models.Challenge
	chats       []models.ChatMessage
	seasons     map[int]models.Season
	enrollments []models.SeasonEnrollment
	courts      map[int]models.Court
	outbox      []models.OutboxMessage
}

type memoryDB struct {
	mu   sync.RWMutex // защищает state
	txMu sync.Mutex   // одна пишущая транзакция за раз
	now  func() time.Time
	memoryState
}

type memoryTxKey struct{}

// NewMemoryStore - непостоянное хранилище для разработки без DATABASE_URL и для тестов.
func NewMemoryStore() *Store {
	db := &memoryDB{
		now: time.Now,
		memoryState: memoryState{
			seq:        make(map[string]int),
			users:      make(map[int]models.User),
			members:    make(map[int]models.Member),
			challenges: make(map[int]models.Challenge),
			seasons:    make(map[int]models.Season),
			courts:     make(map[int]models.Court),
		},
	}
	return &Store{
		Users:      &memoryUserRepository{db: db},
		Members:    &memoryMemberRepository{db: db},
		Challenges: &memoryChallengeRepository{db: db},
		Chats:      &memoryChatRepository{db: db},
		Seasons:    &memorySeasonRepository{db: db},
		Courts:     &memoryCourtRepository{db: db},
		Outbox:     &memoryOutboxRepository{db: db},
		Tx:         &memoryTxManager{db: db},
	}
}

func (d *memoryDB) nextID(name string) int {
	d.seq[name]++
	return d.seq[name]
}

// write выполняет изменение состояния. Вне транзакции изменение сериализуется с транзакциями.
func (d *memoryDB) write(ctx context.Context, fn func() error) error {
	if ctx.Value(memoryTxKey{}) == nil {
		d.txMu.Lock()
		defer d.txMu.Unlock()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn()
}

func (d *memoryDB) snapshot() memoryState {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := memoryState{
		seq:         make(map[string]int, len(d.seq)),
		users:       make(map[int]models.User, len(d.users)),
		members:     make(map[int]models.Member, len(d.members)),
		challenges:  make(map[int]models.Challenge, len(d.challenges)),
		chats:       append([]models.ChatMessage(nil), d.chats...),
		seasons:     make(map[int]models.Season, len(d.seasons)),
		enrollments: append([]models.SeasonEnrollment(nil), d.enrollments...),
		courts:      make(map[int]models.Court, len(d.courts)),
		outbox:      append([]models.OutboxMessage(nil), d.outbox...),
	}
	for k, v := range d.seq {
		s.seq[k] = v
	}
	for k, v := range d.users {
		s.users[k] = v
	}
	for k, v := range d.members {
		s.members[k] = v
	}
	for k, v := range d.challenges {
		s.challenges[k] = v
	}
	for k, v := range d.seasons {
		s.seasons[k] = v
	}
	for k, v := range d.courts {
		s.courts[k] = v
	}
	return s
}

type memoryTxManager struct {
	db *memoryDB
}

func (m *memoryTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(memoryTxKey{}) != nil {
		return fn(ctx)
	}

	m.db.txMu.Lock()
	defer m.db.txMu.Unlock()

	saved := m.db.snapshot()
	restore := func() {
		m.db.mu.Lock()
		m.db.memoryState = saved
		m.db.mu.Unlock()
	}
	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
		if err != nil {
			restore()
		}
	}()

	return fn(context.WithValue(ctx, memoryTxKey{}, true))
}

// --- users ---

type memoryUserRepository struct{ db *memoryDB }

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.write(ctx, func() error {
		for _, u := range r.db.users {
			if strings.EqualFold(u.Email, user.Email) {
				return ErrUserEmailConflict
			}
		}
		user.ID = r.db.nextID("users")
		user.CreatedAt = r.db.now()
		r.db.users[user.ID] = *user
		return nil
	})
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// --- members ---

type memoryMemberRepository struct{ db *memoryDB }

func cloneMember(m models.Member) models.Member {
	m.Availability = append([]models.DayAvailability(nil), m.Availability...)
	if m.UserID != nil {
		id := *m.UserID
		m.UserID = &id
	}
	if m.AvatarURL != nil {
		u := *m.AvatarURL
		m.AvatarURL = &u
	}
	return m
}

func (r *memoryMemberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.write(ctx, func() error {
		if member.UserID != nil {
			if _, ok := r.db.users[*member.UserID]; !ok {
				return ErrMemberUserInvalid
			}
			for _, m := range r.db.members {
				if m.UserID != nil && *m.UserID == *member.UserID {
					return ErrMemberUserConflict
				}
			}
		}
		member.ID = r.db.nextID("members")
		member.JoinedAt = r.db.now()
		r.db.members[member.ID] = cloneMember(*member)
		return nil
	})
}

func (r *memoryMemberRepository) GetByID(_ context.Context, id int) (*models.Member, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	m, ok := r.db.members[id]
	if !ok {
		return nil, ErrMemberNotFound
	}
	m = cloneMember(m)
	return &m, nil
}

func (r *memoryMemberRepository) GetByUserID(_ context.Context, userID int) (*models.Member, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, m := range r.db.members {
		if m.UserID != nil && *m.UserID == userID {
			m = cloneMember(m)
			return &m, nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *memoryMemberRepository) List(_ context.Context) ([]models.Member, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := make([]models.Member, 0, len(r.db.members))
	for _, m := range r.db.members {
		res = append(res, cloneMember(m))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r *memoryMemberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.write(ctx, func() error {
		existing, ok := r.db.members[member.ID]
		if !ok {
			return ErrMemberNotFound
		}
		updated := cloneMember(*member)
		// статистика и рейтинг меняются только через AdjustRecord
		updated.Wins, updated.Losses, updated.EloRating = existing.Wins, existing.Losses, existing.EloRating
		updated.UserID, updated.JoinedAt = existing.UserID, existing.JoinedAt
		r.db.members[member.ID] = updated
		return nil
	})
}

func (r *memoryMemberRepository) AdjustRecord(ctx context.Context, memberID, winsDelta, lossesDelta int) error {
	return r.db.write(ctx, func() error {
		m, ok := r.db.members[memberID]
		if !ok {
			return ErrMemberNotFound
		}
		m.Wins = max(m.Wins+winsDelta, 0)
		m.Losses = max(m.Losses+lossesDelta, 0)
		r.db.members[memberID] = m
		return nil
	})
}

// --- challenges ---

type memoryChallengeRepository struct{ db *memoryDB }

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneChallenge(c models.Challenge) models.Challenge {
	if c.ProposedDate != nil {
		t := *c.ProposedDate
		c.ProposedDate = &t
	}
	if c.ProposedSlots != nil {
		slots := make([]models.Slot, len(c.ProposedSlots))
		for i, s := range c.ProposedSlots {
			if s.End != nil {
				end := *s.End
				s.End = &end
			}
			slots[i] = s
		}
		c.ProposedSlots = slots
	}
	if c.Sets != nil {
		c.Sets = append([]models.SetScore(nil), c.Sets...)
	}
	c.Location = cloneStringPtr(c.Location)
	c.Message = cloneStringPtr(c.Message)
	c.Division = cloneStringPtr(c.Division)
	c.ContestNote = cloneStringPtr(c.ContestNote)
	c.SlotsProposedBy = cloneIntPtr(c.SlotsProposedBy)
	c.SeasonID = cloneIntPtr(c.SeasonID)
	c.WinnerMemberID = cloneIntPtr(c.WinnerMemberID)
	c.ResultReportedBy = cloneIntPtr(c.ResultReportedBy)
	return c
}

func (r *memoryChallengeRepository) validateRefs(c *models.Challenge) error {
	if c.ChallengerMemberID == c.OpponentMemberID {
		return ErrChallengeSameMember
	}
	if _, ok := r.db.members[c.ChallengerMemberID]; !ok {
		return ErrChallengeMemberInvalid
	}
	if _, ok := r.db.members[c.OpponentMemberID]; !ok {
		return ErrChallengeMemberInvalid
	}
	if c.SeasonID != nil {
		if _, ok := r.db.seasons[*c.SeasonID]; !ok {
			return ErrChallengeSeasonInvalid
		}
	}
	if c.WinnerMemberID != nil && !c.IsParticipant(*c.WinnerMemberID) {
		return ErrChallengeWinnerMismatch
	}
	return nil
}

func (r *memoryChallengeRepository) Create(ctx context.Context, c *models.Challenge) error {
	return r.db.write(ctx, func() error {
		if err := r.validateRefs(c); err != nil {
			return err
		}
		c.ID = r.db.nextID("challenges")
		c.CreatedAt = r.db.now()
		c.UpdatedAt = c.CreatedAt
		r.db.challenges[c.ID] = cloneChallenge(*c)
		return nil
	})
}

func (r *memoryChallengeRepository) GetByID(_ context.Context, id int) (*models.Challenge, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	c = cloneChallenge(c)
	return &c, nil
}

// GetForUpdate: транзакции в памяти и так сериализованы через txMu.
func (r *memoryChallengeRepository) GetForUpdate(ctx context.Context, id int) (*models.Challenge, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryChallengeRepository) Update(ctx context.Context, c *models.Challenge) error {
	return r.db.write(ctx, func() error {
		existing, ok := r.db.challenges[c.ID]
		if !ok {
			return ErrChallengeNotFound
		}
		if err := r.validateRefs(c); err != nil {
			return err
		}
		c.CreatedAt = existing.CreatedAt
		c.UpdatedAt = r.db.now()
		r.db.challenges[c.ID] = cloneChallenge(*c)
		return nil
	})
}

func (r *memoryChallengeRepository) filter(keep func(c *models.Challenge) bool, less func(a, b *models.Challenge) bool) []*models.Challenge {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := make([]*models.Challenge, 0)
	for _, c := range r.db.challenges {
		c := cloneChallenge(c)
		if keep(&c) {
			res = append(res, &c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return less(res[i], res[j]) })
	return res
}

func (r *memoryChallengeRepository) ListByMember(_ context.Context, memberID int) ([]*models.Challenge, error) {
	return r.filter(
		func(c *models.Challenge) bool { return c.IsParticipant(memberID) },
		func(a, b *models.Challenge) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		},
	), nil
}

func (r *memoryChallengeRepository) ListForReview(_ context.Context) ([]*models.Challenge, error) {
	return r.filter(
		func(c *models.Challenge) bool {
			return c.Status == models.ChallengeStatusResultPending ||
				c.VerificationStatus == models.VerificationPending ||
				c.VerificationStatus == models.VerificationContested
		},
		func(a, b *models.Challenge) bool { return a.ID < b.ID },
	), nil
}

func (r *memoryChallengeRepository) ListScheduled(_ context.Context) ([]*models.Challenge, error) {
	return r.filter(
		func(c *models.Challenge) bool {
			return c.Status == models.ChallengeStatusAccepted && c.ProposedDate != nil &&
				(!c.Reminder24Sent || !c.Reminder1Sent)
		},
		func(a, b *models.Challenge) bool {
			if !a.ProposedDate.Equal(*b.ProposedDate) {
				return a.ProposedDate.Before(*b.ProposedDate)
			}
			return a.ID < b.ID
		},
	), nil
}

func (r *memoryChallengeRepository) ListVerifiedBySeason(_ context.Context, seasonID int) ([]*models.Challenge, error) {
	return r.filter(
		func(c *models.Challenge) bool {
			return c.SeasonID != nil && *c.SeasonID == seasonID &&
				c.VerificationStatus == models.VerificationVerified && c.WinnerMemberID != nil
		},
		func(a, b *models.Challenge) bool { return a.ID < b.ID },
	), nil
}

func (r *memoryChallengeRepository) NextSlotID(ctx context.Context) (int, error) {
	var id int
	err := r.db.write(ctx, func() error {
		id = r.db.nextID("slots")
		return nil
	})
	return id, err
}

// --- chat ---

type memoryChatRepository struct{ db *memoryDB }

func (r *memoryChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.challenges[msg.ChallengeID]; !ok {
			return ErrChatChallengeInvalid
		}
		msg.ID = r.db.nextID("chats")
		msg.CreatedAt = r.db.now()
		r.db.chats = append(r.db.chats, *msg)
		return nil
	})
}

func (r *memoryChatRepository) ListByChallenge(_ context.Context, challengeID int) ([]models.ChatMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := make([]models.ChatMessage, 0)
	for _, m := range r.db.chats {
		if m.ChallengeID == challengeID {
			res = append(res, m)
		}
	}
	return res, nil
}

// --- seasons ---

type memorySeasonRepository struct{ db *memoryDB }

func cloneSeason(s models.Season) models.Season {
	s.Divisions = append([]string(nil), s.Divisions...)
	return s
}

func (r *memorySeasonRepository) Create(ctx context.Context, s *models.Season) error {
	return r.db.write(ctx, func() error {
		s.ID = r.db.nextID("seasons")
		r.db.seasons[s.ID] = cloneSeason(*s)
		return nil
	})
}

func (r *memorySeasonRepository) GetByID(_ context.Context, id int) (*models.Season, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.seasons[id]
	if !ok {
		return nil, ErrSeasonNotFound
	}
	s = cloneSeason(s)
	return &s, nil
}

func (r *memorySeasonRepository) List(_ context.Context) ([]models.Season, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := make([]models.Season, 0, len(r.db.seasons))
	for _, s := range r.db.seasons {
		res = append(res, cloneSeason(s))
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].Start.Equal(res[j].Start) {
			return res[i].Start.After(res[j].Start)
		}
		return res[i].ID > res[j].ID
	})
	return res, nil
}

func (r *memorySeasonRepository) SetLocked(ctx context.Context, id int, locked bool) error {
	return r.db.write(ctx, func() error {
		s, ok := r.db.seasons[id]
		if !ok {
			return ErrSeasonNotFound
		}
		s.Locked = locked
		r.db.seasons[id] = s
		return nil
	})
}

func (r *memorySeasonRepository) Enroll(ctx context.Context, e *models.SeasonEnrollment) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.seasons[e.SeasonID]; !ok {
			return ErrEnrollmentRefInvalid
		}
		if _, ok := r.db.members[e.MemberID]; !ok {
			return ErrEnrollmentRefInvalid
		}
		for _, existing := range r.db.enrollments {
			if existing.SeasonID == e.SeasonID && existing.MemberID == e.MemberID {
				return ErrEnrollmentConflict
			}
		}
		e.JoinedAt = r.db.now()
		r.db.enrollments = append(r.db.enrollments, *e)
		return nil
	})
}

func (r *memorySeasonRepository) Unenroll(ctx context.Context, seasonID, memberID int) error {
	return r.db.write(ctx, func() error {
		for i, e := range r.db.enrollments {
			if e.SeasonID == seasonID && e.MemberID == memberID {
				r.db.enrollments = append(r.db.enrollments[:i:i], r.db.enrollments[i+1:]...)
				return nil
			}
		}
		return ErrEnrollmentNotFound
	})
}

func (r *memorySeasonRepository) ListEnrollments(_ context.Context, seasonID int) ([]models.SeasonEnrollment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := make([]models.SeasonEnrollment, 0)
	for _, e := range r.db.enrollments {
		if e.SeasonID == seasonID {
			res = append(res, e)
		}
	}
	return res, nil
}

// --- courts ---

type memoryCourtRepository struct{ db *memoryDB }

func (r *memoryCourtRepository) Create(ctx context.Context, c *models.Court) error {
	return r.db.write(ctx, func() error {
		c.ID = r.db.nextID("courts")
		r.db.courts[c.ID] = *c
		return nil
	})
}

func (r *memoryCourtRepository) List(_ context.Context) ([]models.Court, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	res := make([]models.Court, 0, len(r.db.courts))
	for _, c := range r.db.courts {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Name != res[j].Name {
			return res[i].Name < res[j].Name
		}
		return res[i].ID < res[j].ID
	})
	return res, nil
}

// --- outbox ---

type memoryOutboxRepository struct{ db *memoryDB }

func (r *memoryOutboxRepository) Create(ctx context.Context, m *models.OutboxMessage) error {
	return r.db.write(ctx, func() error {
		m.ID = r.db.nextID("outbox")
		m.CreatedAt = r.db.now()
		r.db.outbox = append(r.db.outbox, *m)
		return nil
	})
}

func (r *memoryOutboxRepository) List(_ context.Context, limit int) ([]models.OutboxMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	start := max(len(r.db.outbox)-limit, 0)
	return append([]models.OutboxMessage{}, r.db.outbox[start:]...), nil
}
