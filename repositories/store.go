package repositories

import "database/sql"

// Store собирает все репозитории одного хранилища.
type Store struct {
	Users      UserRepository
	Members    MemberRepository
	Challenges ChallengeRepository
	Chats      ChatRepository
	Seasons    SeasonRepository
	Courts     CourtRepository
	Outbox     OutboxRepository
	Tx         TxManager
}

func NewPostgresStore(db *sql.DB) *Store {
	return &Store{
		Users:      NewPostgresUserRepository(db),
		Members:    NewPostgresMemberRepository(db),
		Challenges: NewPostgresChallengeRepository(db),
		Chats:      NewPostgresChatRepository(db),
		Seasons:    NewPostgresSeasonRepository(db),
		Courts:     NewPostgresCourtRepository(db),
		Outbox:     NewPostgresOutboxRepository(db),
		Tx:         NewPostgresTxManager(db),
	}
}
