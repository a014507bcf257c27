package services

import (
	"context"
	"sort"

	"github.com/Dosada05/tennis-league/models"
)

// roundRobinRounds раскладывает игроков по турам методом вращения:
// каждый встречается с каждым ровно один раз, в туре у игрока не больше одного матча.
// При нечетном числе игроков один отдыхает в каждом туре.
func roundRobinRounds(memberIDs []int) [][][2]int {
	if len(memberIDs) < 2 {
		return nil
	}
	ids := append([]int(nil), memberIDs...)
	sort.Ints(ids)
	if len(ids)%2 == 1 {
		ids = append(ids, 0) // 0 - отдых
	}

	n := len(ids)
	rounds := make([][][2]int, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([][2]int, 0, n/2)
		for i := 0; i < n/2; i++ {
			a, b := ids[i], ids[n-1-i]
			if a == 0 || b == 0 {
				continue
			}
			if a > b {
				a, b = b, a
			}
			round = append(round, [2]int{a, b})
		}
		rounds = append(rounds, round)

		// первый игрок на месте, остальные сдвигаются по кругу
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}
	return rounds
}

// Pairings строит круговую сетку дивизиона и отмечает пары, уже сыгравшие подтвержденный матч в сезоне.
func (s *SeasonService) Pairings(ctx context.Context, seasonID int, division string) ([]models.Pairing, error) {
	season, err := s.GetByID(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if division == "" && len(season.Divisions) > 0 {
		division = season.Divisions[0]
	}
	if len(season.Divisions) > 0 && !season.HasDivision(division) {
		return nil, ErrDivisionInvalid
	}

	enrollments, err := s.seasons.ListEnrollments(ctx, seasonID)
	if err != nil {
		return nil, handleRepositoryError(err, "list enrollments")
	}
	var ids []int
	for _, e := range enrollments {
		if e.Division == division {
			ids = append(ids, e.MemberID)
		}
	}

	verified, err := s.challenges.ListVerifiedBySeason(ctx, seasonID)
	if err != nil {
		return nil, handleRepositoryError(err, "list verified challenges")
	}
	played := make(map[[2]int]int, len(verified))
	for _, c := range verified {
		key := [2]int{c.ChallengerMemberID, c.OpponentMemberID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if _, ok := played[key]; !ok {
			played[key] = c.ID
		}
	}

	out := make([]models.Pairing, 0)
	for i, round := range roundRobinRounds(ids) {
		for _, pair := range round {
			p := models.Pairing{Round: i + 1, MemberA: pair[0], MemberB: pair[1]}
			if id, ok := played[pair]; ok {
				p.Played = true
				p.ChallengeID = intPtr(id)
			}
			out = append(out, p)
		}
	}
	return out, nil
}
