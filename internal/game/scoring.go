package game

import (
	"sort"
	"time"

	"quizzone/internal/model"
)

// Scoring is the points configuration for a room. Every correct answer earns
// BasePoints; the single earliest correct answer of the round additionally
// earns FirstBonus. Defaults (100/50) live in config.
type Scoring struct {
	BasePoints int
	FirstBonus int
}

// roundOutcome is the scored result of one pending answer, joined back to the
// player name through the connections map.
type roundOutcome struct {
	connID     string
	name       string
	correct    bool
	rank       int // 1-based among correct answers, 0 when incorrect
	points     int
	answeredAt time.Time
}

// computeRoundResults joins each pending answer to its player via connections,
// marks correctness against the question, and ranks correct answers by
// submission time ascending. Answers whose connection is gone are dropped.
func computeRoundResults(q model.Question, pending map[string]pendingAnswer, connections map[string]string, sc Scoring) []roundOutcome {
	outcomes := make([]roundOutcome, 0, len(pending))
	for connID, ans := range pending {
		name, ok := connections[connID]
		if !ok {
			continue
		}
		outcomes = append(outcomes, roundOutcome{
			connID:     connID,
			name:       name,
			correct:    ans.option == q.CorrectOption,
			answeredAt: ans.submittedAt,
		})
	}

	// Correct answers first, earliest first. Incorrect answers are unranked and
	// keep whatever relative order they had.
	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].correct != outcomes[j].correct {
			return outcomes[i].correct
		}
		if !outcomes[i].correct {
			return false
		}
		return outcomes[i].answeredAt.Before(outcomes[j].answeredAt)
	})

	rank := 0
	for i := range outcomes {
		if !outcomes[i].correct {
			continue
		}
		rank++
		outcomes[i].rank = rank
		outcomes[i].points = sc.BasePoints
		if rank == 1 {
			outcomes[i].points += sc.FirstBonus
		}
	}
	return outcomes
}

// resultMessage picks the per-player notification for a scored round. The top
// three correct answers get distinct placements.
func resultMessage(correct bool, rank int) string {
	if !correct {
		return "Wrong answer, try again next round!"
	}
	switch rank {
	case 1:
		return "Correct — fastest answer of the round!"
	case 2:
		return "Correct — second fastest!"
	case 3:
		return "Correct — third fastest!"
	default:
		return "Correct!"
	}
}
