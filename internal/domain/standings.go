package domain

import "sort"

// ComputeStandings recomputes the standings table from scratch as a pure
// function of the match set. Only matches with terminal Completed status
// and a recorded winner contribute to counters; Failed matches contribute
// nothing. Graded overall scores, when attached to a match, accumulate
// into each participant's average score.
//
// The ranking order is a strict total order: wins descending, then
// average score descending, then win percentage descending, with stable
// input order breaking any remaining ties. Ranks are assigned 1..n in
// that order. Recomputing from the same match set always yields the same
// assignment.
func ComputeStandings(matches []*Match, participants []Participant) []Standing {
	standings := make([]Standing, len(participants))
	index := make(map[string]int, len(participants))
	for i, p := range participants {
		standings[i] = Standing{ParticipantID: p.ID}
		index[p.ID] = i
	}

	scores := make(map[string][]float64, len(participants))

	for _, m := range matches {
		if m.Status != MatchCompleted || m.WinnerID == "" {
			continue
		}
		i1, ok1 := index[m.Participant1ID]
		i2, ok2 := index[m.Participant2ID]
		if !ok1 || !ok2 {
			continue
		}

		standings[i1].TotalMatches++
		standings[i2].TotalMatches++

		switch m.WinnerID {
		case m.Participant1ID:
			standings[i1].Wins++
			standings[i2].Losses++
		case m.Participant2ID:
			standings[i2].Wins++
			standings[i1].Losses++
		}

		if m.Grade1 != nil {
			scores[m.Participant1ID] = append(scores[m.Participant1ID], m.Grade1.OverallScore)
		}
		if m.Grade2 != nil {
			scores[m.Participant2ID] = append(scores[m.Participant2ID], m.Grade2.OverallScore)
		}
	}

	for i := range standings {
		s := &standings[i]
		if vals := scores[s.ParticipantID]; len(vals) > 0 {
			var sum float64
			for _, v := range vals {
				sum += v
			}
			s.AverageScore = sum / float64(len(vals))
		}
		if s.TotalMatches > 0 {
			s.WinPercentage = float64(s.Wins) / float64(s.TotalMatches) * 100
		}
	}

	sort.SliceStable(standings, func(a, b int) bool {
		sa, sb := standings[a], standings[b]
		if sa.Wins != sb.Wins {
			return sa.Wins > sb.Wins
		}
		if sa.AverageScore != sb.AverageScore {
			return sa.AverageScore > sb.AverageScore
		}
		return sa.WinPercentage > sb.WinPercentage
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings
}
