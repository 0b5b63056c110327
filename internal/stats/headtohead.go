package stats

import "github.com/pongclub/rally/internal/club"

// HeadToHead tallies the record over matches where both players appear in
// any seat. Wins are attributed by team seat, so a doubles win counts for
// whichever target player stood on the winning side.
func HeadToHead(playerID, otherID string, matches []*club.Match) H2H {
	var record H2H

	for _, m := range matches {
		if !m.HasPlayer(playerID) || !m.HasPlayer(otherID) {
			continue
		}
		record.Total++

		if m.WinnerID == "" {
			continue
		}

		winnerOnSideOne := m.WinnerID == m.Player1ID
		if m.OnSideOne(playerID) == winnerOnSideOne {
			record.Wins++
		}
		if m.OnSideOne(otherID) == winnerOnSideOne {
			record.OtherWins++
		}
	}

	return record
}
