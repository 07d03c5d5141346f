package game

const (
	// MatchBasePoints is awarded for every pair found.
	MatchBasePoints = 50

	// MismatchPenalty is deducted for every wrong pair.
	MismatchPenalty = 5
)

// SpeedBonus is the extra awarded for a match made elapsed seconds into the
// stage. It decreases with time and resets every minute: 100 minus the
// seconds within the current minute, but never less than 10.
func SpeedBonus(elapsed int) int {
	return max(100-elapsed%60, 10)
}

// MatchPoints is the total awarded for a match.
func MatchPoints(elapsed int) int {
	return MatchBasePoints + SpeedBonus(elapsed)
}

// StageBonus is awarded for completing a stage in the given number of moves:
// 200 minus 5 per move, but never less than 50.
func StageBonus(moves int) int {
	return max(200-moves*5, 50)
}

// ApplyPenalty deducts the mismatch penalty from points, flooring at zero.
func ApplyPenalty(points int) int {
	return max(points-MismatchPenalty, 0)
}
