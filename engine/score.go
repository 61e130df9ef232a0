package engine

// Points awarded per row of player-initiated downward movement.
const (
	SoftDropPoints = 1
	HardDropPoints = 1
)

// lineScores is indexed by the number of rows cleared by a single lock.
var lineScores = [...]int{0, 100, 300, 500, 800}

// LineScore returns the points for clearing n rows with one lock. Clearing
// several rows at once always pays more than clearing them one at a time.
func LineScore(n int) int {
	if n <= 0 {
		return 0
	}
	if n < len(lineScores) {
		return lineScores[n]
	}
	last := len(lineScores) - 1
	return lineScores[last] + (n-last)*300
}

// LevelFor returns the display level reached after clearing lines rows.
func LevelFor(lines int) int {
	return lines/10 + 1
}
