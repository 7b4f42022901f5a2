package board

// Kind enumerates the terminal states spec.md §3 names: Win(0), Win(1),
// Draw, Ongoing.
type Kind int

const (
	Ongoing Kind = iota
	WinPlane0
	WinPlane1
	Draw
)

// Outcome is the result of Winner(b): which plane (if any) completed a run
// of K collinear stones, or Draw/Ongoing.
type Outcome struct {
	Kind Kind
}

// IsTerminal reports whether the game has ended.
func (o Outcome) IsTerminal() bool { return o.Kind != Ongoing }

// directions to scan: horizontal, vertical, and both diagonals. Each line
// start is scanned forward only, so every run is counted exactly once.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Winner scans all S·S·4 line starts for K consecutive plane-0 or plane-1
// cells, then checks for a draw by total occupancy, per spec.md §4.A.
func Winner(b Board) Outcome {
	if hasRun(b, 0) {
		return Outcome{Kind: WinPlane0}
	}
	if hasRun(b, 1) {
		return Outcome{Kind: WinPlane1}
	}
	if b.Full() {
		return Outcome{Kind: Draw}
	}
	return Outcome{Kind: Ongoing}
}

func hasRun(b Board, plane int) bool {
	s, k := b.size, b.k
	for x := 0; x < s; x++ {
		for y := 0; y < s; y++ {
			if b.Occupant(x, y) != plane {
				continue
			}
			for _, d := range directions {
				if runFrom(b, plane, x, y, d[0], d[1]) {
					return true
				}
			}
		}
	}
	return false
}

// runFrom reports whether a run of k starts at (x, y) in direction (dx, dy).
// It only counts a run once by requiring the cell immediately before the
// start (in the same direction) to be out of range or not the same plane.
func runFrom(b Board, plane, x, y, dx, dy int) bool {
	px, py := x-dx, y-dy
	if b.inRange(px, py) && b.Occupant(px, py) == plane {
		return false // not a line start; an earlier cell already covers this run
	}
	for i := 0; i < b.k; i++ {
		cx, cy := x+dx*i, y+dy*i
		if !b.inRange(cx, cy) || b.Occupant(cx, cy) != plane {
			return false
		}
	}
	return true
}

// TerminalValue returns the value from the perspective of the side to move
// at b, and whether b is terminal. A win on plane 1 (the opponent, who just
// moved) means the side to move has already lost: -1. A win on plane 0 is
// the anomalous but well-defined case of a directly-constructed board where
// the side to move already holds a winning line: +1. Draw is 0.
func TerminalValue(b Board) (value float32, terminal bool) {
	switch Winner(b).Kind {
	case WinPlane0:
		return 1, true
	case WinPlane1:
		return -1, true
	case Draw:
		return 0, true
	default:
		return 0, false
	}
}
