package board

// Board topology for a classic four-player cross-and-circle board.
//
// All tokens share one folded numbering: -1 is home, 0..51 is the perimeter,
// 52..56 is the final path and 57 is the goal. Per-color entry offsets exist
// only for client-side rendering; movement and capture arbitration use the
// folded numbering directly.
const (
	PerimeterLength = 52
	FinalPathStart  = 52
	Goal            = 57

	HomePosition = -1

	TokensPerPlayer = 4
	MaxPlayers      = 4

	DiceMin = 1
	DiceMax = 6

	// A token may only leave home on this roll; it also grants a reroll.
	EntryRoll = 6
)

type Color string

const (
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
)

// Colors lists the four seat colors in assignment order.
var Colors = [MaxPlayers]Color{ColorRed, ColorBlue, ColorGreen, ColorYellow}

// EntryOffsets maps each color to its perimeter entry cell on the physical
// board. Fixed design data, not derived.
var EntryOffsets = map[Color]int{
	ColorRed:    0,
	ColorBlue:   13,
	ColorGreen:  26,
	ColorYellow: 39,
}

// safeSquares are the eight perimeter cells on which no capture may occur.
var safeSquares = map[int]struct{}{
	0:  {},
	8:  {},
	13: {},
	21: {},
	26: {},
	34: {},
	39: {},
	47: {},
}

// IsSafeSquare reports whether pos is a perimeter cell protected from capture.
func IsSafeSquare(pos int) bool {
	_, ok := safeSquares[pos]
	return ok
}

// OnPerimeter reports whether pos is a shared perimeter cell.
func OnPerimeter(pos int) bool {
	return pos >= 0 && pos < PerimeterLength
}

// OnFinalPath reports whether pos is inside the color-private final stretch,
// goal excluded.
func OnFinalPath(pos int) bool {
	return pos >= FinalPathStart && pos < Goal
}
