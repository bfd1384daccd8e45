// Package motif classifies tactical and positional patterns in chess
// positions: forks, pins, skewers, discovered attacks, mating patterns,
// weak pawns and outposts. Detectors are pure functions over a position
// and its legal move set; they never retain references to their input.
package motif

import (
	"log"

	"golang.org/x/exp/slices"

	"chess-motifs/board"
)

// Kind identifies a motif family.
type Kind uint8

const (
	KindFork Kind = iota
	KindPin
	KindSkewer
	KindDiscoveredAttack
	KindBackRankMate
	KindSmotheredMate
	KindIsolatedPawn
	KindDoubledPawn
	KindBackwardPawn
	KindOutpost
)

var kindNames = [...]string{
	KindFork:             "fork",
	KindPin:              "pin",
	KindSkewer:           "skewer",
	KindDiscoveredAttack: "discovered-attack",
	KindBackRankMate:     "back-rank-mate",
	KindSmotheredMate:    "smothered-mate",
	KindIsolatedPawn:     "isolated-pawn",
	KindDoubledPawn:      "doubled-pawn",
	KindBackwardPawn:     "backward-pawn",
	KindOutpost:          "outpost",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Confidence states how binding a detected motif is. Forced means the
// defining line cannot be averted; Possible is advisory, including cases
// where the bounded confirmation search ran out of depth.
type Confidence uint8

const (
	Possible Confidence = iota
	Forced
)

func (c Confidence) String() string {
	if c == Forced {
		return "forced"
	}
	return "possible"
}

// Instance is one detected motif. Squares lists the principal squares in
// a kind-specific order (documented per detector); Pieces the involved
// pieces in the same order; Line the move sequence realizing the motif
// (empty for static motifs).
type Instance struct {
	Kind       Kind
	Ply        int
	Squares    []board.Square
	Pieces     []board.Piece
	Line       []board.Move
	Confidence Confidence
}

// Ply bundles a position with its ply index and precomputed legal move
// set, the unit all detectors consume.
type Ply struct {
	Index int
	Board *board.Board
	Moves []board.Move
}

// NewPly generates the legal move set for b and wraps it for detection.
func NewPly(index int, b *board.Board) *Ply {
	return &Ply{Index: index, Board: b, Moves: b.GenerateMoves()}
}

// DetectorFunc is a pure detector: zero or more instances per ply.
type DetectorFunc func(*Ply) []Instance

// Detector is a named registry entry.
type Detector struct {
	Name string
	Fn   DetectorFunc
}

var registry []Detector

// Register adds a detector to the registry. Detectors are independent;
// registering a new kind never requires touching existing ones.
func Register(name string, fn DetectorFunc) {
	registry = append(registry, Detector{Name: name, Fn: fn})
}

// Detectors returns the registered detectors in registration order.
func Detectors() []Detector {
	out := make([]Detector, len(registry))
	copy(out, registry)
	return out
}

// Detect runs every registered detector on the ply and returns the
// combined instances in a deterministic order. A panicking detector is
// logged and skipped; the others still run.
func Detect(p *Ply) []Instance {
	return DetectWith(registry, p)
}

// DetectWith runs an explicit detector list instead of the registry.
func DetectWith(detectors []Detector, p *Ply) []Instance {
	var out []Instance
	for _, d := range detectors {
		out = append(out, runDetector(d, p)...)
	}
	Sort(out)
	return out
}

func runDetector(d Detector, p *Ply) (found []Instance) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("motif: detector %q failed at ply %d (%s): %v", d.Name, p.Index, p.Board.ToFEN(), r)
			found = nil
		}
	}()
	return d.Fn(p)
}

// Sort orders instances canonically: by kind, then principal squares,
// then confidence. Generation order is not meaningful; callers that need
// determinism get it here.
func Sort(instances []Instance) {
	slices.SortFunc(instances, func(a, b Instance) bool {
		return compareInstances(a, b) < 0
	})
}

func compareInstances(a, b Instance) int {
	if a.Kind != b.Kind {
		return int(a.Kind) - int(b.Kind)
	}
	if n := slices.Compare(a.Squares, b.Squares); n != 0 {
		return n
	}
	if len(a.Line) != len(b.Line) {
		return len(a.Line) - len(b.Line)
	}
	for i := range a.Line {
		if a.Line[i] != b.Line[i] {
			return int(a.Line[i]) - int(b.Line[i])
		}
	}
	return int(a.Confidence) - int(b.Confidence)
}

// pieceValue approximates exchange values in centipawns, king highest so
// attacks on it always dominate.
var pieceValue = [7]int{
	board.PieceTypeNone:   0,
	board.PieceTypePawn:   100,
	board.PieceTypeKnight: 300,
	board.PieceTypeBishop: 300,
	board.PieceTypeRook:   500,
	board.PieceTypeQueen:  900,
	board.PieceTypeKing:   5000,
}

func valueOf(p board.Piece) int { return pieceValue[p.Type()] }
