// Package render draws motif diagrams as SVG: the position, the
// motif's principal squares highlighted, and its supporting line as
// arrows, captioned with the motif kind. It exists so a MotifInstance
// alone is enough to produce a human explanation.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"chess-motifs/board"
	"chess-motifs/motif"
)

const (
	squareSize = 48
	margin     = 24
	boardSize  = 8 * squareSize
	caption    = 28
)

const (
	lightFill     = "fill:#f0d9b5"
	darkFill      = "fill:#b58863"
	highlightFill = "fill:#e8453c;fill-opacity:0.55"
	arrowStyle    = "stroke:#15781b;stroke-width:5;stroke-opacity:0.8"
	arrowHead     = "fill:#15781b;fill-opacity:0.8"
	glyphStyle    = "font-size:36px;text-anchor:middle;font-family:serif"
	captionStyle  = "font-size:16px;font-family:sans-serif"
	coordStyle    = "font-size:11px;font-family:sans-serif;fill:#666"
)

var pieceGlyphs = map[board.Piece]string{
	board.WhitePawn:   "♙",
	board.WhiteKnight: "♘",
	board.WhiteBishop: "♗",
	board.WhiteRook:   "♖",
	board.WhiteQueen:  "♕",
	board.WhiteKing:   "♔",
	board.BlackPawn:   "♟",
	board.BlackKnight: "♞",
	board.BlackBishop: "♝",
	board.BlackRook:   "♜",
	board.BlackQueen:  "♛",
	board.BlackKing:   "♚",
}

// MotifSVG writes an SVG diagram of the position with the motif's
// principal squares highlighted and its supporting moves drawn as
// arrows. The position should be the one the motif was detected in.
func MotifSVG(w io.Writer, b *board.Board, in motif.Instance) {
	canvas := svg.New(w)
	canvas.Start(boardSize+2*margin, boardSize+2*margin+caption)

	principal := make(map[board.Square]bool, len(in.Squares))
	for _, sq := range in.Squares {
		principal[sq] = true
	}

	for sq := board.Square(0); sq < 64; sq++ {
		x, y := squareOrigin(sq)
		style := lightFill
		if (sq.File()+sq.Rank())%2 == 0 {
			style = darkFill
		}
		canvas.Rect(x, y, squareSize, squareSize, style)
		if principal[sq] {
			canvas.Rect(x, y, squareSize, squareSize, highlightFill)
		}
	}

	drawCoordinates(canvas)

	for sq := board.Square(0); sq < 64; sq++ {
		p := b.PieceAt(sq)
		if p == board.NoPiece {
			continue
		}
		x, y := squareOrigin(sq)
		canvas.Text(x+squareSize/2, y+squareSize-12, pieceGlyphs[p], glyphStyle)
	}

	for _, m := range in.Line {
		drawArrow(canvas, m.From(), m.To())
	}

	label := fmt.Sprintf("%s (%s), ply %d", in.Kind, in.Confidence, in.Ply)
	canvas.Text(margin, boardSize+2*margin+caption-8, label, captionStyle)
	canvas.End()
}

// squareOrigin maps a board square to the top-left pixel of its cell,
// with rank 8 at the top as diagrams are conventionally drawn.
func squareOrigin(sq board.Square) (x, y int) {
	x = margin + sq.File()*squareSize
	y = margin + (7-sq.Rank())*squareSize
	return x, y
}

func squareCenter(sq board.Square) (x, y int) {
	x, y = squareOrigin(sq)
	return x + squareSize/2, y + squareSize/2
}

func drawArrow(canvas *svg.SVG, from, to board.Square) {
	x1, y1 := squareCenter(from)
	x2, y2 := squareCenter(to)
	canvas.Line(x1, y1, x2, y2, arrowStyle)
	canvas.Circle(x2, y2, 7, arrowHead)
}

func drawCoordinates(canvas *svg.SVG) {
	for f := 0; f < 8; f++ {
		x := margin + f*squareSize + squareSize/2
		canvas.Text(x, margin+boardSize+14, string(rune('a'+f)), coordStyle)
	}
	for r := 0; r < 8; r++ {
		y := margin + (7-r)*squareSize + squareSize/2 + 4
		canvas.Text(margin-14, y, string(rune('1'+r)), coordStyle)
	}
}
