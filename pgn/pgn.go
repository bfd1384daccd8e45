// Package pgn reads PGN game records and resolves their SAN movetext
// against generated legal moves, producing fully validated games ready
// for analysis.
package pgn

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"chess-motifs/board"
)

// Game is one fully resolved PGN game: its tag pairs, the starting
// position (from a FEN tag or the standard start), and the main-line
// moves in order. Variations, comments and NAGs are discarded.
type Game struct {
	Tags   map[string]string
	Start  *board.Board
	Moves  []board.Move
	SAN    []string
	Result string
}

// Reader reads consecutive games from a PGN stream.
type Reader struct {
	r     *bufio.Reader
	games int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadAll reads every game from r. A malformed game aborts the read
// with its error; io.EOF is not an error.
func ReadAll(r io.Reader) ([]*Game, error) {
	pr := NewReader(r)
	var games []*Game
	for {
		g, err := pr.ReadGame()
		if err == io.EOF {
			return games, nil
		}
		if err != nil {
			return games, err
		}
		games = append(games, g)
	}
}

// ReadGame reads the next game. It returns io.EOF when the stream holds
// no further games, and a *GameError for malformed input.
func (r *Reader) ReadGame() (*Game, error) {
	g := &Game{Tags: make(map[string]string)}
	index := r.games

	if err := r.readTagSection(g); err != nil {
		return nil, err
	}

	start := board.FENStartPos
	if fen, ok := g.Tags["FEN"]; ok {
		start = fen
	}
	b, err := board.ParseFEN(start)
	if err != nil {
		return nil, &GameError{Game: index, Err: fmt.Errorf("FEN tag: %w", err)}
	}
	g.Start = b

	// Movetext resolution walks a scratch copy so g.Start stays at the
	// game's first position.
	cur := *b
	if err := r.readMovetext(g, index, &cur); err != nil {
		return nil, err
	}
	if len(g.Tags) == 0 && len(g.Moves) == 0 && g.Result == "" {
		return nil, io.EOF
	}
	r.games++
	return g, nil
}

// readTagSection consumes tag pairs up to the first movetext token.
func (r *Reader) readTagSection(g *Game) error {
	for {
		if err := r.skipSpace(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		c, err := r.peekByte()
		if err != nil {
			return nil
		}
		if c != '[' {
			return nil
		}
		r.readByte()
		name, err := r.readSymbol()
		if err != nil {
			return r.tagError(err)
		}
		if err := r.skipSpace(); err != nil {
			return r.tagError(err)
		}
		value, err := r.readString()
		if err != nil {
			return r.tagError(err)
		}
		if err := r.expect(']'); err != nil {
			return r.tagError(err)
		}
		g.Tags[name] = value
	}
}

func (r *Reader) tagError(err error) error {
	return &GameError{Game: r.games, Err: fmt.Errorf("tag pair: %w", err)}
}

// readMovetext consumes tokens until a game terminator or the next tag
// section, applying each SAN move to the running position.
func (r *Reader) readMovetext(g *Game, index int, b *board.Board) error {
	ravDepth := 0
	for {
		if err := r.skipSpace(); err != nil {
			return nil
		}
		c, err := r.peekByte()
		if err != nil {
			return nil
		}
		switch {
		case c == '[' && ravDepth == 0:
			// Next game's tag section.
			return nil
		case c == '{':
			if err := r.skipBraceComment(); err != nil {
				return &GameError{Game: index, Ply: len(g.Moves), Err: err}
			}
		case c == ';':
			r.skipToLineEnd()
		case c == '(':
			r.readByte()
			ravDepth++
		case c == ')':
			r.readByte()
			if ravDepth > 0 {
				ravDepth--
			}
		default:
			tok, err := r.readToken()
			if err != nil || tok == "" {
				return nil
			}
			if ravDepth > 0 {
				continue // Variations are skipped, not validated.
			}
			done, err := applyToken(g, index, b, tok)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func applyToken(g *Game, index int, b *board.Board, tok string) (done bool, err error) {
	switch {
	case tok == "1-0" || tok == "0-1" || tok == "1/2-1/2" || tok == "*":
		g.Result = tok
		return true, nil
	case strings.HasPrefix(tok, "$"):
		return false, nil // NAG
	case isMoveNumber(tok):
		return false, nil
	case tok == "--" || tok == "Z0":
		return false, &GameError{Game: index, Ply: len(g.Moves), SAN: tok,
			Err: fmt.Errorf("null moves are not supported")}
	}
	m, ok := MatchSAN(b, tok)
	if !ok {
		return false, &GameError{Game: index, Ply: len(g.Moves), SAN: tok,
			Err: fmt.Errorf("no legal move matches %q in %s", tok, b.ToFEN())}
	}
	b.MakeMove(m)
	g.Moves = append(g.Moves, m)
	g.SAN = append(g.SAN, tok)
	return false, nil
}

func isMoveNumber(tok string) bool {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 {
		return false
	}
	for ; i < len(tok); i++ {
		if tok[i] != '.' {
			return false
		}
	}
	return true
}

func (r *Reader) readByte() (byte, error) {
	c, err := r.r.ReadByte()
	return c, err
}

func (r *Reader) peekByte() (byte, error) {
	bs, err := r.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

func (r *Reader) skipSpace() error {
	for {
		c, err := r.peekByte()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(rune(c)) {
			return nil
		}
		r.readByte()
	}
}

func (r *Reader) skipBraceComment() error {
	r.readByte() // '{'
	for {
		c, err := r.readByte()
		if err != nil {
			return fmt.Errorf("unterminated comment")
		}
		if c == '}' {
			return nil
		}
	}
}

func (r *Reader) skipToLineEnd() {
	for {
		c, err := r.readByte()
		if err != nil || c == '\n' {
			return
		}
	}
}

// readSymbol reads a tag name: letters, digits and underscores.
func (r *Reader) readSymbol() (string, error) {
	var sb strings.Builder
	for {
		c, err := r.peekByte()
		if err != nil {
			return "", err
		}
		if !isSymbolChar(c) {
			break
		}
		sb.WriteByte(c)
		r.readByte()
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("missing tag name")
	}
	return sb.String(), nil
}

func isSymbolChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// readString reads a quoted tag value with backslash escapes.
func (r *Reader) readString() (string, error) {
	if err := r.expect('"'); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		c, err := r.readByte()
		if err != nil {
			return "", fmt.Errorf("unterminated string")
		}
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			esc, err := r.readByte()
			if err != nil {
				return "", fmt.Errorf("unterminated string")
			}
			sb.WriteByte(esc)
		default:
			sb.WriteByte(c)
		}
	}
}

func (r *Reader) expect(want byte) error {
	r.skipSpace()
	c, err := r.readByte()
	if err != nil {
		return err
	}
	if c != want {
		return fmt.Errorf("expected %q, found %q", want, c)
	}
	return nil
}

// readToken reads a run of non-space movetext characters, stopping at
// structural punctuation.
func (r *Reader) readToken() (string, error) {
	var sb strings.Builder
	for {
		c, err := r.peekByte()
		if err != nil {
			break
		}
		if unicode.IsSpace(rune(c)) || c == '{' || c == ';' || c == '(' || c == ')' || c == '[' {
			break
		}
		sb.WriteByte(c)
		r.readByte()
	}
	return sb.String(), nil
}
