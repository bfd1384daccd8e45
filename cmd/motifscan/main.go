package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chess-motifs/analysis"
	"chess-motifs/board"
	"chess-motifs/motif"
	"chess-motifs/pgn"
	"chess-motifs/render"
)

func main() {
	workers := flag.Int("workers", 0, "Worker goroutines (0 = GOMAXPROCS)")
	forcedOnly := flag.Bool("forced", false, "Report only forced motifs")
	kinds := flag.String("kinds", "", "Comma-separated motif kinds to report (default: all)")
	svgDir := flag.String("svgdir", "", "Write an SVG diagram per reported motif into this directory")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: motifscan [flags] file.pgn [file.pgn ...]")
		fmt.Fprintln(os.Stderr, "       motifscan [flags] - (read stdin)")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var games []*pgn.Game
	for _, path := range flag.Args() {
		gs, err := readGames(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "motifscan: %s: %v\n", path, err)
			os.Exit(1)
		}
		games = append(games, gs...)
	}

	wanted := kindFilter(*kinds)
	reports := analysis.AnalyzeBatch(games, *workers)

	failed := 0
	for _, rep := range reports {
		if rep.Err != nil {
			fmt.Fprintf(os.Stderr, "motifscan: game %d: %v\n", rep.GameIndex, rep.Err)
			failed++
			continue
		}
		printReport(rep, games[rep.GameIndex], wanted, *forcedOnly, *svgDir)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func readGames(path string) ([]*pgn.Game, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return pgn.ReadAll(r)
}

func kindFilter(spec string) map[string]bool {
	if spec == "" {
		return nil
	}
	wanted := make(map[string]bool)
	for _, k := range strings.Split(spec, ",") {
		wanted[strings.TrimSpace(k)] = true
	}
	return wanted
}

func printReport(rep analysis.GameReport, g *pgn.Game, wanted map[string]bool, forcedOnly bool, svgDir string) {
	header := fmt.Sprintf("game %d", rep.GameIndex)
	if ev := g.Tags["Event"]; ev != "" {
		header += " [" + ev + "]"
	}
	fmt.Println(header)

	for _, ply := range rep.Plies {
		for i, in := range ply.Motifs {
			if forcedOnly && in.Confidence != motif.Forced {
				continue
			}
			if wanted != nil && !wanted[in.Kind.String()] {
				continue
			}
			fmt.Printf("  ply %d: %s (%s) squares=%s", ply.PlyIndex, in.Kind, in.Confidence, squareList(in.Squares))
			if len(in.Line) > 0 {
				fmt.Printf(" line=%s", moveList(in.Line))
			}
			fmt.Println()
			if svgDir != "" {
				if err := writeDiagram(svgDir, rep.GameIndex, ply, i, in); err != nil {
					fmt.Fprintf(os.Stderr, "motifscan: %v\n", err)
				}
			}
		}
	}
}

func squareList(squares []board.Square) string {
	parts := make([]string, len(squares))
	for i, sq := range squares {
		parts[i] = sq.String()
	}
	return strings.Join(parts, ",")
}

func moveList(moves []board.Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

func writeDiagram(dir string, game int, ply analysis.PlyReport, n int, in motif.Instance) error {
	b, err := board.ParseFEN(ply.FEN)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("g%d_p%d_%d_%s.svg", game, ply.PlyIndex, n, in.Kind)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	render.MotifSVG(f, b, in)
	return f.Close()
}
