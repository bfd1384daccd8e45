package render_test

import (
	"bytes"
	"strings"
	"testing"

	"chess-motifs/board"
	"chess-motifs/motif"
	"chess-motifs/render"
)

func TestMotifSVGContainsDiagramElements(t *testing.T) {
	b, err := board.ParseFEN("4r2k/8/8/8/4N3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	p := motif.NewPly(0, b)
	pins := motif.Detect(p)
	var pin *motif.Instance
	for i := range pins {
		if pins[i].Kind == motif.KindPin {
			pin = &pins[i]
			break
		}
	}
	if pin == nil {
		t.Fatal("no pin detected in fixture position")
	}

	var buf bytes.Buffer
	render.MotifSVG(&buf, b, *pin)
	out := buf.String()

	if !strings.HasPrefix(strings.TrimSpace(out), "<?xml") {
		t.Errorf("output does not start with XML declaration: %.60q", out)
	}
	for _, want := range []string{"<svg", "</svg>", "pin (forced)", "♜", "♘"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// 64 board squares plus one highlight per principal square.
	if got, want := strings.Count(out, "<rect"), 64+len(pin.Squares); got != want {
		t.Errorf("rect count = %d, want %d", got, want)
	}
}

func TestMotifSVGDrawsSupportingLine(t *testing.T) {
	b, err := board.ParseFEN("6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var mate *motif.Instance
	for _, in := range motif.Detect(motif.NewPly(0, b)) {
		if in.Kind == motif.KindBackRankMate {
			mate = &in
			break
		}
	}
	if mate == nil {
		t.Fatal("no back-rank mate detected in fixture position")
	}

	var buf bytes.Buffer
	render.MotifSVG(&buf, b, *mate)
	out := buf.String()
	if !strings.Contains(out, "<line") {
		t.Error("no arrow drawn for the mating move")
	}
	if !strings.Contains(out, "back-rank-mate (forced)") {
		t.Error("caption missing")
	}
}
