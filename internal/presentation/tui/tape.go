package tui

import (
	"fmt"
	"strings"

	"github.com/WizardOfMenlo/turing-machine/pkg/domain"
	"github.com/muesli/termenv"
)

// TapeRenderer formats trace snapshots and verdicts, with colour when the profile allows.
type TapeRenderer struct {
	profile termenv.Profile
}

// NewTapeRenderer creates a renderer for the given colour profile.
func NewTapeRenderer(profile termenv.Profile) *TapeRenderer {
	return &TapeRenderer{profile: profile}
}

// Snapshot renders one trace line: step, state and the tape window with the head cell marked.
func (r *TapeRenderer) Snapshot(s domain.Snapshot) string {
	var cells []string
	for i, sym := range s.Window.Cells {
		cell := string(sym)
		if s.Window.Offset+i == s.Head {
			if r.profile == termenv.Ascii {
				cell = "[" + cell + "]"
			} else {
				cell = r.profile.String(" " + cell + " ").Reverse().Bold().String()
			}
		} else {
			cell = " " + cell + " "
		}
		cells = append(cells, cell)
	}

	state := r.profile.String(fmt.Sprintf("%-10s", s.State)).Foreground(r.profile.Color("#60a5fa"))
	line := fmt.Sprintf("%6d  %s  |%s|", s.Step, state, strings.Join(cells, ""))
	if s.Verdict != nil {
		line += "  " + r.Verdict(*s.Verdict)
	}
	return line
}

// Verdict renders a verdict, green for accept, red for reject, yellow otherwise.
func (r *TapeRenderer) Verdict(v domain.Verdict) string {
	color := "#facc15"
	switch v.Kind {
	case domain.VerdictAccept:
		color = "#4ade80"
	case domain.VerdictReject:
		color = "#f87171"
	}
	return r.profile.String(v.String()).Foreground(r.profile.Color(color)).Bold().String()
}
