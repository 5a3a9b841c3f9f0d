// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nafsy-app/nafsy-tui/internal/mood"
	"github.com/nafsy-app/nafsy-tui/internal/ui/styles"
)

// =============================================================================
// MOOD PICKER OVERLAY
// =============================================================================

// moodStage tracks which field the picker is on.
type moodStage int

const (
	stageValence moodStage = iota
	stageEnergy
	stageDone
)

// MoodChosenMsg is emitted when the user confirms a mood.
type MoodChosenMsg struct {
	Valence int
	Energy  int
}

// MoodCancelledMsg is emitted when the picker is dismissed.
type MoodCancelledMsg struct{}

var valenceLabels = []string{"very low", "low", "okay", "good", "great"}

// MoodPicker is a two-step valence/energy selector.
type MoodPicker struct {
	stage   moodStage
	valence int // index 0..4, maps to -2..2
	energy  int // 1..5
	theme   *styles.Theme
}

// NewMoodPicker creates a picker starting at "okay" / middle energy.
func NewMoodPicker(theme *styles.Theme) *MoodPicker {
	return &MoodPicker{
		valence: 2,
		energy:  3,
		theme:   theme,
	}
}

// Update handles key input while the picker is open.
func (p *MoodPicker) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch key.String() {
	case "esc":
		return func() tea.Msg { return MoodCancelledMsg{} }

	case "left", "h":
		p.dec()
	case "right", "l":
		p.inc()

	case "enter":
		if p.stage == stageValence {
			p.stage = stageEnergy
			return nil
		}
		valence := p.valence - 2 // index -> -2..2
		energy := p.energy
		return func() tea.Msg {
			return MoodChosenMsg{Valence: valence, Energy: energy}
		}
	}
	return nil
}

func (p *MoodPicker) dec() {
	if p.stage == stageValence && p.valence > 0 {
		p.valence--
	} else if p.stage == stageEnergy && p.energy > mood.MinEnergy {
		p.energy--
	}
}

func (p *MoodPicker) inc() {
	if p.stage == stageValence && p.valence < len(valenceLabels)-1 {
		p.valence++
	} else if p.stage == stageEnergy && p.energy < mood.MaxEnergy {
		p.energy++
	}
}

// View renders the picker overlay.
func (p *MoodPicker) View() string {
	t := p.theme
	var sb strings.Builder

	sb.WriteString(t.ExerciseTitle.Render("How are you feeling?") + "\n\n")

	var row []string
	for i, label := range valenceLabels {
		style := t.MoodOption
		if i == p.valence {
			style = t.MoodSelected
		}
		row = append(row, style.Render(label))
	}
	sb.WriteString(strings.Join(row, " ") + "\n\n")

	if p.stage == stageEnergy {
		sb.WriteString(t.ExerciseStep.Render("Energy") + "  ")
		for i := mood.MinEnergy; i <= mood.MaxEnergy; i++ {
			glyph := "○"
			if i <= p.energy {
				glyph = "●"
			}
			if i == p.energy {
				sb.WriteString(t.MoodSelected.Render(glyph))
			} else {
				sb.WriteString(t.MoodOption.Render(glyph))
			}
		}
		sb.WriteString("\n\n")
	}

	hint := "←/→ choose · enter next · esc cancel"
	if p.stage == stageEnergy {
		hint = "←/→ choose · enter log · esc cancel"
	}
	sb.WriteString(t.RevealHint.Render(hint))

	return t.MoodBox.Render(sb.String())
}
