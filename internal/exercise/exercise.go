// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exercise

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nafsy-app/nafsy-tui/internal/reveal"
)

// =============================================================================
// TYPES
// =============================================================================

var ErrUnknownExercise = errors.New("unknown exercise")

// Step is one timed prompt within an exercise.
type Step struct {
	// Text is shown to the user for the step's duration
	Text string
	// Duration is how long the step stays on screen
	Duration time.Duration
}

// Exercise is a guided wellness routine.
type Exercise struct {
	// ID is the stable identifier used by /exercise <id>
	ID string
	// Name is the display title
	Name string
	// Tagline is a one-line description for the picker
	Tagline string
	// Steps run in order
	Steps []Step
}

// TotalDuration sums the step durations.
func (e *Exercise) TotalDuration() time.Duration {
	var total time.Duration
	for _, s := range e.Steps {
		total += s.Duration
	}
	return total
}

// Chunks compiles the steps into the text sequence the reveal controller
// paces. Each step gets a progress prefix so a user always knows where
// they are.
func (e *Exercise) Chunks() []string {
	chunks := make([]string, len(e.Steps))
	for i, s := range e.Steps {
		chunks[i] = fmt.Sprintf("[%d/%d] %s", i+1, len(e.Steps), s.Text)
	}
	return chunks
}

// Options returns reveal pacing for this exercise. The first step's
// duration serves as the base; StepDurations carries the full per-step
// schedule. Manual interaction does not pause the flow: an exercise keeps
// its rhythm even if the user peeks back.
func (e *Exercise) Options() reveal.Options {
	d := 5 * time.Second
	if len(e.Steps) > 0 {
		d = e.Steps[0].Duration
	}
	return reveal.Options{
		ChunkDuration:      d,
		AutoAdvance:        true,
		PauseOnInteraction: false,
	}
}

// StepDurations returns each step's display duration in order, for the
// controller's per-index pacing. Their sum equals TotalDuration.
func (e *Exercise) StepDurations() []time.Duration {
	ds := make([]time.Duration, len(e.Steps))
	for i, s := range e.Steps {
		ds[i] = s.Duration
	}
	return ds
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog returns the built-in exercises in display order.
func Catalog() []*Exercise {
	return []*Exercise{
		boxBreathing(),
		grounding54321(),
		bodyScan(),
		gratitudePause(),
	}
}

// Lookup returns the exercise with the given ID.
func Lookup(id string) (*Exercise, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, e := range Catalog() {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownExercise, id)
}

func boxBreathing() *Exercise {
	ex := &Exercise{
		ID:      "breathe",
		Name:    "Box Breathing",
		Tagline: "Four counts in, hold, out, hold. Three rounds.",
	}
	for round := 1; round <= 3; round++ {
		ex.Steps = append(ex.Steps,
			Step{fmt.Sprintf("Round %d: Breathe in slowly through your nose... 1, 2, 3, 4.", round), 4 * time.Second},
			Step{"Hold your breath gently... 1, 2, 3, 4.", 4 * time.Second},
			Step{"Breathe out slowly through your mouth... 1, 2, 3, 4.", 4 * time.Second},
			Step{"Hold, lungs empty... 1, 2, 3, 4.", 4 * time.Second},
		)
	}
	ex.Steps = append(ex.Steps, Step{"Well done. Notice how your body feels right now.", 6 * time.Second})
	return ex
}

func grounding54321() *Exercise {
	return &Exercise{
		ID:      "ground",
		Name:    "5-4-3-2-1 Grounding",
		Tagline: "Anchor to the present through your senses.",
		Steps: []Step{
			{"Look around and name 5 things you can see. Take your time with each one.", 20 * time.Second},
			{"Now notice 4 things you can physically feel. The chair, your feet on the floor, the air.", 16 * time.Second},
			{"Listen for 3 sounds around you, near or far.", 12 * time.Second},
			{"Find 2 things you can smell, or recall two smells you like.", 10 * time.Second},
			{"Name 1 thing you can taste right now.", 8 * time.Second},
			{"You are here, in this moment. Take one slow breath before we continue.", 8 * time.Second},
		},
	}
}

func bodyScan() *Exercise {
	return &Exercise{
		ID:      "scan",
		Name:    "Short Body Scan",
		Tagline: "Two minutes of moving attention through the body.",
		Steps: []Step{
			{"Settle into your seat. Close your eyes if that feels okay, or soften your gaze.", 10 * time.Second},
			{"Bring your attention to your feet. Notice any pressure, warmth, or tingling.", 15 * time.Second},
			{"Move up to your legs and hips. No need to change anything, just notice.", 15 * time.Second},
			{"Notice your belly rising and falling with each breath.", 15 * time.Second},
			{"Relax your shoulders. Let them drop away from your ears.", 15 * time.Second},
			{"Soften your jaw and the space between your eyebrows.", 15 * time.Second},
			{"Take in your whole body at once, breathing gently.", 15 * time.Second},
			{"When you're ready, open your eyes. You can return to this anytime.", 10 * time.Second},
		},
	}
}

func gratitudePause() *Exercise {
	return &Exercise{
		ID:      "gratitude",
		Name:    "Gratitude Pause",
		Tagline: "One minute to notice what's going right.",
		Steps: []Step{
			{"Think of one small thing from today that went okay. It doesn't have to be big.", 15 * time.Second},
			{"Think of one person you're glad exists. Picture their face for a moment.", 15 * time.Second},
			{"Think of one thing your body did for you today. Walking, breathing, healing.", 15 * time.Second},
			{"Hold those three things together for a breath. That's your pause.", 10 * time.Second},
		},
	}
}
