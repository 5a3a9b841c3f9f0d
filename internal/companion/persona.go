// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package companion

import (
	"fmt"
	"strings"
)

// =============================================================================
// PERSONA
// =============================================================================

// basePersona grounds every conversation regardless of tone. The companion
// never diagnoses, never prescribes, and keeps replies short enough to be
// read in paced chunks.
const basePersona = "You are Nafsy, a gentle mental-wellness companion living in a " +
	"terminal. You listen first and reflect back what you hear. You are not a " +
	"therapist and you never diagnose, prescribe, or promise outcomes. Keep " +
	"replies warm and brief: two to four short paragraphs at most, so they can " +
	"be read one piece at a time without rushing. If the person seems to be in " +
	"immediate danger, encourage them to contact local emergency services or a " +
	"crisis line."

// tonePersona adjusts register per the user's chosen tone.
var tonePersona = map[string]string{
	"gentle":   "Speak softly and without urgency. Validate feelings before offering anything else.",
	"direct":   "Be kind but plain. Name what you observe and suggest one concrete next step.",
	"cheerful": "Keep things light where it fits. A little warmth and humor is welcome, never at the person's expense.",
}

// Persona builds the system prompt for a conversation. Name may be empty;
// unknown tones fall back to the gentle register.
func Persona(name, tone string) string {
	var b strings.Builder
	b.WriteString(basePersona)

	adj, ok := tonePersona[strings.ToLower(strings.TrimSpace(tone))]
	if !ok {
		adj = tonePersona["gentle"]
	}
	b.WriteString(" ")
	b.WriteString(adj)

	if name = strings.TrimSpace(name); name != "" {
		fmt.Fprintf(&b, " The person you are talking with goes by %s.", name)
	}
	return b.String()
}
