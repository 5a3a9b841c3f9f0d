// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package companion provides the HTTP client for the AI companion backend.
package companion

import "strings"

// =============================================================================
// CRISIS GUARD
// =============================================================================

// The guard screens outgoing user text for acute-crisis language before it
// reaches the model. A wellness companion must never improvise here: when
// the guard trips, the user gets a fixed grounding response with real
// resources, and the message is not sent for generation.

// crisisPhrases are matched case-insensitively as substrings of the user's
// latest message. Keep the list short and high-precision; false positives
// are handled by the phrasing of the response, which never accuses.
var crisisPhrases = []string{
	"kill myself",
	"end my life",
	"suicide",
	"want to die",
	"hurt myself",
	"self harm",
	"self-harm",
	"no reason to live",
}

// GuardResponse is the fixed grounding text delivered when the guard
// trips. The reveal controller paces it like any other reply.
const GuardResponse = "It sounds like you are carrying something very heavy right now, and I want you to know that you deserve real support.\n\n" +
	"I'm not able to help with this the way a person can. Please reach out to someone now:\n\n" +
	"- If you are in immediate danger, call your local emergency number.\n" +
	"- You can call or text 988 (Suicide & Crisis Lifeline) any time, day or night.\n" +
	"- If you can, tell someone near you how you are feeling.\n\n" +
	"I'm still here, and we can keep talking while you reach out."

// Screen checks a single user message. Returns true when the crisis guard
// should intercept, along with the grounding response to show.
func Screen(userText string) (bool, string) {
	lowered := strings.ToLower(userText)
	for _, phrase := range crisisPhrases {
		if strings.Contains(lowered, phrase) {
			return true, GuardResponse
		}
	}
	return false, ""
}

// ScreenMessages applies Screen to the latest user message in a wire
// conversation. Earlier history is not re-screened; it was screened when
// it was sent.
func ScreenMessages(messages []Message) (bool, string) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return Screen(messages[i].Content)
		}
	}
	return false, ""
}
