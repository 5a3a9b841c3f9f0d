// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile manages the local user profile and the optional app lock.
//
// The profile holds display preferences collected during onboarding (name,
// tone, check-in goal). The app lock gates startup behind a PIN hashed
// with bcrypt; a TOTP secret enrolled at lock setup serves as the recovery
// path when the PIN is forgotten. Everything lives in a 0600 JSON file
// under the data directory.
package profile
