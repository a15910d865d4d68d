// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

// Input holds the text the user is composing. It performs no validation;
// emptiness is only checked when the text is submitted.
type Input struct {
	text string
}

// SetText replaces the current text.
func (in *Input) SetText(text string) {
	in.text = text
}

// Text returns the current text.
func (in *Input) Text() string {
	return in.text
}
