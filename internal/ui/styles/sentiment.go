// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Tone is the display treatment of a sentiment label.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneAffirmative
	ToneAdverse
)

// String returns the tone name.
func (t Tone) String() string {
	switch t {
	case ToneAffirmative:
		return "affirmative"
	case ToneAdverse:
		return "adverse"
	default:
		return "neutral"
	}
}

// Color returns the foreground color of the tone.
func (t Tone) Color() lipgloss.AdaptiveColor {
	switch t {
	case ToneAffirmative:
		return SentimentPositive
	case ToneAdverse:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Indicator returns an ASCII marker so the tone survives without color.
func (t Tone) Indicator() string {
	switch t {
	case ToneAffirmative:
		return "[+]"
	case ToneAdverse:
		return "[-]"
	default:
		return "[~]"
	}
}

// SentimentTone maps a label to its tone. Any label other than
// "positive" or "negative" is neutral.
func SentimentTone(label string) Tone {
	switch label {
	case "positive":
		return ToneAffirmative
	case "negative":
		return ToneAdverse
	default:
		return ToneNeutral
	}
}

// SentimentStyle returns the style for a label. It never fails and returns
// the neutral style for unknown labels.
func SentimentStyle(label string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SentimentTone(label).Color()).
		Bold(true)
}

// DisplayLabel upper-cases the first character of label and leaves the rest
// unchanged. The stored label is never modified.
func DisplayLabel(label string) string {
	r, size := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return label
	}
	return string(unicode.ToUpper(r)) + label[size:]
}

// RenderSentiment renders the display label in its tone's style.
func RenderSentiment(label string) string {
	return SentimentStyle(label).Render(DisplayLabel(label))
}
