// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentimentTone(t *testing.T) {
	tests := []struct {
		label string
		want  Tone
	}{
		{"positive", ToneAffirmative},
		{"negative", ToneAdverse},
		{"neutral", ToneNeutral},
		{"mixed", ToneNeutral},
		{"", ToneNeutral},
		{"POSITIVE", ToneNeutral},
		{"  positive ", ToneNeutral},
		{"😀", ToneNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, SentimentTone(tt.label))
		})
	}
}

func TestSentimentStyle_Colors(t *testing.T) {
	assert.Equal(t, SentimentPositive, SentimentStyle("positive").GetForeground())
	assert.Equal(t, SentimentNegative, SentimentStyle("negative").GetForeground())
	assert.Equal(t, SentimentNeutral, SentimentStyle("neutral").GetForeground())
}

func TestSentimentStyle_UnknownFallsBackToNeutral(t *testing.T) {
	for _, label := range []string{"mixed", "sarcastic", "", "Positive", "\x00"} {
		assert.Equal(t, SentimentNeutral, SentimentStyle(label).GetForeground(), label)
	}
}

func TestSentimentStyle_Idempotent(t *testing.T) {
	for _, label := range []string{"positive", "negative", "neutral", "mixed"} {
		a := SentimentStyle(label)
		b := SentimentStyle(label)
		assert.Equal(t, a.GetForeground(), b.GetForeground())
		assert.Equal(t, a.GetBold(), b.GetBold())
		assert.Equal(t, a.Render("x"), b.Render("x"))
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"positive", "Positive"},
		{"negative", "Negative"},
		{"neutral", "Neutral"},
		{"mixed", "Mixed"},
		{"already Upper", "Already Upper"},
		{"vERY", "VERY"},
		{"", ""},
		{"é", "É"},
		{"1st", "1st"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayLabel(tt.in))
		})
	}
}

func TestDisplayLabel_DoesNotMutateInput(t *testing.T) {
	label := "positive"
	_ = DisplayLabel(label)
	assert.Equal(t, "positive", label)
}

func TestRenderSentiment(t *testing.T) {
	assert.True(t, strings.Contains(RenderSentiment("mixed"), "Mixed"))
	assert.True(t, strings.Contains(RenderSentiment("positive"), "Positive"))
}

func TestTone_Indicator(t *testing.T) {
	assert.Equal(t, "[+]", ToneAffirmative.Indicator())
	assert.Equal(t, "[-]", ToneAdverse.Indicator())
	assert.Equal(t, "[~]", ToneNeutral.Indicator())
	assert.Equal(t, "affirmative", ToneAffirmative.String())
}
