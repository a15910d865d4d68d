// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/senti-tui/internal/config"
)

func TestVaderAnalyzer_Labels(t *testing.T) {
	v := NewVaderAnalyzer()

	tests := []struct {
		text string
		want string
	}{
		{"I love this! It is wonderful.", LabelPositive},
		{"I hate this. It is terrible and awful.", LabelNegative},
		{"The table is in the kitchen.", LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			res, err := v.Analyze(context.Background(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Sentiment)
			assert.Equal(t, tt.text, res.Text)
			assert.Equal(t, "vader", res.Backend)
			require.NotNil(t, res.Score)
		})
	}
}

func TestVaderAnalyzer_EmptyText(t *testing.T) {
	_, err := NewVaderAnalyzer().Analyze(context.Background(), " \t\n")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestVaderAnalyzer_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewVaderAnalyzer().Analyze(ctx, "great")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestLabelForScore(t *testing.T) {
	assert.Equal(t, LabelPositive, LabelForScore(0.20))
	assert.Equal(t, LabelPositive, LabelForScore(0.9))
	assert.Equal(t, LabelNegative, LabelForScore(-0.20))
	assert.Equal(t, LabelNeutral, LabelForScore(0.19))
	assert.Equal(t, LabelNeutral, LabelForScore(-0.19))
	assert.Equal(t, LabelNeutral, LabelForScore(0))
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "I love this", "I love this"},
		{"emphasis", "I **love** _this_", "I love this"},
		{"link keeps text", "see [the docs](https://example.com/x) now", "see the docs now"},
		{"bare url removed", "visit https://example.com/page today", "visit today"},
		{"www removed", "go to www.example.com please", "go to please"},
		{"heading and list", "# Title\n\n- one\n- two", "Title one two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.input))
		})
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	cfg := config.Default().Analyzer

	a, err := New(cfg, false)
	require.NoError(t, err)
	assert.IsType(t, &Client{}, a)

	cfg.Backend = config.BackendVader
	a, err = New(cfg, false)
	require.NoError(t, err)
	assert.IsType(t, &VaderAnalyzer{}, a)

	a, err = New(cfg, true)
	require.NoError(t, err)
	traced, ok := a.(*TracedAnalyzer)
	require.True(t, ok)
	assert.Equal(t, "vader", traced.Name())

	cfg.Backend = "oracle"
	_, err = New(cfg, false)
	assert.Error(t, err)
}
