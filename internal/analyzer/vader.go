// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"golang.org/x/text/unicode/norm"
)

// Compound score cut-offs for the local backend.
const (
	VaderPositiveThreshold = 0.20
	VaderNegativeThreshold = -0.20
)

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// VaderAnalyzer classifies text locally with the VADER lexicon.
// It needs no network and is used when the backend is "vader".
type VaderAnalyzer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderAnalyzer loads the VADER lexicon.
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Name identifies the backend.
func (v *VaderAnalyzer) Name() string {
	return "vader"
}

// Analyze scores text and echoes it back unchanged.
func (v *VaderAnalyzer) Analyze(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if err := ctx.Err(); err != nil {
		return nil, classifyTransportError(ctx, err)
	}

	start := time.Now()
	score := v.analyzer.PolarityScores(PlainText(text)).Compound

	return &Result{
		Text:      text,
		Sentiment: LabelForScore(score),
		Score:     &score,
		Backend:   v.Name(),
		Duration:  time.Since(start),
	}, nil
}

// LabelForScore maps a compound score onto positive, negative or neutral.
func LabelForScore(score float64) string {
	switch {
	case score >= VaderPositiveThreshold:
		return LabelPositive
	case score <= VaderNegativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// PlainText strips markdown markup and URLs so only prose is scored.
// Link text is kept; link targets and bare URLs are dropped.
func PlainText(input string) string {
	input = norm.NFC.String(input)

	md := blackfriday.New(blackfriday.WithNoExtensions())
	root := md.Parse([]byte(input))

	var sb strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if !entering {
			return blackfriday.GoToNext
		}
		switch node.Type {
		case blackfriday.Text, blackfriday.Code:
			sb.Write(node.Literal)
			sb.WriteByte(' ')
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			sb.WriteByte(' ')
		}
		return blackfriday.GoToNext
	})

	plain := urlPattern.ReplaceAllString(sb.String(), "")
	return strings.Join(strings.Fields(plain), " ")
}
