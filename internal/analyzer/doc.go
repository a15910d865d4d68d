// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analyzer provides the sentiment backends used by the widget.
//
// Two backends implement the Analyzer interface:
//
//   - Client: POSTs {"text": ...} to a remote service's /analyze endpoint
//     and expects {"text": ..., "sentiment": ...} back
//   - VaderAnalyzer: scores text locally with the VADER lexicon
//
// Errors from either backend are *ClientError values carrying an ErrorType,
// so callers can branch with IsNotRunning, IsTimeout, IsBadStatus and
// IsInvalidResponse.
//
// # Usage
//
//	a, err := analyzer.New(cfg.Analyzer, cfg.Logging.Tracing)
//	if err != nil {
//	    return err
//	}
//	res, err := a.Analyze(ctx, "I love this!")
//	fmt.Println(res.Sentiment)
package analyzer
