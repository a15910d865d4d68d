// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the senti TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection; the Theme can also be forced to one background.

# Sentiment Treatment (sentiment.go)

Labels map to one of three tones:

	positive        -> ToneAffirmative (green)
	negative        -> ToneAdverse     (red)
	anything else   -> ToneNeutral     (gray)

SentimentStyle is total: it accepts any string and never fails.
DisplayLabel upper-cases only the first character for display, so
"mixed" is shown as "Mixed" while the stored label stays "mixed".

# Theme (theme.go)

Theme bundles the styles of the widget: header, input box, submit control,
error panel, result panel and status bar.

	theme := styles.NewThemeFor(cfg.UI.Theme)
	title := theme.HeaderTitle.Render("Sentiment Analyzer")
*/
package styles
