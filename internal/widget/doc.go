// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package widget implements the sentiment analyzer's request lifecycle.
//
// A Controller owns the text being composed and a State that is always
// exactly one of Idle, Invalid, Pending, Succeeded or Failed. Submitting
// blank text moves to Invalid without any network call. Submitting real
// text moves to Pending and hands back a Call whose Do method performs the
// blocking request; feeding its Outcome to Settle leaves Pending for
// Succeeded or Failed. Every failure, whatever its cause, surfaces the
// same generic message.
//
// Only one call is outstanding at a time: submitting while Pending is
// ignored.
//
// # Usage
//
//	c := widget.NewController(a)
//	c.SetText("I love this!")
//	if call, ok := c.Submit(); ok {
//	    c.Settle(call.Do(ctx))
//	}
//	switch st := c.State().(type) {
//	case widget.Succeeded:
//	    fmt.Println(st.Sentiment)
//	case widget.Failed:
//	    fmt.Println(st.Message)
//	}
package widget
