// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import "time"

// =============================================================================
// STATE KINDS
// =============================================================================

// Kind discriminates the variants of State.
type Kind int

const (
	KindIdle Kind = iota
	KindInvalid
	KindPending
	KindSucceeded
	KindFailed
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindInvalid:
		return "invalid"
	case KindPending:
		return "pending"
	case KindSucceeded:
		return "succeeded"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// =============================================================================
// STATE VARIANTS
// =============================================================================

// State is the request lifecycle state. Exactly one variant is active;
// the set is closed to this package.
type State interface {
	Kind() Kind
	isState()
}

// Idle means no request has been attempted yet.
type Idle struct{}

// Invalid means the last submission failed client-side validation.
type Invalid struct {
	Message string
}

// Pending means a request is in flight.
type Pending struct {
	Text    string
	Started time.Time
}

// Succeeded holds the settled classification.
type Succeeded struct {
	Text      string
	Sentiment string
}

// Failed means the last request could not be completed. Cause is kept
// for logs and diagnostics only; Message is what the user sees.
type Failed struct {
	Message string
	Cause   error
}

func (Idle) Kind() Kind      { return KindIdle }
func (Invalid) Kind() Kind   { return KindInvalid }
func (Pending) Kind() Kind   { return KindPending }
func (Succeeded) Kind() Kind { return KindSucceeded }
func (Failed) Kind() Kind    { return KindFailed }

func (Idle) isState()      {}
func (Invalid) isState()   {}
func (Pending) isState()   {}
func (Succeeded) isState() {}
func (Failed) isState()    {}

// ErrorMessage returns the user-facing message for Invalid and Failed states.
func ErrorMessage(s State) (string, bool) {
	switch st := s.(type) {
	case Invalid:
		return st.Message, true
	case Failed:
		return st.Message, true
	}
	return "", false
}
