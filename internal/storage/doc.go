// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists analysis history in SQLite.
//
// Every settled analysis, successful or not, can be recorded as an Entry.
// The store uses the pure Go modernc.org/sqlite driver in WAL mode with a
// single connection.
//
// # Key Types
//
//   - HistoryStore: open database handle with Record, List, Search and Stats
//   - Entry: one recorded analysis
//   - Stats: aggregate counts by outcome and label
//
// # Usage
//
//	store, err := storage.Open(path, 1000)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	id, err := store.Record(ctx, storage.Entry{Text: text, Sentiment: "positive", Backend: "http"})
//	recent, err := store.List(ctx, 20)
//
// # Storage Location
//
// History is stored in ~/.senti/history.db unless history.path says otherwise.
package storage
