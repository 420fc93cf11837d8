// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

import "errors"

var (
	// ErrNoEstimateAvailable is returned by RateEstimates when no block
	// has yet produced a fee-paying transaction. This is not a fault of
	// the node, merely insufficient data.
	ErrNoEstimateAvailable = errors.New("no fee rate estimate available")

	// ErrDatabaseOpen is returned by estimator construction when the
	// backing database cannot be created, opened or initialized. It is
	// fatal to construction; the caller decides whether to abort startup
	// or run without fee estimation.
	ErrDatabaseOpen = errors.New("fee estimator database open failed")

	// ErrDatabaseRead is returned when reading the persisted estimate
	// fails for a reason other than the record being absent.
	ErrDatabaseRead = errors.New("fee estimator database read failed")

	// ErrDatabaseWrite is returned by NotifyBlock when persisting a newly
	// computed estimate fails. The previous estimate remains in effect,
	// both on disk and in memory, and the caller may retry on the next
	// block.
	ErrDatabaseWrite = errors.New("fee estimator database write failed")
)
