// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package fees provides avalond's scalar fee rate estimation for new
transactions, derived purely from confirmed block history.

The estimator keeps three pricing tiers (fast, medium and slow), each
tracking a different percentile of the fee rates paid by the transactions
of recently confirmed blocks. Wallets pick the tier matching how quickly
they want a transaction mined; the node itself may consult the same tiers
for admission heuristics.

# Outline of the algorithm

For every confirmed block the chain-state coordinator hands the estimator
the block's transaction receipts. The estimator then:

  - drops receipts that do not participate in the fee market (block
    reward transactions);
  - reduces each remaining transaction's execution cost and size to a
    single unit cost through a pluggable CostMetric, and divides the fee
    paid by that unit cost to obtain the transaction's fee rate;
  - sorts the fee rates and samples the 5th, 50th and 95th percentiles
    as the slow, medium and fast readings for this block;
  - blends each reading with the previous estimate tier using a 50/50
    integer average, smoothing out block-to-block noise;
  - durably persists the new estimate before acknowledging the block.

Blocks with no fee-paying transactions leave the estimate untouched.

The persisted state is a single record in an embedded key/value store,
accessed through the database/engine abstraction, so the estimator
survives node restarts and works over any supported storage engine.

Estimates are read through RateEstimates, which is safe to call
concurrently with block processing and always returns a complete
three-tier snapshot.
*/
package fees
