// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

// PayloadKind identifies what a confirmed transaction carried. The
// estimator only needs enough resolution to tell fee-market transactions
// apart from protocol-issued ones.
type PayloadKind byte

const (
	// KindReward is the block reward (coinbase) transaction. It pays no
	// market fee and is excluded from estimation.
	KindReward PayloadKind = iota

	// KindTransfer is a plain value transfer with no execution profile.
	KindTransfer

	// KindContractCall is a call into a deployed contract.
	KindContractCall

	// KindContractDeploy publishes a new contract.
	KindContractDeploy
)

// String returns the payload kind as a human-readable string.
func (k PayloadKind) String() string {
	switch k {
	case KindReward:
		return "reward"
	case KindTransfer:
		return "transfer"
	case KindContractCall:
		return "contract-call"
	case KindContractDeploy:
		return "contract-deploy"
	}
	return "unknown"
}

// EligibleForFeeEstimation reports whether transactions of this kind
// participate in the fee market. Only reward transactions are excluded;
// every other kind competes for block space with a real fee attached.
func (k PayloadKind) EligibleForFeeEstimation() bool {
	return k != KindReward
}

// TxReceipt is the per-transaction record of a confirmed block consumed
// by the estimator. Cost is nil for transactions without an execution
// profile (plain value transfers), in which case only the serialized
// size feeds the cost metric.
type TxReceipt struct {
	Kind PayloadKind
	Fee  uint64
	Size uint64
	Cost *ExecutionCost
}

// BlockReceipt is the ordered list of transaction receipts for one
// confirmed block. Height is informational and only used for logging.
type BlockReceipt struct {
	Height     uint64
	TxReceipts []*TxReceipt
}
