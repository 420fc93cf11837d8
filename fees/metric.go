// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

// ExecutionCost is the resource usage vector the contract execution
// engine reports for a transaction. The estimator never interprets the
// individual dimensions; they only flow into a CostMetric.
type ExecutionCost struct {
	Runtime     uint64
	ReadCount   uint64
	ReadLength  uint64
	WriteCount  uint64
	WriteLength uint64
}

// CostMetric reduces a transaction's resource usage to a single
// comparable unit cost. Implementations must be pure, deterministic and
// total: any input maps to a result and no input fails.
type CostMetric interface {
	// FromCostAndSize computes the unit cost of a transaction from its
	// execution cost and serialized size in bytes.
	FromCostAndSize(cost *ExecutionCost, size uint64) uint64

	// FromSize computes the unit cost of a transaction that has no
	// execution profile from its serialized size in bytes alone.
	FromSize(size uint64) uint64
}

// ProportionResolution is the scale applied when expressing a consumed
// resource as a fraction of its block limit. One fully consumed
// dimension contributes exactly ProportionResolution to the unit cost.
const ProportionResolution = 10000

// WeightedCostMetric is the production cost metric. It scores a
// transaction by how much of each block limit it consumes: every
// execution cost dimension and the serialized size are expressed in
// ProportionResolution-ths of their respective limit and summed.
type WeightedCostMetric struct {
	// BlockLimits are the per-block execution cost budgets of the active
	// epoch.
	BlockLimits ExecutionCost

	// BlockSizeLimit is the maximum serialized block size in bytes.
	BlockSizeLimit uint64
}

var _ CostMetric = WeightedCostMetric{}

// NewWeightedCostMetric returns a metric weighting transactions against
// the given per-block execution budgets and block size limit.
func NewWeightedCostMetric(limits ExecutionCost, sizeLimit uint64) WeightedCostMetric {
	return WeightedCostMetric{
		BlockLimits:    limits,
		BlockSizeLimit: sizeLimit,
	}
}

// FromCostAndSize computes the unit cost of a transaction with an
// execution profile.
func (m WeightedCostMetric) FromCostAndSize(cost *ExecutionCost, size uint64) uint64 {
	total := m.FromSize(size)
	total += proportionOf(cost.Runtime, m.BlockLimits.Runtime)
	total += proportionOf(cost.ReadCount, m.BlockLimits.ReadCount)
	total += proportionOf(cost.ReadLength, m.BlockLimits.ReadLength)
	total += proportionOf(cost.WriteCount, m.BlockLimits.WriteCount)
	total += proportionOf(cost.WriteLength, m.BlockLimits.WriteLength)
	return total
}

// FromSize computes the unit cost of a transaction from its size alone.
func (m WeightedCostMetric) FromSize(size uint64) uint64 {
	return proportionOf(size, m.BlockSizeLimit)
}

// proportionOf expresses used as a truncated fraction of limit, scaled
// by ProportionResolution. A zero limit means the dimension is not
// budgeted this epoch and contributes nothing.
func proportionOf(used, limit uint64) uint64 {
	if limit == 0 {
		return 0
	}
	return used * ProportionResolution / limit
}

// UnitCostMetric is the trivial metric: every transaction has unit cost
// 1, making its fee rate equal to the fee paid. It is used to validate
// the estimator's sampling and blending independent of cost semantics,
// and serves as a fallback when no epoch budgets are known.
type UnitCostMetric struct{}

var _ CostMetric = UnitCostMetric{}

// FromCostAndSize always returns 1.
func (UnitCostMetric) FromCostAndSize(cost *ExecutionCost, size uint64) uint64 {
	return 1
}

// FromSize always returns 1.
func (UnitCostMetric) FromSize(size uint64) uint64 {
	return 1
}
