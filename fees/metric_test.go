// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

import "testing"

func TestWeightedCostMetric(t *testing.T) {
	metric := NewWeightedCostMetric(ExecutionCost{
		Runtime:     1000,
		ReadCount:   100,
		ReadLength:  1000,
		WriteCount:  100,
		WriteLength: 1000,
	}, 2000)

	tests := []struct {
		name string
		cost ExecutionCost
		size uint64
		want uint64
	}{
		{
			name: "zero usage costs nothing",
			cost: ExecutionCost{},
			size: 0,
			want: 0,
		},
		{
			name: "size only",
			cost: ExecutionCost{},
			size: 200,
			want: 1000,
		},
		{
			name: "mixed dimensions",
			cost: ExecutionCost{
				Runtime:    500,
				ReadCount:  50,
				ReadLength: 100,
				WriteCount: 10,
			},
			size: 200,
			want: 5000 + 5000 + 1000 + 1000 + 1000,
		},
		{
			name: "full blocks score the full resolution per dimension",
			cost: ExecutionCost{
				Runtime:     1000,
				ReadCount:   100,
				ReadLength:  1000,
				WriteCount:  100,
				WriteLength: 1000,
			},
			size: 2000,
			want: 6 * ProportionResolution,
		},
		{
			name: "proportions truncate",
			cost: ExecutionCost{Runtime: 1},
			size: 1,
			want: 1*ProportionResolution/1000 + 1*ProportionResolution/2000,
		},
	}
	for _, test := range tests {
		got := metric.FromCostAndSize(&test.cost, test.size)
		if got != test.want {
			t.Errorf("%s: got %d want %d", test.name, got, test.want)
		}
	}

	if got := metric.FromSize(200); got != 1000 {
		t.Errorf("FromSize: got %d want %d", got, 1000)
	}
}

// An unbudgeted dimension (zero limit) contributes nothing instead of
// failing; the metric must stay total.
func TestWeightedCostMetricZeroLimits(t *testing.T) {
	metric := NewWeightedCostMetric(ExecutionCost{}, 0)

	cost := ExecutionCost{Runtime: 12345, WriteLength: 99}
	if got := metric.FromCostAndSize(&cost, 512); got != 0 {
		t.Fatalf("expected zero unit cost under zero limits, got %d", got)
	}
	if got := metric.FromSize(512); got != 0 {
		t.Fatalf("expected zero unit cost under zero size limit, got %d", got)
	}
}

func TestUnitCostMetric(t *testing.T) {
	metric := UnitCostMetric{}

	if got := metric.FromCostAndSize(&ExecutionCost{Runtime: 1 << 40}, 1<<20); got != 1 {
		t.Fatalf("FromCostAndSize: got %d want 1", got)
	}
	if got := metric.FromSize(0); got != 1 {
		t.Fatalf("FromSize: got %d want 1", got)
	}
}

func TestPayloadKindEligibility(t *testing.T) {
	tests := []struct {
		kind     PayloadKind
		str      string
		eligible bool
	}{
		{KindReward, "reward", false},
		{KindTransfer, "transfer", true},
		{KindContractCall, "contract-call", true},
		{KindContractDeploy, "contract-deploy", true},
		{PayloadKind(0xff), "unknown", true},
	}
	for _, test := range tests {
		if got := test.kind.String(); got != test.str {
			t.Errorf("String(%d): got %q want %q", test.kind, got, test.str)
		}
		if got := test.kind.EligibleForFeeEstimation(); got != test.eligible {
			t.Errorf("EligibleForFeeEstimation(%s): got %v want %v",
				test.kind, got, test.eligible)
		}
	}
}
