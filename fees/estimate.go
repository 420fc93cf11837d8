// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

import (
	"encoding/binary"
	"fmt"
)

// FeeRateEstimate is the current three-tier fee rate readout. Each tier
// is a fee rate in the chain's smallest fee unit per unit cost. The
// tiers are computed independently; no structural invariant forces
// Fast >= Medium >= Slow, though any sane fee distribution produces that
// ordering.
type FeeRateEstimate struct {
	Fast   uint64
	Medium uint64
	Slow   uint64
}

// blend combines the prior estimate with a newly sampled one, tier by
// tier, using a 50/50 floor average. The truncation is deliberate:
// repeated updates toward a fixed target may settle one unit below it,
// which is harmless at the resolution fee rates are expressed in.
func (e FeeRateEstimate) blend(sampled FeeRateEstimate) FeeRateEstimate {
	return FeeRateEstimate{
		Fast:   floorAvg(e.Fast, sampled.Fast),
		Medium: floorAvg(e.Medium, sampled.Medium),
		Slow:   floorAvg(e.Slow, sampled.Slow),
	}
}

// floorAvg returns floor((a+b)/2) without overflowing uint64.
func floorAvg(a, b uint64) uint64 {
	return a/2 + b/2 + a&b&1
}

// serializedEstimateSize is the size of an encoded FeeRateEstimate: the
// three tiers as big-endian uint64s.
const serializedEstimateSize = 24

// serializeEstimate encodes the estimate for the backing database.
func serializeEstimate(e FeeRateEstimate) []byte {
	var buf [serializedEstimateSize]byte
	dbByteOrder.PutUint64(buf[0:8], e.Fast)
	dbByteOrder.PutUint64(buf[8:16], e.Medium)
	dbByteOrder.PutUint64(buf[16:24], e.Slow)
	return buf[:]
}

// deserializeEstimate decodes an estimate previously written by
// serializeEstimate.
func deserializeEstimate(b []byte) (FeeRateEstimate, error) {
	if len(b) != serializedEstimateSize {
		return FeeRateEstimate{}, fmt.Errorf("wrong number of bytes in "+
			"stored fee rate estimate (%d)", len(b))
	}
	return FeeRateEstimate{
		Fast:   dbByteOrder.Uint64(b[0:8]),
		Medium: dbByteOrder.Uint64(b[8:16]),
		Slow:   dbByteOrder.Uint64(b[16:24]),
	}, nil
}

var dbByteOrder = binary.BigEndian
