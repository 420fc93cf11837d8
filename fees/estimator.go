// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/avalonsuite/avalond/database/engine"
	"github.com/avalonsuite/avalond/database/engine/leveldb"
)

const (
	// DefaultSlowPercentile is the percentile of the per-block fee rate
	// distribution sampled for the slow tier.
	DefaultSlowPercentile = 0.05

	// DefaultMediumPercentile is the percentile sampled for the medium
	// tier.
	DefaultMediumPercentile = 0.50

	// DefaultFastPercentile is the percentile sampled for the fast tier.
	DefaultFastPercentile = 0.95
)

var (
	dbKeyVersion      = []byte("version")
	dbKeyRateEstimate = []byte("rateEstimate")

	// currentDbVersion identifies the persisted record schema. A database
	// written with a different version fails to open.
	currentDbVersion = []byte{1}
)

// FeeEstimator is the capability the rest of the node consumes: learn
// from a newly confirmed block and read the current pricing tiers. The
// chain-state coordinator calls NotifyBlock exactly once per accepted
// block, in confirmation order; RateEstimates may be called at any time,
// concurrently with block processing.
type FeeEstimator interface {
	NotifyBlock(receipt *BlockReceipt) error
	RateEstimates() (FeeRateEstimate, error)
}

// EstimatorConfig stores the construction parameters of a scalar fee
// rate estimator.
type EstimatorConfig struct {
	// Metric is the cost metric strategy used to reduce transactions to
	// unit costs. Required.
	Metric CostMetric

	// DatabaseFile is the location of the estimator database. A leveldb
	// engine is opened there (created if absent) when DB is nil.
	DatabaseFile string

	// DB optionally supplies an already opened storage engine instead of
	// DatabaseFile. The estimator takes ownership and closes it on Close.
	DB engine.Engine

	// SlowPercentile, MediumPercentile and FastPercentile override the
	// sampled percentiles. Each must lie within [0, 1]. Leaving all
	// three zero selects the defaults.
	SlowPercentile   float64
	MediumPercentile float64
	FastPercentile   float64
}

// ScalarFeeRateEstimator derives the fast/medium/slow fee rate tiers
// from confirmed block history. It owns a cost metric, a persisted
// single-record store and an in-memory copy of the last known estimate.
type ScalarFeeRateEstimator struct {
	metric           CostMetric
	slowPercentile   float64
	mediumPercentile float64
	fastPercentile   float64

	db engine.Engine

	// lock guards cached. It is held only for the instant of a snapshot
	// read or swap, never across sampling or a database write, so
	// readers are not blocked behind block processing.
	lock   sync.RWMutex
	cached *FeeRateEstimate
}

var _ FeeEstimator = (*ScalarFeeRateEstimator)(nil)

// Open opens (creating if absent) the estimator database at the given
// path with the default percentiles and binds the given cost metric.
func Open(path string, metric CostMetric) (*ScalarFeeRateEstimator, error) {
	return NewEstimator(&EstimatorConfig{
		DatabaseFile: path,
		Metric:       metric,
	})
}

// NewEstimator constructs a scalar fee rate estimator from a config,
// loading any previously persisted estimate. A failure to open or
// initialize the backing database is reported as ErrDatabaseOpen.
func NewEstimator(cfg *EstimatorConfig) (*ScalarFeeRateEstimator, error) {
	if cfg.Metric == nil {
		return nil, errors.New("fee rate estimator requires a cost metric")
	}

	slow := cfg.SlowPercentile
	medium := cfg.MediumPercentile
	fast := cfg.FastPercentile
	if slow == 0 && medium == 0 && fast == 0 {
		slow = DefaultSlowPercentile
		medium = DefaultMediumPercentile
		fast = DefaultFastPercentile
	}
	for _, p := range []float64{slow, medium, fast} {
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("percentile %f out of range [0, 1]", p)
		}
	}

	db := cfg.DB
	if db == nil {
		if cfg.DatabaseFile == "" {
			return nil, errors.New("fee rate estimator requires a database " +
				"location")
		}
		var err error
		db, err = leveldb.NewDB(cfg.DatabaseFile, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
		}
	}

	est := &ScalarFeeRateEstimator{
		metric:           cfg.Metric,
		slowPercentile:   slow,
		mediumPercentile: medium,
		fastPercentile:   fast,
		db:               db,
	}
	if err := est.initDatabase(); err != nil {
		db.Close()
		return nil, err
	}
	return est, nil
}

// initDatabase stamps the schema on a fresh database and loads any
// previously persisted estimate into the cache.
func (est *ScalarFeeRateEstimator) initDatabase() error {
	snapshot, err := est.db.Snapshot()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
	}

	version, err := snapshot.Get(dbKeyVersion)
	if errors.Is(err, engine.ErrKeyNotFound) {
		snapshot.Release()

		// Fresh database. Stamp the schema version; the estimate record
		// itself is only created by the first qualifying block.
		tx, err := est.db.Transaction()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
		}
		if err := tx.Put(dbKeyVersion, currentDbVersion); err != nil {
			tx.Discard()
			return fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
		}

		log.Debug("Initialized fee estimator database")
		return nil
	} else if err != nil {
		snapshot.Release()
		return fmt.Errorf("%w: error reading version: %v", ErrDatabaseOpen, err)
	}

	if !bytes.Equal(version, currentDbVersion) {
		snapshot.Release()
		return fmt.Errorf("%w: incompatible database version %d",
			ErrDatabaseOpen, version)
	}

	raw, err := snapshot.Get(dbKeyRateEstimate)
	snapshot.Release()
	if errors.Is(err, engine.ErrKeyNotFound) {
		// Schema present but no block has produced an estimate yet.
		return nil
	} else if err != nil {
		return fmt.Errorf("%w: error reading estimate: %v", ErrDatabaseOpen,
			err)
	}

	estimate, err := deserializeEstimate(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseOpen, err)
	}
	est.cached = &estimate

	log.Debugf("Loaded fee rate estimate: fast=%d medium=%d slow=%d",
		estimate.Fast, estimate.Medium, estimate.Slow)
	return nil
}

// NotifyBlock learns from a newly confirmed block. It filters out
// transactions that do not participate in the fee market, samples the
// configured percentiles of the remaining fee rates, blends them with
// the prior estimate and durably persists the result before returning.
// A block with no fee-paying transactions is a success with no state
// change.
//
// The hosting node calls NotifyBlock sequentially, once per confirmed
// block; it must not be called concurrently with itself. Concurrent
// RateEstimates calls are safe and observe either the previous or the
// new estimate, never a partial one.
func (est *ScalarFeeRateEstimator) NotifyBlock(receipt *BlockReceipt) error {
	rates := est.eligibleFeeRates(receipt)
	if len(rates) == 0 {
		log.Debugf("Block %d carried no fee market transactions",
			receipt.Height)
		return nil
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i] < rates[j] })

	sampled := FeeRateEstimate{
		Fast:   percentileRate(rates, est.fastPercentile),
		Medium: percentileRate(rates, est.mediumPercentile),
		Slow:   percentileRate(rates, est.slowPercentile),
	}

	est.lock.RLock()
	prior := est.cached
	est.lock.RUnlock()

	next := sampled
	if prior != nil {
		next = prior.blend(sampled)
	}

	// Persist before publishing. If the write fails, the cache and the
	// stored record both keep their pre-update values.
	if err := est.writeEstimate(next); err != nil {
		return err
	}

	est.lock.Lock()
	est.cached = &next
	est.lock.Unlock()

	log.Debugf("Fee rate estimate after block %d (%d sampled txs): "+
		"fast=%d medium=%d slow=%d", receipt.Height, len(rates),
		next.Fast, next.Medium, next.Slow)
	return nil
}

// eligibleFeeRates derives the fee rate of every fee market transaction
// in the receipt, in block order.
func (est *ScalarFeeRateEstimator) eligibleFeeRates(receipt *BlockReceipt) []uint64 {
	rates := make([]uint64, 0, len(receipt.TxReceipts))
	for _, txr := range receipt.TxReceipts {
		if !txr.Kind.EligibleForFeeEstimation() {
			continue
		}

		var unitCost uint64
		if txr.Cost != nil {
			unitCost = est.metric.FromCostAndSize(txr.Cost, txr.Size)
		} else {
			unitCost = est.metric.FromSize(txr.Size)
		}
		if unitCost == 0 {
			unitCost = 1
		}

		rates = append(rates, txr.Fee/unitCost)
	}
	return rates
}

// percentileRate returns the fee rate at percentile p of the
// ascending-sorted rates, the element at index min(N-1, floor(p*N)).
// For a single sample every percentile resolves to that sample.
func percentileRate(sorted []uint64, p float64) uint64 {
	idx := int(p * float64(len(sorted)))
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// RateEstimates returns the current three-tier fee rate estimate. It
// never triggers computation; it only reads the last committed result.
// ErrNoEstimateAvailable is returned while no block has produced a
// fee-paying transaction yet.
//
// This is safe to call from multiple goroutines, concurrently with an
// in-flight NotifyBlock.
func (est *ScalarFeeRateEstimator) RateEstimates() (FeeRateEstimate, error) {
	est.lock.RLock()
	cached := est.cached
	est.lock.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	// Cold cache: verify against the store before reporting absence.
	estimate, err := est.readEstimate()
	if err != nil {
		return FeeRateEstimate{}, err
	}

	est.lock.Lock()
	if est.cached == nil {
		est.cached = &estimate
	} else {
		estimate = *est.cached
	}
	est.lock.Unlock()
	return estimate, nil
}

// readEstimate fetches the persisted estimate record.
func (est *ScalarFeeRateEstimator) readEstimate() (FeeRateEstimate, error) {
	snapshot, err := est.db.Snapshot()
	if err != nil {
		return FeeRateEstimate{}, fmt.Errorf("%w: %v", ErrDatabaseRead, err)
	}
	raw, err := snapshot.Get(dbKeyRateEstimate)
	snapshot.Release()
	if errors.Is(err, engine.ErrKeyNotFound) {
		return FeeRateEstimate{}, ErrNoEstimateAvailable
	} else if err != nil {
		return FeeRateEstimate{}, fmt.Errorf("%w: %v", ErrDatabaseRead, err)
	}

	estimate, err := deserializeEstimate(raw)
	if err != nil {
		return FeeRateEstimate{}, fmt.Errorf("%w: %v", ErrDatabaseRead, err)
	}
	return estimate, nil
}

// writeEstimate replaces the persisted estimate record in one atomic
// commit.
func (est *ScalarFeeRateEstimator) writeEstimate(e FeeRateEstimate) error {
	tx, err := est.db.Transaction()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseWrite, err)
	}
	if err := tx.Put(dbKeyRateEstimate, serializeEstimate(e)); err != nil {
		tx.Discard()
		return fmt.Errorf("%w: %v", ErrDatabaseWrite, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseWrite, err)
	}
	return nil
}

// Close closes the backing database. The estimator must not be used
// afterwards.
func (est *ScalarFeeRateEstimator) Close() error {
	est.lock.Lock()
	defer est.lock.Unlock()

	if est.db == nil {
		return nil
	}
	err := est.db.Close()
	est.db = nil
	return err
}
