// Copyright (c) 2025 The Avalon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Tool dumpfeedb prints the persisted state of an avalond fee estimator
// database so that it can be externally inspected.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btclog"
	flags "github.com/jessevdk/go-flags"

	"github.com/avalonsuite/avalond/database/engine"
	"github.com/avalonsuite/avalond/database/engine/leveldb"
	"github.com/avalonsuite/avalond/database/engine/pebbledb"
	"github.com/avalonsuite/avalond/fees"
)

type config struct {
	DB     string `short:"b" long:"db" description:"Path to fee database"`
	Pebble bool   `long:"pebble" description:"Open the database with the pebble engine instead of leveldb"`
	Raw    bool   `long:"raw" description:"Also dump the raw database records"`
	Debug  bool   `short:"d" long:"debug" description:"Enable debug log output"`
}

func dumpRawRecords(db engine.Engine) error {
	snapshot, err := db.Snapshot()
	if err != nil {
		return err
	}
	defer snapshot.Release()

	iter := snapshot.NewIterator(&engine.Range{})
	defer iter.Release()
	for ok := iter.First(); ok; ok = iter.Next() {
		fmt.Printf("%q: %s\n", iter.Key(), hex.EncodeToString(iter.Value()))
	}
	return iter.Error()
}

func realMain() error {
	cfg := config{
		DB: filepath.Join(btcutil.AppDataDir("avalond", false), "data",
			"mainnet", "feesdb"),
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil
	}

	if cfg.Debug {
		backend := btclog.NewBackend(os.Stderr)
		logger := backend.Logger("FEES")
		logger.SetLevel(btclog.LevelDebug)
		fees.UseLogger(logger)
	}

	var db engine.Engine
	var err error
	if cfg.Pebble {
		db, err = pebbledb.NewDB(cfg.DB, false, 0, 0)
	} else {
		db, err = leveldb.NewDB(cfg.DB, false)
	}
	if err != nil {
		return err
	}

	if cfg.Raw {
		if err := dumpRawRecords(db); err != nil {
			db.Close()
			return err
		}
	}

	// The metric plays no part in reading back a persisted estimate, so
	// the unit metric suffices here.
	est, err := fees.NewEstimator(&fees.EstimatorConfig{
		DB:     db,
		Metric: fees.UnitCostMetric{},
	})
	if err != nil {
		return err
	}
	defer est.Close()

	estimate, err := est.RateEstimates()
	if errors.Is(err, fees.ErrNoEstimateAvailable) {
		fmt.Println("no fee rate estimate recorded yet")
		return nil
	} else if err != nil {
		return err
	}

	fmt.Printf("fast:   %d\nmedium: %d\nslow:   %d\n",
		estimate.Fast, estimate.Medium, estimate.Slow)
	return nil
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
