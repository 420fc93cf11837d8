package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuiteEngine runs the conformance tests every storage engine backend
// must pass. Backends call it from their own test files with a factory
// producing a fresh, empty engine.
func TestSuiteEngine(t *testing.T, new func() Engine) {
	t.Run("GetMissingKey", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		defer snapshot.Release()

		has, err := snapshot.Has([]byte("missing"))
		require.NoErrorf(t, err, "failed to check missing key")
		require.Falsef(t, has, "expected missing key to not exist")

		_, err = snapshot.Get([]byte("missing"))
		require.ErrorIsf(t, err, ErrKeyNotFound,
			"expected ErrKeyNotFound for missing key")
	})

	t.Run("CommitVisibility", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")

		key := []byte("key1")
		value := []byte("value1")
		err = tx.Put(key, value)
		require.NoErrorf(t, err, "failed to put data into transaction")

		// An uncommitted write must not be visible to snapshots.
		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		_, err = snapshot.Get(key)
		require.ErrorIsf(t, err, ErrKeyNotFound,
			"uncommitted write leaked into snapshot")
		snapshot.Release()

		err = tx.Commit()
		require.NoErrorf(t, err, "failed to commit transaction")

		snapshot, err = engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		gotValue, err := snapshot.Get(key)
		require.NoErrorf(t, err, "failed to get value after commit")
		require.Equalf(t, value, gotValue, "snapshot value mismatch")
		snapshot.Release()
	})

	t.Run("UpsertReplacesRecord", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		key := []byte("record")
		for _, value := range [][]byte{
			[]byte("generation1"),
			[]byte("generation2"),
			[]byte("g3"),
		} {
			tx, err := engine.Transaction()
			require.NoErrorf(t, err, "failed to create transaction")
			require.NoErrorf(t, tx.Put(key, value), "failed to put record")
			require.NoErrorf(t, tx.Commit(), "failed to commit record")

			snapshot, err := engine.Snapshot()
			require.NoErrorf(t, err, "failed to create snapshot")
			gotValue, err := snapshot.Get(key)
			require.NoErrorf(t, err, "failed to read record back")
			require.Equalf(t, value, gotValue, "record not replaced")
			snapshot.Release()
		}
	})

	t.Run("DiscardDropsWrites", func(t *testing.T) {
		engine := new()
		defer engine.Close()

		tx, err := engine.Transaction()
		require.NoErrorf(t, err, "failed to create transaction")
		require.NoErrorf(t, tx.Put([]byte("key"), []byte("value")),
			"failed to put data into transaction")
		tx.Discard()

		snapshot, err := engine.Snapshot()
		require.NoErrorf(t, err, "failed to create snapshot")
		defer snapshot.Release()
		_, err = snapshot.Get([]byte("key"))
		require.ErrorIsf(t, err, ErrKeyNotFound,
			"discarded write became visible")
	})

	t.Run("Iterator", func(t *testing.T) {
		for _, test := range []struct {
			name      string
			kvs       map[string]string
			ranges    *Range
			expectkvs [][2]string
		}{
			{
				name:      "empty range below keys",
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key0"), Limit: []byte("key1")},
				expectkvs: nil,
			},
			{
				name:      "half-open range",
				kvs:       map[string]string{"key1": "value1", "key2": "value2", "key3": "value3"},
				ranges:    &Range{Start: []byte("key1"), Limit: []byte("key3")},
				expectkvs: [][2]string{{"key1", "value1"}, {"key2", "value2"}},
			},
			{
				name:      "prefix range",
				kvs:       map[string]string{"rateEstimate": "abc", "version": "1"},
				ranges:    BytesPrefix([]byte("rate")),
				expectkvs: [][2]string{{"rateEstimate", "abc"}},
			},
			{
				name:      "unbounded above",
				kvs:       map[string]string{"key1": "value1", "key2": "value2"},
				ranges:    &Range{Start: []byte("key2")},
				expectkvs: [][2]string{{"key2", "value2"}},
			},
		} {
			t.Run(test.name, func(t *testing.T) {
				engine := new()
				defer engine.Close()

				tx, err := engine.Transaction()
				require.NoErrorf(t, err, "failed to create transaction")
				for k, v := range test.kvs {
					require.NoErrorf(t, tx.Put([]byte(k), []byte(v)),
						"failed to put data into transaction")
				}
				require.NoErrorf(t, tx.Commit(), "failed to commit transaction")

				snapshot, err := engine.Snapshot()
				require.NoErrorf(t, err, "failed to create snapshot")
				defer snapshot.Release()

				iter := snapshot.NewIterator(test.ranges)
				var gotkvs [][2]string
				for ok := iter.First(); ok; ok = iter.Next() {
					gotkvs = append(gotkvs, [2]string{
						string(iter.Key()), string(iter.Value()),
					})
				}
				require.NoErrorf(t, iter.Error(), "iterator error")
				iter.Release()

				require.Equalf(t, test.expectkvs, gotkvs,
					"iterator walked unexpected pairs")
			})
		}
	})
}
