package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const primary = "myapp.worker.requests"

func record(name string, value string) common.MetricRecord {
	return common.MetricRecord{
		Name:       name,
		Value:      value,
		MetricType: "c",
	}
}

func TestNewMetricStore(t *testing.T) {
	t.Parallel()

	t.Run("empty primary counter should error", func(t *testing.T) {
		ms, err := NewMetricStore("")

		assert.Nil(t, ms)
		assert.True(t, ms.IsInterfaceNil())
		assert.Equal(t, errEmptyPrimaryCounter, err)
	})
	t.Run("should work", func(t *testing.T) {
		ms, err := NewMetricStore(primary)

		assert.Nil(t, err)
		assert.False(t, ms.IsInterfaceNil())
		assert.False(t, ms.IsSignaled())
		assert.Empty(t, ms.SnapshotChanged())
		assert.Empty(t, ms.CurrentAll())
	})
}

func TestMetricStore_Ingest(t *testing.T) {
	t.Parallel()

	t.Run("first observation should count as a change", func(t *testing.T) {
		t.Parallel()

		ms, _ := NewMetricStore(primary)
		err := ms.Ingest(record("a", "1"))

		assert.Nil(t, err)
		assert.Equal(t, map[string]common.NumericValue{"a": common.NewIntValue(1)}, ms.SnapshotChanged())
		assert.False(t, ms.IsSignaled())
	})
	t.Run("same value twice should not record a new change", func(t *testing.T) {
		t.Parallel()

		ms, _ := NewMetricStore(primary)
		_ = ms.Ingest(record("a", "1"))
		_ = ms.Ingest(record("b", "5"))
		ms.ResetSignal()
		before := ms.SnapshotChanged()

		_ = ms.Ingest(record("a", "1"))

		assert.Equal(t, before, ms.SnapshotChanged())
	})
	t.Run("different value should replace the change", func(t *testing.T) {
		t.Parallel()

		ms, _ := NewMetricStore(primary)
		_ = ms.Ingest(record("a", "1"))
		_ = ms.Ingest(record("a", "2.5"))

		assert.Equal(t, map[string]common.NumericValue{"a": common.NewFloatValue(2.5)}, ms.SnapshotChanged())
		current, found := ms.CurrentValue("a")
		assert.True(t, found)
		assert.Equal(t, "2.5", current.Value)
	})
	t.Run("primary counter change should raise the signal", func(t *testing.T) {
		t.Parallel()

		ms, _ := NewMetricStore(primary)
		_ = ms.Ingest(record(primary, "10"))
		assert.True(t, ms.IsSignaled())

		ms.ResetSignal()
		_ = ms.Ingest(record(primary, "10"))
		assert.False(t, ms.IsSignaled())

		_ = ms.Ingest(record(primary, "11"))
		assert.True(t, ms.IsSignaled())
	})
	t.Run("non numeric value should replace current but not record a change", func(t *testing.T) {
		t.Parallel()

		ms, _ := NewMetricStore(primary)
		err := ms.Ingest(record(primary, "abc"))

		assert.ErrorIs(t, err, ErrNonNumericValue)
		assert.False(t, ms.IsSignaled())
		assert.Empty(t, ms.SnapshotChanged())
		current, found := ms.CurrentValue(primary)
		assert.True(t, found)
		assert.Equal(t, "abc", current.Value)
	})
	t.Run("non finite values should be rejected as non numeric", func(t *testing.T) {
		t.Parallel()

		ms, _ := NewMetricStore(primary)
		for _, value := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "1e400"} {
			err := ms.Ingest(record(primary, value))
			assert.ErrorIs(t, err, ErrNonNumericValue, value)
		}

		assert.False(t, ms.IsSignaled())
		assert.Empty(t, ms.SnapshotChanged())
	})
	t.Run("integers beyond float precision should stay exact", func(t *testing.T) {
		t.Parallel()

		ms, _ := NewMetricStore(primary)
		_ = ms.Ingest(record(primary, "9007199254740993"))

		changed := ms.SnapshotChanged()[primary]
		assert.True(t, changed.IsInt)
		assert.Equal(t, int64(9007199254740993), changed.Integer())
	})
}

func TestMetricStore_SnapshotAndResetSignal(t *testing.T) {
	t.Parallel()

	ms, _ := NewMetricStore(primary)
	_ = ms.Ingest(record(primary, "10"))
	_ = ms.Ingest(record("a", "1"))
	require.True(t, ms.IsSignaled())

	snapshot := ms.SnapshotAndResetSignal()
	assert.False(t, ms.IsSignaled())
	assert.Equal(t, map[string]common.NumericValue{primary: common.NewIntValue(10), "a": common.NewIntValue(1)}, snapshot)
	assert.Equal(t, snapshot, ms.SnapshotChanged())

	_ = ms.Ingest(record(primary, "11"))
	assert.True(t, ms.IsSignaled())
	assert.Equal(t, common.NewIntValue(11), ms.SnapshotAndResetSignal()[primary])
}

func TestMetricStore_SnapshotAndResetSignalConcurrentIngest(t *testing.T) {
	t.Parallel()

	ms, _ := NewMetricStore(primary)
	numIngests := 1000

	done := make(chan struct{})
	go func() {
		defer close(done)

		for i := 1; i <= numIngests; i++ {
			_ = ms.Ingest(record(primary, fmt.Sprintf("%d", i)))
		}
	}()

	// every raised signal must be matched by a value newer than the one seen in the previous snapshot
	lastSeen := int64(0)
	for {
		select {
		case <-done:
			if ms.IsSignaled() {
				lastSeen = ms.SnapshotAndResetSignal()[primary].Integer()
			}
			assert.Equal(t, int64(numIngests), lastSeen)
			return
		default:
		}

		if !ms.IsSignaled() {
			continue
		}

		value := ms.SnapshotAndResetSignal()[primary].Integer()
		assert.GreaterOrEqual(t, value, lastSeen)
		lastSeen = value
	}
}

func TestMetricStore_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	ms, _ := NewMetricStore(primary)
	_ = ms.Ingest(record("a", "1"))
	_ = ms.Ingest(record("a", "2"))

	snapshot := ms.SnapshotChanged()
	_ = ms.Ingest(record("a", "3"))
	_ = ms.Ingest(record("b", "7"))
	snapshot["c"] = common.NewIntValue(100)

	assert.Equal(t, map[string]common.NumericValue{"a": common.NewIntValue(2), "c": common.NewIntValue(100)}, snapshot)
	assert.Equal(t, map[string]common.NumericValue{"a": common.NewIntValue(3), "b": common.NewIntValue(7)}, ms.SnapshotChanged())
}

func TestMetricStore_ResetSignalKeepsChanges(t *testing.T) {
	t.Parallel()

	ms, _ := NewMetricStore(primary)
	_ = ms.Ingest(record(primary, "10"))
	_ = ms.Ingest(record(primary, "11"))
	ms.ResetSignal()

	assert.False(t, ms.IsSignaled())
	assert.Equal(t, map[string]common.NumericValue{primary: common.NewIntValue(11)}, ms.SnapshotChanged())
}

func TestMetricStore_CurrentValue(t *testing.T) {
	t.Parallel()

	ms, _ := NewMetricStore(primary)
	_, found := ms.CurrentValue("missing")
	assert.False(t, found)

	rec := record("a", "1")
	rec.Tags = []string{"worker:1"}
	_ = ms.Ingest(rec)
	rec.Tags[0] = "mutated"

	current, found := ms.CurrentValue("a")
	require.True(t, found)
	assert.Equal(t, []string{"worker:1"}, current.Tags)

	current.Tags[0] = "mutated again"
	all := ms.CurrentAll()
	assert.Equal(t, []string{"worker:1"}, all["a"].Tags)
}

func TestMetricStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ms, _ := NewMetricStore(primary)
	numWriters := 10
	numIngests := 100

	wg := sync.WaitGroup{}
	wg.Add(numWriters + 1)
	for i := 0; i < numWriters; i++ {
		go func(idx int) {
			defer wg.Done()

			for j := 0; j < numIngests; j++ {
				_ = ms.Ingest(record(fmt.Sprintf("metric%d", idx), fmt.Sprintf("%d", j)))
				_ = ms.Ingest(record(primary, fmt.Sprintf("%d", idx*numIngests+j)))
			}
		}(i)
	}
	go func() {
		defer wg.Done()

		for j := 0; j < numIngests; j++ {
			_ = ms.SnapshotChanged()
			_ = ms.SnapshotAndResetSignal()
			_ = ms.IsSignaled()
			ms.ResetSignal()
			_, _ = ms.CurrentValue(primary)
		}
	}()
	wg.Wait()

	snapshot := ms.SnapshotChanged()
	assert.Len(t, snapshot, numWriters+1)
	for i := 0; i < numWriters; i++ {
		assert.Equal(t, common.NewIntValue(int64(numIngests-1)), snapshot[fmt.Sprintf("metric%d", i)])
	}
}
