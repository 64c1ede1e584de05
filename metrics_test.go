package rawio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordRead(100, 2*time.Millisecond, nil)
			m.RecordWrite(50, 4*time.Millisecond, nil)
		}()
	}
	wg.Wait()

	m.RecordRead(0, 2*time.Millisecond, errors.New("boom"))
	m.RecordWrite(7, 4*time.Millisecond, errors.New("short"))

	stats := m.GetStats()
	assert.Equal(t, int64(11), stats.ReadCount)
	assert.Equal(t, int64(1), stats.ReadErrors)
	assert.Equal(t, int64(1000), stats.ReadBytes)
	assert.Equal(t, (2 * time.Millisecond).Nanoseconds(), stats.ReadAvgNanos)
	assert.Equal(t, int64(11), stats.WriteCount)
	assert.Equal(t, int64(1), stats.WriteErrors)
	assert.Equal(t, int64(507), stats.WriteBytes)
	assert.Equal(t, (4 * time.Millisecond).Nanoseconds(), stats.WriteAvgNanos)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	stats := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, stats.ReadAvgNanos)
	assert.Zero(t, stats.WriteAvgNanos)
}

func TestOptions_NilFallbacks(t *testing.T) {
	o := applyOptions([]Option{WithLogger(nil), WithMetricsCollector(nil), WithFileSystem(nil), nil})
	assert.NotNil(t, o.logger)
	assert.Equal(t, NoopMetricsCollector{}, o.metricsCollector)
	assert.NotNil(t, o.fs)
	assert.Equal(t, DefaultPerm, o.perm)
}
