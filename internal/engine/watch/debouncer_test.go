package watch_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bowersync/internal/engine/watch"
)

type batchRecorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *batchRecorder) record(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
}

func (r *batchRecorder) get() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches
}

func TestDebouncer_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec batchRecorder
		d := watch.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/bower.json")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/project/bower.json"}}, rec.get())
	})
}

func TestDebouncer_CoalescesAndSorts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec batchRecorder
		d := watch.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/bower_components/jquery/.bower.json")
		d.Add("/project/bower.json")
		d.Add("/project/bower.json")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{
			"/project/bower.json",
			"/project/bower_components/jquery/.bower.json",
		}}, rec.get())
	})
}

func TestDebouncer_WindowRestartsOnAdd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec batchRecorder
		d := watch.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/a")
		time.Sleep(60 * time.Millisecond)
		d.Add("/project/b")
		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, rec.get(), "window should restart on every add")

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/project/a", "/project/b"}}, rec.get())
	})
}

func TestDebouncer_SeparateBatches(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec batchRecorder
		d := watch.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/a")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		d.Add("/project/b")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/project/a"}, {"/project/b"}}, rec.get())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec batchRecorder
		d := watch.NewDebouncer(time.Second, rec.record)

		d.Add("/project/a")
		d.Flush()

		require.Equal(t, [][]string{{"/project/a"}}, rec.get(), "flush delivers synchronously")

		time.Sleep(2 * time.Second)
		synctest.Wait()

		assert.Len(t, rec.get(), 1, "timer must not deliver the flushed paths again")
	})
}

func TestDebouncer_FlushEmpty(t *testing.T) {
	var rec batchRecorder
	d := watch.NewDebouncer(time.Second, rec.record)

	d.Flush()

	assert.Empty(t, rec.get())
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var rec batchRecorder
		d := watch.NewDebouncer(100*time.Millisecond, rec.record)

		d.Add("/project/a")
		d.Stop()

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, rec.get())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watch.NewDebouncer(100*time.Millisecond, nil)

		require.NotPanics(t, func() {
			d.Add("/project/a")
			time.Sleep(150 * time.Millisecond)
			synctest.Wait()
			d.Add("/project/b")
			d.Flush()
		})
	})
}
