package counter

import (
	"sync"
	"testing"
)

func TestCounterConcurrent(t *testing.T) {
	const goroutines = 16
	const each = 10000

	var c Counter
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				c.Incr()
			}
		}()
	}
	wg.Wait()
	if c.Load() != goroutines*each {
		t.Fatal("lost increments, got", c.Load())
	}

	c.Sub(goroutines * each)
	if c.Load() != 0 {
		t.Fatal("Sub must subtract a positive count")
	}
	if !c.Cas(0, 7) || c.Load() != 7 {
		t.Fatal("Cas must swap on match")
	}
	if c.Cas(0, 9) {
		t.Fatal("Cas must fail on mismatch")
	}
	c.Store(0)
}
