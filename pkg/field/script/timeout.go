package script

import (
	"fmt"
	"time"
)

// EvalTimeout is the default hard limit for evaluating one batch.
const EvalTimeout = 5 * time.Second

// batchResult passes a batch evaluation out of its goroutine.
type batchResult struct {
	values []float64
	err    error
}

// waitWithTimeout waits for a result from ch, but returns a timeout error
// if the evaluation exceeds timeout.
//
// On timeout the evaluating goroutine may still be running. It owns its
// own sandbox and a buffered channel, so it finishes on its own and its
// result is dropped.
func waitWithTimeout(ch <-chan batchResult, timeout time.Duration) ([]float64, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.values, res.err
	case <-timer.C:
		return nil, fmt.Errorf("script: evaluation timed out after %s", timeout)
	}
}
