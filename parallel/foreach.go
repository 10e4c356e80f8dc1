// Package parallel runs loop bodies on a bounded number of goroutines
package parallel

import "sync"

import "go.uber.org/multierr"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length. The errors of all
// bodies are combined.
func ForEach(length, limit int, body func(i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return nil
	}

	sem := make(chan struct{}, limit)
	errs := make([]error, length)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			errs[i] = body(i)
		}(i)
	}

	wg.Wait()
	return multierr.Combine(errs...)
}
