package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/bogartqtpie/construction-inventory-web/internal/checkout"
	"github.com/bogartqtpie/construction-inventory-web/pkg/contracts"
)

type benchTally struct {
	mu        sync.Mutex
	byKind    map[checkout.Kind]int
	total     time.Duration
	succeeded int
}

func (t *benchTally) Observe(_ context.Context, o checkout.Outcome) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byKind[o.Kind]++
	if o.Kind == checkout.KindSucceeded {
		t.succeeded++
		t.total += o.Duration
	}
	return nil
}

// runBenchmark submits the same cart n times across c workers.
func runBenchmark(ctx context.Context, base checkout.Config, items []contracts.LineItem, n, c int) string {
	if n <= 0 {
		n = 1
	}
	if c <= 0 {
		c = 1
	}
	tally := &benchTally{byKind: map[checkout.Kind]int{}}
	base.Observers = append(append([]checkout.Observer(nil), base.Observers...), tally)
	s := checkout.NewSubmitter(base, discardView{}, discardView{})

	bar := progressbar.Default(int64(n), "checkout bench")
	jobs := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		jobs <- struct{}{}
	}
	close(jobs)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < c; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				if ctx.Err() != nil {
					return
				}
				s.Submit(ctx, items)
				_ = bar.Add(1)
			}
		}()
	}
	wg.Wait()
	_ = bar.Finish()
	elapsed := time.Since(start)

	avg := time.Duration(0)
	if tally.succeeded > 0 {
		avg = tally.total / time.Duration(tally.succeeded)
	}
	throughput := float64(n) / elapsed.Seconds()
	return fmt.Sprintf("succeeded=%d rejected=%d network_errors=%d avg=%s throughput=%.2f tx/s",
		tally.byKind[checkout.KindSucceeded], tally.byKind[checkout.KindRejected], tally.byKind[checkout.KindTransportFailure], avg, throughput)
}
