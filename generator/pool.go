package generator

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/geosims/outbreak/telemetry"
)

// Result is one locality's outcome from a batch.
type Result struct {
	Locality Locality
	Record   telemetry.RunRecord
	Err      error
}

// GenerateAll runs every locality on a bounded worker pool. Each run
// owns its field, agents and random stream, so the only coordination
// is collecting results, which land at the same index as their
// locality. A failed locality does not stop the rest.
func (g *Generator) GenerateAll(locs []Locality, workers int) []Result {
	if workers <= 0 {
		workers = g.cfg.Workers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(locs) {
		workers = len(locs)
	}

	results := make([]Result, len(locs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				loc := locs[idx]
				rec, err := g.Generate(loc)
				if err != nil {
					slog.Error("locality failed", "locality", loc.Locality, "error", err)
				}
				results[idx] = Result{Locality: loc, Record: rec, Err: err}
			}
		}()
	}

	for idx := range locs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}
