package analysis

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"

	"chess-motifs/pgn"
)

// Pool fans games out to worker goroutines. Results preserve ply order
// within each game by construction; cross-game ordering is restored by
// AnalyzeBatch, not by the pool.
type Pool struct {
	numWorkers int
	workChan   chan workItem
	resultChan chan GameReport
	wg         sync.WaitGroup
	stopFlag   int32
}

type workItem struct {
	game  *pgn.Game
	index int
}

// NewPool creates a pool with n workers (GOMAXPROCS when n < 1).
func NewPool(n int) *Pool {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		numWorkers: n,
		workChan:   make(chan workItem, n),
		resultChan: make(chan GameReport, n),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for item := range p.workChan {
		if p.IsStopped() {
			continue // Drain without analyzing.
		}
		plies, err := AnalyzeGame(item.game)
		p.resultChan <- GameReport{
			GameIndex: item.index,
			Tags:      item.game.Tags,
			Plies:     plies,
			Err:       err,
		}
	}
}

// Submit queues a game; blocks while the work buffer is full.
func (p *Pool) Submit(g *pgn.Game, index int) {
	p.workChan <- workItem{game: g, index: index}
}

// Stop makes workers drain remaining items without analyzing them.
func (p *Pool) Stop() { atomic.StoreInt32(&p.stopFlag, 1) }

// IsStopped reports whether Stop has been called.
func (p *Pool) IsStopped() bool { return atomic.LoadInt32(&p.stopFlag) != 0 }

// Close closes the work channel, waits for the workers, then closes the
// result channel.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results is the stream of completed game reports, in completion order.
func (p *Pool) Results() <-chan GameReport {
	return p.resultChan
}

// AnalyzeBatch analyzes games concurrently on workers workers and
// returns the reports sorted back into input order. A game that fails
// carries its error in its report rather than aborting the batch.
func AnalyzeBatch(games []*pgn.Game, workers int) []GameReport {
	pool := NewPool(workers)
	pool.Start()

	go func() {
		for i, g := range games {
			pool.Submit(g, i)
		}
		pool.Close()
	}()

	reports := make([]GameReport, 0, len(games))
	for rep := range pool.Results() {
		reports = append(reports, rep)
	}
	slices.SortFunc(reports, func(a, b GameReport) bool {
		return a.GameIndex < b.GameIndex
	})
	return reports
}
