package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/openboard/api/internal/model"
	"github.com/openboard/api/internal/service"
)

// Ingester runs a single ingestion for a query and location pair
type Ingester interface {
	Ingest(ctx context.Context, req model.IngestRequest) (*model.IngestResult, error)
}

// SweepConfig holds scheduled sweep settings
type SweepConfig struct {
	Schedule    string   // cron spec, e.g. "@weekly"
	Terms       []string // search terms, crossed with Regions
	Regions     []string
	MaxPages    int // pages fetched per term/region pair
	MaxAPICalls int // sweep-wide API call budget, 0 means unlimited
	Timeout     time.Duration
}

// SweepTotals accumulates results across all term/region pairs of one run
type SweepTotals struct {
	PairsRun     int
	PairsSkipped int
	PairsFailed  int
	Inserted     int
	Duplicates   int
	Total        int
	APICallsUsed int
}

// Sweep periodically walks the term/region matrix and ingests each pair
type Sweep struct {
	ingester Ingester
	cfg      SweepConfig
	cron     *cron.Cron
	entryID  cron.EntryID
	running  bool
	mu       sync.Mutex
}

// NewSweep creates a new sweep job
func NewSweep(ingester Ingester, cfg SweepConfig) *Sweep {
	if cfg.Schedule == "" {
		cfg.Schedule = "@weekly"
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &Sweep{
		ingester: ingester,
		cfg:      cfg,
		cron:     cron.New(),
	}
}

// Start schedules the sweep
func (s *Sweep) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, s.runScheduled)
	if err != nil {
		return err
	}
	s.entryID = entryID
	s.cron.Start()
	s.running = true

	slog.Info("sweep scheduled",
		"schedule", s.cfg.Schedule,
		"terms", len(s.cfg.Terms),
		"regions", len(s.cfg.Regions),
	)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *Sweep) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("sweep stopped")
}

// IsRunning returns whether the sweep is scheduled
func (s *Sweep) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sweep) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	totals := s.RunOnce(ctx)
	slog.Info("sweep finished",
		"pairs_run", totals.PairsRun,
		"pairs_skipped", totals.PairsSkipped,
		"pairs_failed", totals.PairsFailed,
		"inserted", totals.Inserted,
		"duplicates", totals.Duplicates,
		"total", totals.Total,
		"api_calls_used", totals.APICallsUsed,
	)
}

// RunOnce walks the full term/region matrix once. A failing pair is
// logged and skipped so the rest of the matrix still runs. When the
// API call budget is exhausted the remaining pairs are abandoned.
func (s *Sweep) RunOnce(ctx context.Context) SweepTotals {
	var totals SweepTotals

	for _, term := range s.cfg.Terms {
		for _, region := range s.cfg.Regions {
			if ctx.Err() != nil {
				slog.Warn("sweep aborted", "reason", ctx.Err())
				return totals
			}
			if s.cfg.MaxAPICalls > 0 && totals.APICallsUsed >= s.cfg.MaxAPICalls {
				slog.Info("sweep API call budget exhausted",
					"budget", s.cfg.MaxAPICalls,
					"used", totals.APICallsUsed,
				)
				return totals
			}

			result, err := s.ingester.Ingest(ctx, model.IngestRequest{
				Query:     term,
				Location:  region,
				PageCount: s.cfg.MaxPages,
			})
			if err != nil {
				if errors.Is(err, service.ErrIngestInProgress) {
					totals.PairsSkipped++
					slog.Info("sweep pair already running, skipping", "query", term, "location", region)
					continue
				}
				totals.PairsFailed++
				slog.Error("sweep pair failed", "query", term, "location", region, "error", err)
				continue
			}

			totals.PairsRun++
			totals.Inserted += result.Inserted
			totals.Duplicates += result.Duplicates
			totals.Total += result.Total
			totals.APICallsUsed += result.APICallsUsed
		}
	}

	return totals
}
