package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/service/bft"
	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/metrics"
)

type LedgerName string

const (
	LedgerPoints LedgerName = "points"
	LedgerBFT    LedgerName = "bft"
)

type Mismatch struct {
	Subject string   `json:"subject"`
	Details []string `json:"details"`
}

type Report struct {
	CheckedAt  time.Time                 `json:"checked_at"`
	Checked    map[LedgerName]int        `json:"checked"`
	Mismatches map[LedgerName][]Mismatch `json:"mismatches"`
}

func (r *Report) OK() bool {
	return lo.EveryBy(lo.Values(r.Mismatches), func(m []Mismatch) bool { return len(m) == 0 })
}

type Service struct {
	store   storage.Store
	bft     *bft.Service
	log     *zap.SugaredLogger
	metrics *metrics.Ledger
	now     func() time.Time
}

func NewService(store storage.Store, bftSvc *bft.Service, log *zap.SugaredLogger, m *metrics.Ledger) *Service {
	return &Service{store: store, bft: bftSvc, log: log, metrics: m, now: time.Now}
}

type ledgerResult struct {
	checked    int
	mismatches []Mismatch
}

// Run checks every points row against its action log and every BFT ledger
// against its running-total chain. Both ledgers are checked concurrently.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	checks := map[LedgerName]func(context.Context) (ledgerResult, error){
		LedgerPoints: s.checkPoints,
		LedgerBFT:    s.checkBFT,
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(checks))
	resChan := make(chan *lo.Entry[LedgerName, ledgerResult], len(checks))
	for name, check := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := check(ctx)
			if err != nil {
				errChan <- fmt.Errorf("reconcile %s: %w", name, err)
				return
			}
			resChan <- &lo.Entry[LedgerName, ledgerResult]{Key: name, Value: res}
		}()
	}
	wg.Wait()
	close(errChan)
	close(resChan)
	if err, ok := <-errChan; ok {
		return nil, err
	}

	report := &Report{
		CheckedAt:  s.now(),
		Checked:    map[LedgerName]int{},
		Mismatches: map[LedgerName][]Mismatch{},
	}
	for entry := range resChan {
		report.Checked[entry.Key] = entry.Value.checked
		report.Mismatches[entry.Key] = entry.Value.mismatches
	}

	lg := logctx.FromCtx(ctx, s.log)
	for name, mismatches := range report.Mismatches {
		s.metrics.SetMismatches(string(name), len(mismatches))
		for _, m := range mismatches {
			lg.Errorw("ledger_mismatch", "ledger", name, "subject", m.Subject, "details", m.Details)
		}
	}
	lg.Infow("ledger_reconciled",
		"points_checked", report.Checked[LedgerPoints], "points_mismatches", len(report.Mismatches[LedgerPoints]),
		"bft_checked", report.Checked[LedgerBFT], "bft_mismatches", len(report.Mismatches[LedgerBFT]))
	return report, nil
}

func (s *Service) checkPoints(ctx context.Context) (ledgerResult, error) {
	rows, err := s.store.ListPoints(ctx)
	if err != nil {
		return ledgerResult{}, err
	}
	res := ledgerResult{checked: len(rows)}
	for _, row := range rows {
		details, err := s.checkPointsRow(ctx, row.UserID)
		if err != nil {
			return ledgerResult{}, err
		}
		if len(details) > 0 {
			res.mismatches = append(res.mismatches, Mismatch{Subject: row.UserID, Details: details})
		}
	}
	return res, nil
}

// checkPointsRow compares the row with its action sum while holding the row
// lock awards take, so an award committing mid-run is never half seen.
func (s *Service) checkPointsRow(ctx context.Context, userID string) ([]string, error) {
	var details []string
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		p, err := tx.GetPointsForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		sum, err := tx.SumActionPoints(ctx, userID)
		if err != nil {
			return err
		}
		if sum != p.TotalPoints {
			details = append(details, fmt.Sprintf("total_points %d != action sum %d", p.TotalPoints, sum))
		}
		if want := gamification.LevelFor(p.TotalPoints); want != p.Level {
			details = append(details, fmt.Sprintf("level %d != %d for %d points", p.Level, want, p.TotalPoints))
		}
		return nil
	})
	return details, err
}

func (s *Service) checkBFT(ctx context.Context) (ledgerResult, error) {
	ids, err := s.store.ListBFTAmbassadorIDs(ctx)
	if err != nil {
		return ledgerResult{}, err
	}
	res := ledgerResult{checked: len(ids)}
	for _, id := range ids {
		report, err := s.bft.VerifyLedger(ctx, id)
		if err != nil {
			return ledgerResult{}, err
		}
		if !report.OK() {
			res.mismatches = append(res.mismatches, Mismatch{Subject: id, Details: report.Problems})
		}
	}
	return res, nil
}
