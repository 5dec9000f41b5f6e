package bft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitforce/ambassador/internal/app/storage"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/errs"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/metrics"
	"github.com/bitforce/ambassador/pkg/tool"
	"github.com/bitforce/ambassador/pkg/types"
)

var (
	ErrZeroAmount          = fmt.Errorf("%w: amount must be non-zero", errs.ErrValidation)
	ErrInvalidType         = fmt.Errorf("%w: unknown bft transaction type", errs.ErrValidation)
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient bft balance", errs.ErrValidation)
	ErrAmbassadorRequired  = fmt.Errorf("%w: ambassador id is required", errs.ErrValidation)
)

// PurchasedBalanceFetcher reads the purchased (non-earned) balance held by
// the external token platform.
type PurchasedBalanceFetcher interface {
	PurchasedBalance(ctx context.Context, email string) (decimal.Decimal, error)
}

type Service struct {
	cfg      *config.Config
	store    storage.Store
	log      *zap.SugaredLogger
	platform PurchasedBalanceFetcher
	metrics  *metrics.Ledger
}

func NewService(cfg *config.Config, store storage.Store, log *zap.SugaredLogger, platform PurchasedBalanceFetcher, m *metrics.Ledger) *Service {
	return &Service{cfg: cfg, store: store, log: log, platform: platform, metrics: m}
}

type PostRequest struct {
	AmbassadorID string                   `json:"ambassador_id" binding:"required"`
	Type         types.BFTTransactionType `json:"transaction_type" binding:"required"`
	Amount       decimal.Decimal          `json:"amount"`
	Description  string                   `json:"description"`
	Reference    string                   `json:"reference"`
}

// PostTransaction appends one entry to the ambassador's ledger and moves the
// cached balance with it.
func (s *Service) PostTransaction(ctx context.Context, req PostRequest) (*models.BFTTransaction, error) {
	var out *models.BFTTransaction
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		var err error
		out, err = s.PostWithin(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.metrics.BFTPosted(string(out.TransactionType))
	logctx.FromCtx(ctx, s.log).Infow("bft_posted",
		"ambassador_id", out.AmbassadorID,
		"type", out.TransactionType,
		"amount", out.Amount.String(),
		"balance_after", out.BalanceAfter.String(),
		"sequence", out.Sequence,
	)
	return out, nil
}

// PostWithin posts inside the caller's transaction. The ambassador row lock
// serializes postings, so sequence and balance_after always extend the last
// entry.
func (s *Service) PostWithin(ctx context.Context, tx storage.Store, req PostRequest) (*models.BFTTransaction, error) {
	if req.AmbassadorID == "" {
		return nil, ErrAmbassadorRequired
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, req.Type)
	}
	if req.Amount.IsZero() {
		return nil, ErrZeroAmount
	}
	if req.Type == types.BFTTransactionTypeRedemption && req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: redemptions must be negative", errs.ErrValidation)
	}

	amb, err := tx.GetAmbassadorForUpdate(ctx, req.AmbassadorID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock ambassador %s: %w", req.AmbassadorID, err)
	}

	var seq int64
	balance := decimal.Zero
	last, err := tx.LastBFTTransaction(ctx, amb.ID)
	switch {
	case err == nil:
		seq, balance = last.Sequence, last.BalanceAfter
		if !amb.BFTBalance.Equal(balance) {
			logctx.FromCtx(ctx, s.log).Warnw("bft_cached_balance_drift",
				"ambassador_id", amb.ID, "cached", amb.BFTBalance.String(), "ledger", balance.String())
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to read last bft transaction: %w", err)
	}

	next := balance.Add(req.Amount)
	if next.IsNegative() {
		return nil, fmt.Errorf("%w: balance %s, amount %s", ErrInsufficientBalance, balance, req.Amount)
	}

	row := &models.BFTTransaction{
		ID:              tool.GenerateUUIDV7(),
		AmbassadorID:    amb.ID,
		Sequence:        seq + 1,
		TransactionType: req.Type,
		Amount:          req.Amount,
		BalanceAfter:    next,
		Description:     req.Description,
		Reference:       req.Reference,
		CreatedAt:       time.Now(),
	}
	if err := tx.CreateBFTTransaction(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to insert bft transaction: %w", err)
	}
	amb.BFTBalance = next
	if err := tx.UpdateAmbassador(ctx, amb); err != nil {
		return nil, fmt.Errorf("failed to update cached balance: %w", err)
	}
	return row, nil
}

func rewardType(actionType types.ActionType) types.BFTTransactionType {
	switch actionType {
	case types.ActionTypeMakeSale:
		return types.BFTTransactionTypeLeadSale
	case types.ActionTypeStreakBonus7, types.ActionTypeStreakBonus30:
		return types.BFTTransactionTypeStreakBonus
	default:
		return types.BFTTransactionTypeAchievement
	}
}

// PostActionReward posts the reward configured under bft.action_rewards for
// actionType. Actions without a reward, and users without an ambassador
// subscription, post nothing.
func (s *Service) PostActionReward(ctx context.Context, tx storage.Store, userID string, actionType types.ActionType, reference string) (*models.BFTTransaction, error) {
	amount, ok := s.cfg.BFT.RewardFor(actionType)
	if !ok {
		return nil, nil
	}
	amb, err := tx.GetAmbassadorByUserID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	row, err := s.PostWithin(ctx, tx, PostRequest{
		AmbassadorID: amb.ID,
		Type:         rewardType(actionType),
		Amount:       amount,
		Description:  "reward for " + string(actionType),
		Reference:    reference,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.BFTPosted(string(row.TransactionType))
	return row, nil
}

type Balance struct {
	AmbassadorID string          `json:"ambassador_id"`
	Balance      decimal.Decimal `json:"balance"`
	LastSequence int64           `json:"last_sequence"`
}

func (s *Service) GetBalance(ctx context.Context, ambassadorID string) (*Balance, error) {
	amb, err := s.store.GetAmbassador(ctx, ambassadorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ambassador: %w", err)
	}
	out := &Balance{AmbassadorID: amb.ID, Balance: amb.BFTBalance}
	last, err := s.store.LastBFTTransaction(ctx, amb.ID)
	if err == nil {
		out.LastSequence = last.Sequence
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to read last bft transaction: %w", err)
	}
	return out, nil
}

type TransactionPage struct {
	Items []*models.BFTTransaction `json:"items"`
	Total int64                    `json:"total"`
}

// ListTransactions pages the ambassador's ledger newest first.
func (s *Service) ListTransactions(ctx context.Context, ambassadorID string, from, size int) (*TransactionPage, error) {
	if size <= 0 {
		size = 20
	}
	rows, total, err := s.store.ListBFTTransactions(ctx, ambassadorID, max(from, 0), size)
	if err != nil {
		return nil, fmt.Errorf("failed to list bft transactions: %w", err)
	}
	return &TransactionPage{Items: rows, Total: total}, nil
}

type ScanRequest struct {
	Filters []*types.CommonFilter `json:"filters"`
	From    int                   `json:"from"`
	Size    int                   `json:"size"`
}

// ScanTransactions is the admin listing across all ambassadors.
func (s *Service) ScanTransactions(ctx context.Context, req *ScanRequest) (*TransactionPage, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", errs.ErrValidation)
	}
	for _, f := range req.Filters {
		if err := f.Validate(storage.BFTScanFields); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrValidation, err)
		}
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	rows, total, err := s.store.ScanBFTTransactions(ctx, types.FiltersAnd(req.Filters), max(req.From, 0), req.Size)
	if err != nil {
		return nil, err
	}
	return &TransactionPage{Items: rows, Total: total}, nil
}

type WalletBalance struct {
	Email     string          `json:"email"`
	Earned    decimal.Decimal `json:"earned"`
	Purchased decimal.Decimal `json:"purchased"`
	Total     decimal.Decimal `json:"total"`
	// Warning is set when the purchased balance could not be fetched and is
	// reported as zero.
	Warning string `json:"warning,omitempty"`
}

// GetWalletBalance combines the earned ledger balance with the purchased
// balance from the token platform. A platform failure degrades to
// purchased=0 with a warning instead of failing the read.
func (s *Service) GetWalletBalance(ctx context.Context, email string) (*WalletBalance, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", errs.ErrValidation)
	}
	amb, err := s.store.GetAmbassadorByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get ambassador: %w", err)
	}
	out := &WalletBalance{Email: email, Earned: amb.BFTBalance, Purchased: decimal.Zero}

	if s.platform == nil {
		out.Warning = "token platform is not configured; purchased balance reported as 0"
	} else if purchased, err := s.platform.PurchasedBalance(ctx, email); err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("wallet_purchased_fetch_failed", "ambassador_id", amb.ID, "err", err)
		out.Warning = "purchased balance unavailable; reported as 0"
	} else {
		out.Purchased = purchased
	}
	out.Total = out.Earned.Add(out.Purchased)
	return out, nil
}

type LedgerReport struct {
	AmbassadorID  string          `json:"ambassador_id"`
	Transactions  int             `json:"transactions"`
	LedgerBalance decimal.Decimal `json:"ledger_balance"`
	CachedBalance decimal.Decimal `json:"cached_balance"`
	Problems      []string        `json:"problems,omitempty"`
}

func (r *LedgerReport) OK() bool { return len(r.Problems) == 0 }

// VerifyLedger checks the running-total chain of the ambassador's ledger and
// that the cached balance equals the last balance_after. It reads under the
// ambassador row lock postings take.
func (s *Service) VerifyLedger(ctx context.Context, ambassadorID string) (*LedgerReport, error) {
	var (
		amb  *models.AmbassadorSubscription
		rows []*models.BFTTransaction
	)
	err := s.store.Transaction(ctx, func(tx storage.Store) error {
		var err error
		if amb, err = tx.GetAmbassadorForUpdate(ctx, ambassadorID); err != nil {
			return fmt.Errorf("failed to get ambassador: %w", err)
		}
		if rows, err = tx.ListAllBFTTransactions(ctx, ambassadorID); err != nil {
			return fmt.Errorf("failed to list bft transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	report := &LedgerReport{AmbassadorID: ambassadorID, Transactions: len(rows), CachedBalance: amb.BFTBalance}
	report.Problems, report.LedgerBalance = verifyChain(rows)
	if !report.CachedBalance.Equal(report.LedgerBalance) {
		report.Problems = append(report.Problems,
			fmt.Sprintf("cached balance %s != ledger balance %s", report.CachedBalance, report.LedgerBalance))
	}
	return report, nil
}

// verifyChain expects rows in sequence order starting at 1.
func verifyChain(rows []*models.BFTTransaction) ([]string, decimal.Decimal) {
	var problems []string
	balance := decimal.Zero
	for i, t := range rows {
		if want := int64(i + 1); t.Sequence != want {
			problems = append(problems, fmt.Sprintf("sequence %d found where %d expected", t.Sequence, want))
		}
		want := balance.Add(t.Amount)
		if !t.BalanceAfter.Equal(want) {
			problems = append(problems, fmt.Sprintf("sequence %d: balance_after %s != %s", t.Sequence, t.BalanceAfter, want))
		}
		balance = t.BalanceAfter
	}
	return problems, balance
}
