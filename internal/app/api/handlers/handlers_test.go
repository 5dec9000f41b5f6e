package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	mw "github.com/bitforce/ambassador/internal/app/api/middleware"
	"github.com/bitforce/ambassador/internal/app/service/bft"
	"github.com/bitforce/ambassador/internal/app/service/billing"
	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/service/invite"
	"github.com/bitforce/ambassador/internal/app/service/leadservice"
	"github.com/bitforce/ambassador/internal/app/service/reconcile"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/app/service/statistics"
	"github.com/bitforce/ambassador/internal/app/storage/memory"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/internal/platform/mailer"
	"github.com/bitforce/ambassador/pkg/config"
	"github.com/bitforce/ambassador/pkg/logctx"
	"github.com/bitforce/ambassador/pkg/response"
	"github.com/bitforce/ambassador/pkg/types"
)

const webhookSecret = "whsec_handlers"

type stubMailer struct{ err error }

func (m *stubMailer) Send(context.Context, mailer.Message) error { return m.err }

type testEnv struct {
	router *gin.Engine
	store  *memory.Store
	events *billing.EventLog
	mail   *stubMailer
}

// asUser stands in for the JWT middleware: the caller is taken from headers.
func asUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(logctx.KeyUserID, c.GetHeader("X-Test-User"))
		c.Set(mw.KeyEmail, c.GetHeader("X-Test-User")+"@example.com")
		role := types.RoleAmbassador
		if c.GetHeader("X-Test-Admin") == "1" {
			role = types.RoleAdmin
		}
		c.Set(mw.KeyRole, role)
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New()
	log := zap.NewNop().Sugar()
	cfg := &config.Config{
		App: config.AppConfig{PublicURL: "https://bitforce.test"},
		Referral: config.ReferralConfig{
			SignupBonus: "50.00",
			DefaultTier: "standard",
			Tiers:       map[string]config.CommissionTier{"standard": {Mode: config.CommissionModeFlat, FlatAmount: "4.00"}},
		},
		BFT:     config.BFTConfig{ActionRewards: map[string]string{"make_sale": "10"}},
		Billing: config.BillingConfig{WebhookSecret: webhookSecret, SignatureMaxSkew: 5 * time.Minute},
	}

	ledger := bft.NewService(cfg, store, log, nil, nil)
	gam := gamification.NewService(cfg, store, log, ledger, nil)
	ref := referral.NewService(cfg, store, log)
	mail := &stubMailer{}
	inv := invite.NewService(store, ref, mail, log)
	leads := leadservice.NewService(store, gam, nil, log)
	events := billing.NewEventLog(fxtest.NewLifecycle(t), store, log)
	bill := billing.NewService(cfg, store, ref, events, log)
	rec := reconcile.NewService(store, ledger, log, nil)
	stats := statistics.NewService(store)

	r := gin.New()
	RegisterHealthRoutes(r)
	api := r.Group("/api/v1")
	RegisterWebhookRoutes(api, bill)
	authed := api.Group("", asUser())
	amb := authed.Group("/ambassador")
	RegisterAmbassadorRoutes(amb, ref, gam, inv)
	RegisterWalletRoutes(amb, ref, ledger)
	RegisterLeadRoutes(authed, leads)
	RegisterAdminRoutes(authed.Group("/admin", mw.RequireRole(types.RoleAdmin)), AdminServices{
		Leads: leads, Gamification: gam, BFT: ledger, Referral: ref, Reconcile: rec, Statistics: stats,
	})
	return &testEnv{router: r, store: store, events: events, mail: mail}
}

func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	if user == "admin" {
		req.Header.Set("X-Test-Admin", "1")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) *response.APIResponse[T] {
	t.Helper()
	var res response.APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return &res
}

func mustOK[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[T](t, w)
	require.Equal(t, response.APIResponseCodeOK, res.Code, w.Body.String())
	return res.Data
}

func requireCode(t *testing.T, w *httptest.ResponseRecorder, code response.APIResponseCode) {
	t.Helper()
	require.Equal(t, code, decode[any](t, w).Code, w.Body.String())
}

func (e *testEnv) signup(t *testing.T, user, code string) *models.AmbassadorSubscription {
	t.Helper()
	p := mustOK[Profile](t, e.do(t, http.MethodPost, "/api/v1/ambassador/signup", user, SignupRequest{
		Email: user + "@example.com", FullName: "Ambassador " + user, ReferredByCode: code,
	}))
	return p.Ambassador
}

func TestRegisterRoutes_RegistersEndpoints(t *testing.T) {
	env := newTestEnv(t)
	routes := env.router.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	for _, target := range []string{
		"GET /healthz",
		"POST /api/v1/webhooks/stripe",
		"POST /api/v1/ambassador/signup",
		"GET /api/v1/ambassador/me",
		"GET /api/v1/ambassador/points",
		"GET /api/v1/ambassador/actions",
		"GET /api/v1/ambassador/badges",
		"POST /api/v1/ambassador/activity",
		"POST /api/v1/ambassador/designs",
		"GET /api/v1/ambassador/bft/balance",
		"GET /api/v1/ambassador/bft/transactions",
		"GET /api/v1/ambassador/wallet-balance",
		"GET /api/v1/ambassador/referrals",
		"POST /api/v1/ambassador/invite",
		"POST /api/v1/leads",
		"GET /api/v1/leads",
		"GET /api/v1/leads/:id",
		"GET /api/v1/leads/:id/recommendations",
		"POST /api/v1/leads/:id/services",
		"PATCH /api/v1/lead-services/:id/status",
		"POST /api/v1/admin/points/adjust",
		"POST /api/v1/admin/bft/transactions",
		"POST /api/v1/admin/bft/list_transactions",
		"POST /api/v1/admin/referral-bonuses/:id/paid",
		"POST /api/v1/admin/recurring-overrides/:id/paid",
		"GET /api/v1/admin/ledger/reconcile",
		"POST /api/v1/admin/statistics",
	} {
		require.True(t, contains(target), target)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	data := mustOK[map[string]string](t, env.do(t, http.MethodGet, "/healthz", "", nil))
	require.Equal(t, "ok", data["status"])
}

func TestSignupAndProfile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/ambassador/me", "u1", nil)
	requireCode(t, w, response.APIResponseCodeNotFound)

	amb := env.signup(t, "u1", "")
	require.NotEmpty(t, amb.ReferralCode)

	p := mustOK[Profile](t, env.do(t, http.MethodGet, "/api/v1/ambassador/me", "u1", nil))
	require.Equal(t, amb.ID, p.Ambassador.ID)
	require.Equal(t, "https://bitforce.test/join?ref="+amb.ReferralCode, p.ReferralLink)

	w = env.do(t, http.MethodPost, "/api/v1/ambassador/signup", "u1", SignupRequest{Email: "other@example.com", FullName: "Again"})
	requireCode(t, w, response.APIResponseCodeConflict)

	w = env.do(t, http.MethodPost, "/api/v1/ambassador/signup", "u2", SignupRequest{Email: "u2@example.com", FullName: "B", ReferredByCode: "NOPE"})
	requireCode(t, w, response.APIResponseCodeBadRequest)

	w = env.do(t, http.MethodPost, "/api/v1/ambassador/signup", "u2", map[string]string{"full_name": "no email"})
	requireCode(t, w, response.APIResponseCodeBadRequest)
}

func TestLeadFlow_AwardsPointsAndBFT(t *testing.T) {
	env := newTestEnv(t)
	amb := env.signup(t, "u1", "")

	lead := mustOK[models.Lead](t, env.do(t, http.MethodPost, "/api/v1/leads", "u1", leadservice.CreateLeadInput{
		FullName: "Jane Doe", Interests: []string{"solar"},
	}))

	created := mustOK[leadservice.CreateLeadServiceResult](t, env.do(t, http.MethodPost,
		"/api/v1/leads/"+lead.ID+"/services", "u1", leadservice.CreateLeadServiceInput{ServiceName: "Solar panels"}))
	require.Equal(t, types.LeadServiceStatusSuggested, created.LeadService.Status)
	require.Equal(t, int64(5), created.Award.PointsAwarded)

	statusPath := "/api/v1/lead-services/" + created.LeadService.ID + "/status"
	moved := mustOK[leadservice.UpdateStatusResult](t, env.do(t, http.MethodPatch, statusPath, "u1",
		leadservice.UpdateStatusInput{Status: types.LeadServiceStatusContacted}))
	require.True(t, moved.Changed)

	moved = mustOK[leadservice.UpdateStatusResult](t, env.do(t, http.MethodPatch, statusPath, "u1",
		leadservice.UpdateStatusInput{Status: types.LeadServiceStatusSold}))
	require.Equal(t, int64(65), moved.Award.TotalPoints)
	require.Contains(t, moved.Award.NewBadges, types.BadgeTypeFirstSale)

	w := env.do(t, http.MethodPatch, statusPath, "u1", leadservice.UpdateStatusInput{Status: types.LeadServiceStatusContacted})
	requireCode(t, w, response.APIResponseCodeBadRequest)

	w = env.do(t, http.MethodPatch, statusPath, "u2", leadservice.UpdateStatusInput{Status: types.LeadServiceStatusDeclined})
	requireCode(t, w, response.APIResponseCodeNotFound)

	progress := mustOK[gamification.Progress](t, env.do(t, http.MethodGet, "/api/v1/ambassador/points", "u1", nil))
	require.Equal(t, int64(65), progress.Points.TotalPoints)
	require.Len(t, progress.Badges, 1)

	actions := mustOK[[]*models.AmbassadorAction](t, env.do(t, http.MethodGet, "/api/v1/ambassador/actions?limit=2", "u1", nil))
	require.Len(t, actions, 2)
	require.Equal(t, types.ActionTypeMakeSale, actions[0].ActionType)

	detail := mustOK[leadservice.LeadDetail](t, env.do(t, http.MethodGet, "/api/v1/leads/"+lead.ID, "u1", nil))
	require.Len(t, detail.Services, 1)
	require.Equal(t, types.LeadServiceStatusSold, detail.Services[0].Status)

	balance := mustOK[bft.Balance](t, env.do(t, http.MethodGet, "/api/v1/ambassador/bft/balance", "u1", nil))
	require.Equal(t, amb.ID, balance.AmbassadorID)
	require.True(t, decimal.NewFromInt(10).Equal(balance.Balance), balance.Balance.String())

	wallet := mustOK[bft.WalletBalance](t, env.do(t, http.MethodGet, "/api/v1/ambassador/wallet-balance", "u1", nil))
	require.True(t, decimal.NewFromInt(10).Equal(wallet.Total))
	require.NotEmpty(t, wallet.Warning)

	page := mustOK[bft.TransactionPage](t, env.do(t, http.MethodGet, "/api/v1/ambassador/bft/transactions?size=5", "u1", nil))
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, types.BFTTransactionTypeLeadSale, page.Items[0].TransactionType)

	report := mustOK[reconcile.Report](t, env.do(t, http.MethodGet, "/api/v1/admin/ledger/reconcile", "admin", nil))
	require.Empty(t, report.Mismatches)
}

func TestActivityAndDesigns(t *testing.T) {
	env := newTestEnv(t)

	first := mustOK[gamification.ActivityResult](t, env.do(t, http.MethodPost, "/api/v1/ambassador/activity", "u1", nil))
	require.True(t, first.Changed)
	again := mustOK[gamification.ActivityResult](t, env.do(t, http.MethodPost, "/api/v1/ambassador/activity", "u1", nil))
	require.False(t, again.Changed)

	award := mustOK[gamification.AwardResult](t, env.do(t, http.MethodPost, "/api/v1/ambassador/designs", "u1", nil))
	require.Equal(t, int64(15), award.PointsAwarded)
	require.Equal(t, int64(17), award.TotalPoints)

	badges := mustOK[[]*models.AmbassadorBadge](t, env.do(t, http.MethodGet, "/api/v1/ambassador/badges", "u1", nil))
	require.Len(t, badges, 1)
	require.Equal(t, types.BadgeTypeFirstDesign, badges[0].BadgeType)

	w := env.do(t, http.MethodGet, "/api/v1/ambassador/actions?limit=x", "u1", nil)
	requireCode(t, w, response.APIResponseCodeBadRequest)
}

func TestCatalogAndRecommendations(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/admin/providers", "u1", leadservice.CreateProviderInput{Name: "Sunny"})
	require.Equal(t, http.StatusForbidden, w.Code)
	requireCode(t, w, response.APIResponseCodeForbidden)

	provider := mustOK[models.ServiceProvider](t, env.do(t, http.MethodPost, "/api/v1/admin/providers", "admin",
		leadservice.CreateProviderInput{Name: "Sunny"}))
	listing := mustOK[models.ProviderListing](t, env.do(t, http.MethodPost, "/api/v1/admin/listings", "admin",
		leadservice.CreateListingInput{ProviderID: provider.ID, Title: "Solar install", Category: "solar", Keywords: []string{"panels"}}))
	mustOK[models.ProviderListing](t, env.do(t, http.MethodPost, "/api/v1/admin/listings", "admin",
		leadservice.CreateListingInput{ProviderID: provider.ID, Title: "Gutter cleaning", Category: "home"}))

	listings := mustOK[[]*models.ProviderListing](t, env.do(t, http.MethodGet, "/api/v1/admin/listings", "admin", nil))
	require.Len(t, listings, 2)

	lead := mustOK[models.Lead](t, env.do(t, http.MethodPost, "/api/v1/leads", "u1", leadservice.CreateLeadInput{
		FullName: "Jane", Interests: []string{"solar panels"},
	}))
	recs := mustOK[[]leadservice.Recommendation](t, env.do(t, http.MethodGet, "/api/v1/leads/"+lead.ID+"/recommendations", "u1", nil))
	require.Len(t, recs, 1)
	require.Equal(t, listing.ID, recs[0].Listing.ID)

	created := mustOK[leadservice.CreateLeadServiceResult](t, env.do(t, http.MethodPost,
		"/api/v1/leads/"+lead.ID+"/services", "u1", leadservice.CreateLeadServiceInput{ListingID: &listing.ID}))
	require.Equal(t, "Solar install", created.LeadService.ServiceName)

	recs = mustOK[[]leadservice.Recommendation](t, env.do(t, http.MethodGet, "/api/v1/leads/"+lead.ID+"/recommendations", "u1", nil))
	require.Empty(t, recs)

	leads := mustOK[[]*models.Lead](t, env.do(t, http.MethodGet, "/api/v1/leads", "u2", nil))
	require.Empty(t, leads)
}

func TestAdminPointsAndBFT(t *testing.T) {
	env := newTestEnv(t)
	amb := env.signup(t, "u1", "")

	award := mustOK[gamification.AwardResult](t, env.do(t, http.MethodPost, "/api/v1/admin/points/adjust", "admin",
		AdjustPointsRequest{UserID: "u1", Delta: 120, Reason: "migration"}))
	require.Equal(t, int64(120), award.TotalPoints)
	require.Equal(t, 2, award.Level)

	w := env.do(t, http.MethodPost, "/api/v1/admin/points/adjust", "admin", map[string]any{"user_id": "u1", "reason": "x"})
	requireCode(t, w, response.APIResponseCodeBadRequest)

	row := mustOK[models.BFTTransaction](t, env.do(t, http.MethodPost, "/api/v1/admin/bft/transactions", "admin", map[string]any{
		"ambassador_id": amb.ID, "transaction_type": "admin_adjustment", "amount": "12.5", "description": "grant",
	}))
	require.Equal(t, int64(1), row.Sequence)
	require.True(t, decimal.RequireFromString("12.5").Equal(row.BalanceAfter))

	w = env.do(t, http.MethodPost, "/api/v1/admin/bft/transactions", "admin", map[string]any{
		"ambassador_id": amb.ID, "transaction_type": "redemption", "amount": "-20",
	})
	requireCode(t, w, response.APIResponseCodeBadRequest)

	page := mustOK[bft.TransactionPage](t, env.do(t, http.MethodPost, "/api/v1/admin/bft/list_transactions", "admin", bft.ScanRequest{
		Filters: []*types.CommonFilter{{Field: "ambassador_id", Operator: types.CommonFilterOperatorEq, Values: []any{amb.ID}}},
		Size:    10,
	}))
	require.EqualValues(t, 1, page.Total)

	report := mustOK[bft.LedgerReport](t, env.do(t, http.MethodGet, "/api/v1/admin/ambassadors/"+amb.ID+"/ledger", "admin", nil))
	require.Empty(t, report.Problems)
}

func TestAdminStatistics(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "u1", "")
	env.signup(t, "u2", "")

	w := env.do(t, http.MethodPost, "/api/v1/admin/statistics", "u1", statistics.StatisticRequest{
		DataItems: []*statistics.StatisticDataItem{{ID: statistics.StatisticTypeDailySignupCount}},
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	res := mustOK[statistics.StatisticResponse](t, env.do(t, http.MethodPost, "/api/v1/admin/statistics", "admin", statistics.StatisticRequest{
		Days:      7,
		DataItems: []*statistics.StatisticDataItem{{ID: statistics.StatisticTypeDailySignupCount}},
	}))
	signups := res.DataItems[statistics.StatisticTypeDailySignupCount]
	require.Len(t, signups, 1)
	require.Equal(t, time.Now().UTC().Format(time.DateOnly), signups[0].Date)
	require.Equal(t, "2", signups[0].Value.String())

	w = env.do(t, http.MethodPost, "/api/v1/admin/statistics", "admin", statistics.StatisticRequest{
		DataItems: []*statistics.StatisticDataItem{{ID: "gmv"}},
	})
	requireCode(t, w, response.APIResponseCodeBadRequest)
}

func stripeEvent(id, referredID string) []byte {
	return fmt.Appendf(nil, `{"id":%q,"type":"checkout.session.completed","created":%d,
		"data":{"object":{"customer":"cus_X","subscription":"sub_X","metadata":{"purpose":"signup_fee","ambassador_id":%q}}}}`,
		id, time.Now().Unix(), referredID)
}

func (e *testEnv) webhook(t *testing.T, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	e.events.Wait()
	return w
}

func TestStripeWebhook_BonusAndPayout(t *testing.T) {
	env := newTestEnv(t)
	referrer := env.signup(t, "u1", "")
	referred := env.signup(t, "u2", referrer.ReferralCode)

	payload := stripeEvent("evt_1", referred.ID)
	w := env.webhook(t, payload, billing.SignatureHeader(payload, webhookSecret, time.Now()))
	out := mustOK[billing.Outcome](t, w)
	require.False(t, out.Ignored)

	earnings := mustOK[referral.Earnings](t, env.do(t, http.MethodGet, "/api/v1/ambassador/referrals", "u1", nil))
	require.Equal(t, 1, earnings.ReferredCount)
	require.Len(t, earnings.Bonuses, 1)
	require.True(t, decimal.NewFromInt(50).Equal(earnings.PendingTotal))

	paid := mustOK[models.ReferralBonus](t, env.do(t, http.MethodPost,
		"/api/v1/admin/referral-bonuses/"+earnings.Bonuses[0].ID+"/paid", "admin", nil))
	require.Equal(t, types.CommissionStatusPaid, paid.Status)

	earnings = mustOK[referral.Earnings](t, env.do(t, http.MethodGet, "/api/v1/ambassador/referrals", "u1", nil))
	require.True(t, decimal.NewFromInt(50).Equal(earnings.PaidTotal))
	require.True(t, earnings.PendingTotal.IsZero())

	w = env.do(t, http.MethodPost, "/api/v1/admin/recurring-overrides/missing/paid", "admin", nil)
	requireCode(t, w, response.APIResponseCodeNotFound)
}

func TestStripeWebhook_StatusCodes(t *testing.T) {
	env := newTestEnv(t)

	payload := stripeEvent("evt_bad_sig", "amb-x")
	w := env.webhook(t, payload, billing.SignatureHeader(payload, "wrong", time.Now()))
	require.Equal(t, http.StatusBadRequest, w.Code)
	requireCode(t, w, response.APIResponseCodeUnauthorized)
	require.Empty(t, env.store.BillingEventLogs())

	garbage := []byte(`not json`)
	w = env.webhook(t, garbage, billing.SignatureHeader(garbage, webhookSecret, time.Now()))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.webhook(t, payload, billing.SignatureHeader(payload, webhookSecret, time.Now()))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	requireCode(t, w, response.APIResponseCodeNotFound)

	renewal := fmt.Appendf(nil, `{"id":"evt_renewal","type":"invoice.payment_succeeded","created":%d,
		"data":{"object":{"customer":"cus_other","billing_reason":"subscription_cycle","amount_paid":1999,
		"lines":{"data":[{"period":{"start":%d}}]}}}}`, time.Now().Unix(), time.Now().Unix())
	w = env.webhook(t, renewal, billing.SignatureHeader(renewal, webhookSecret, time.Now()))
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, mustOK[billing.Outcome](t, w).Ignored)

	env.store.FailOn("GetAmbassadorByStripeCustomerID", errors.New("connection reset"))
	w = env.webhook(t, renewal, billing.SignatureHeader(renewal, webhookSecret, time.Now()))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	requireCode(t, w, response.APIResponseCodeError)
	env.store.FailOn("GetAmbassadorByStripeCustomerID", nil)

	large := bytes.Repeat([]byte(" "), maxWebhookBody+1)
	w = env.webhook(t, large, billing.SignatureHeader(large, webhookSecret, time.Now()))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	requireCode(t, w, response.APIResponseCodeBadRequest)

	ignored := fmt.Appendf(nil, `{"id":"evt_other","type":"customer.created","created":%d,"data":{"object":{}}}`, time.Now().Unix())
	w = env.webhook(t, ignored, billing.SignatureHeader(ignored, webhookSecret, time.Now()))
	require.True(t, mustOK[billing.Outcome](t, w).Ignored)
}

func TestInvite(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/ambassador/invite", "u1", invite.Input{Email: "friend@example.com"})
	requireCode(t, w, response.APIResponseCodeForbidden)

	env.signup(t, "u1", "")
	res := mustOK[invite.Result](t, env.do(t, http.MethodPost, "/api/v1/ambassador/invite", "u1", invite.Input{Email: "friend@example.com", Name: "Friend"}))
	require.Equal(t, types.InvitationStatusSent, res.Invitation.Status)
	require.Empty(t, res.Warning)

	env.mail.err = errors.New("smtp down")
	res = mustOK[invite.Result](t, env.do(t, http.MethodPost, "/api/v1/ambassador/invite", "u1", invite.Input{Email: "other@example.com"}))
	require.Equal(t, types.InvitationStatusFailed, res.Invitation.Status)
	require.NotEmpty(t, res.Warning)

	list := mustOK[[]*models.Invitation](t, env.do(t, http.MethodGet, "/api/v1/ambassador/invitations", "u1", nil))
	require.Len(t, list, 2)

	w = env.do(t, http.MethodPost, "/api/v1/ambassador/invite", "u1", invite.Input{Email: "not-an-email"})
	requireCode(t, w, response.APIResponseCodeBadRequest)
}
