package handlers

import (
	"github.com/bitforce/ambassador/internal/app/service/bft"
	"github.com/bitforce/ambassador/internal/app/service/billing"
	"github.com/bitforce/ambassador/internal/app/service/gamification"
	"github.com/bitforce/ambassador/internal/app/service/invite"
	"github.com/bitforce/ambassador/internal/app/service/leadservice"
	"github.com/bitforce/ambassador/internal/app/service/reconcile"
	"github.com/bitforce/ambassador/internal/app/service/referral"
	"github.com/bitforce/ambassador/internal/app/service/statistics"
	"github.com/bitforce/ambassador/internal/models"
	"github.com/bitforce/ambassador/pkg/response"
)

// Envelope types below exist for swag only; handlers build responses with
// response.OKT.

// RespProfile wraps Profile in the standard envelope.
type RespProfile struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    Profile                  `json:"data"`
}

type RespProgress struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    gamification.Progress    `json:"data"`
}

type RespActions struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    []*models.AmbassadorAction `json:"data"`
}

// RespBadges wraps the earned badges in the standard envelope.
type RespBadges struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    []*models.AmbassadorBadge `json:"data"`
}

type RespActivity struct {
	Code    response.APIResponseCode    `json:"code"`
	Message string                      `json:"message"`
	Data    gamification.ActivityResult `json:"data"`
}

type RespAward struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    gamification.AwardResult `json:"data"`
}

// RespEarnings wraps referral.Earnings in the standard envelope.
type RespEarnings struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    referral.Earnings        `json:"data"`
}

type RespInvite struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    invite.Result            `json:"data"`
}

type RespInvitations struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*models.Invitation     `json:"data"`
}

// RespBFTBalance wraps bft.Balance in the standard envelope.
type RespBFTBalance struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    bft.Balance              `json:"data"`
}

type RespBFTTransactions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    bft.TransactionPage      `json:"data"`
}

type RespBFTTransaction struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.BFTTransaction    `json:"data"`
}

// RespWalletBalance wraps bft.WalletBalance in the standard envelope.
type RespWalletBalance struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    bft.WalletBalance        `json:"data"`
}

type RespLedgerReport struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    bft.LedgerReport         `json:"data"`
}

type RespLead struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Lead              `json:"data"`
}

// RespLeads wraps a list of leads in the standard envelope.
type RespLeads struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*models.Lead           `json:"data"`
}

type RespLeadDetail struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    leadservice.LeadDetail   `json:"data"`
}

type RespRecommendations struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    []leadservice.Recommendation `json:"data"`
}

// RespCreateLeadService wraps leadservice.CreateLeadServiceResult in the standard envelope.
type RespCreateLeadService struct {
	Code    response.APIResponseCode            `json:"code"`
	Message string                              `json:"message"`
	Data    leadservice.CreateLeadServiceResult `json:"data"`
}

type RespUpdateStatus struct {
	Code    response.APIResponseCode       `json:"code"`
	Message string                         `json:"message"`
	Data    leadservice.UpdateStatusResult `json:"data"`
}

type RespProvider struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.ServiceProvider   `json:"data"`
}

// RespProviders wraps a list of service providers in the standard envelope.
type RespProviders struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    []*models.ServiceProvider `json:"data"`
}

type RespListing struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.ProviderListing   `json:"data"`
}

type RespListings struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    []*models.ProviderListing `json:"data"`
}

// RespReferralBonus wraps a referral bonus in the standard envelope.
type RespReferralBonus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.ReferralBonus     `json:"data"`
}

type RespRecurringOverride struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.RecurringOverride `json:"data"`
}

type RespReconcileReport struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reconcile.Report         `json:"data"`
}

type RespStatistic struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}

// RespWebhookOutcome wraps billing.Outcome in the standard envelope.
type RespWebhookOutcome struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    billing.Outcome          `json:"data"`
}
