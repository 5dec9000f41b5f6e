package types

type AmbassadorSubscriptionStatus string

const (
	AmbassadorSubscriptionStatusInactive AmbassadorSubscriptionStatus = "inactive"
	AmbassadorSubscriptionStatusActive   AmbassadorSubscriptionStatus = "active"
	AmbassadorSubscriptionStatusPastDue  AmbassadorSubscriptionStatus = "past_due"
	AmbassadorSubscriptionStatusCanceled AmbassadorSubscriptionStatus = "canceled"
)

func (s AmbassadorSubscriptionStatus) Valid() bool {
	switch s {
	case AmbassadorSubscriptionStatusInactive, AmbassadorSubscriptionStatusActive,
		AmbassadorSubscriptionStatusPastDue, AmbassadorSubscriptionStatusCanceled:
		return true
	}
	return false
}

// CommissionStatus is shared by referral bonuses and recurring overrides.
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

type InvitationStatus string

const (
	InvitationStatusRecorded InvitationStatus = "recorded"
	InvitationStatusSent     InvitationStatus = "sent"
	InvitationStatusFailed   InvitationStatus = "failed"
)

type Role string

const (
	RoleAmbassador Role = "ambassador"
	RoleAdmin      Role = "admin"
)
