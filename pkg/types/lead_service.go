package types

type LeadServiceStatus string

const (
	LeadServiceStatusSuggested  LeadServiceStatus = "suggested"
	LeadServiceStatusContacted  LeadServiceStatus = "contacted"
	LeadServiceStatusInterested LeadServiceStatus = "interested"
	LeadServiceStatusSold       LeadServiceStatus = "sold"
	LeadServiceStatusDeclined   LeadServiceStatus = "declined"
)

func (s LeadServiceStatus) Valid() bool {
	switch s {
	case LeadServiceStatusSuggested, LeadServiceStatusContacted, LeadServiceStatusInterested,
		LeadServiceStatusSold, LeadServiceStatusDeclined:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed out of s.
func (s LeadServiceStatus) Terminal() bool {
	return s == LeadServiceStatusSold || s == LeadServiceStatusDeclined
}
