package stripe

// Account states reported to creators.
const (
	AccountStateNone       = "none"
	AccountStatePending    = "pending"
	AccountStateRestricted = "restricted"
	AccountStateActive     = "active"
)

// NormalizeAccountState folds the capability flags of a connected account
// into a single state. A nil account means onboarding never started.
func NormalizeAccountState(a *Account) string {
	if a == nil || a.ID == "" {
		return AccountStateNone
	}
	switch {
	case a.ChargesEnabled && a.PayoutsEnabled:
		return AccountStateActive
	case a.DetailsSubmitted:
		return AccountStateRestricted
	default:
		return AccountStatePending
	}
}
