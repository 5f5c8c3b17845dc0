package escrow

// CancelPolicy decides whether an escrow may be cancelled at the given slot.
//
// Exchange is never gated, and no policy reads Record.TimeOut. The timeout
// is stored for clients only; an escrow past its timeout stays open until it
// is exchanged or cancelled.
type CancelPolicy interface {
	IsCancelAllowed(now uint64, r Record) bool
}

// AlwaysAllow lets the initializer cancel at any time. The timelock stored
// by ResetTimeLock is informational only.
type AlwaysAllow struct{}

func (AlwaysAllow) IsCancelAllowed(uint64, Record) bool { return true }

// UnlockedPolicy allows cancellation once the unlock time has been reached.
// While it is in force InitEscrow starts the timelock, so a record that was
// never reset is locked too.
type UnlockedPolicy struct{}

func (UnlockedPolicy) IsCancelAllowed(now uint64, r Record) bool {
	return now >= r.UnlockTime
}

// policyFor returns the policy selected by the configuration.
func policyFor(conf Configuration) CancelPolicy {
	if conf.EnforceTimelock {
		return UnlockedPolicy{}
	}
	return AlwaysAllow{}
}
