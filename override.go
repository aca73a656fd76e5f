package mutguard

// Override is the per-route override flag.
type Override int8

const (
	// OverrideUnset means no override was registered for the route.
	OverrideUnset Override = iota
	// OverrideAllow exempts the route from mutation blocking.
	OverrideAllow
	// OverrideNone is an explicit "no override". A handler registered with it
	// cancels an OverrideAllow inherited from its group.
	OverrideNone
)

// OverrideFromBool converts explicit boolean marker into Override.
func OverrideFromBool(allow bool) Override {
	if allow {
		return OverrideAllow
	}
	return OverrideNone
}

// IsSet returns true if the override was registered explicitly.
func (override Override) IsSet() bool {
	return override != OverrideUnset
}

func (override Override) String() string {
	switch override {
	case OverrideAllow:
		return "allow"
	case OverrideNone:
		return "none"
	default:
		return "unset"
	}
}
