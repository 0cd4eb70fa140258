package domain

// UnitScope says which unit's records an operation may touch.
//
// Scoped callers see exactly one unit. Administrators carry no fixed unit and
// see every unit; that is an explicit Unrestricted value, never a nil or
// zero UnitID, so "administrator view" and "missing unit — error" cannot be
// confused.
type UnitScope struct {
	unitID       UnitID
	unrestricted bool
}

// ScopedUnit returns a scope restricted to one unit.
func ScopedUnit(unitID UnitID) UnitScope {
	return UnitScope{unitID: unitID}
}

// Unrestricted returns the administrator scope spanning all units.
func Unrestricted() UnitScope {
	return UnitScope{unrestricted: true}
}

// IsUnrestricted reports whether the scope spans all units.
func (s UnitScope) IsUnrestricted() bool {
	return s.unrestricted
}

// UnitID returns the scoped unit. ok is false for unrestricted scopes.
func (s UnitScope) UnitID() (UnitID, bool) {
	if s.unrestricted {
		return UnitID{}, false
	}
	return s.unitID, true
}

// Allows reports whether a record owned by unitID is visible in this scope.
func (s UnitScope) Allows(unitID UnitID) bool {
	return s.unrestricted || s.unitID == unitID
}

func (s UnitScope) String() string {
	if s.unrestricted {
		return "unrestricted"
	}
	return s.unitID.String()
}
