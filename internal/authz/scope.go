package authz

// CheckScope enforces ScopedOwn/ScopedTeam values against a target owner.
//
// A nil owner means the operation has no specific target (listings,
// creation); scoped values pass and callers are responsible for filtering
// result sets by ownership. The owner==actor branch is evaluated before
// any team lookup, so a user never needs membership in their own
// single-person team to act on their own records.
func CheckScope(value PermissionValue, actingUserID int64, ownerID *int64, teamMembers map[int64]struct{}) bool {
	switch value {
	case Allowed:
		return true
	case Denied:
		return false
	case ScopedOwn:
		return ownerID == nil || *ownerID == actingUserID
	case ScopedTeam:
		if ownerID == nil || *ownerID == actingUserID {
			return true
		}
		_, ok := teamMembers[*ownerID]
		return ok
	default:
		return false
	}
}
