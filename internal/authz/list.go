package authz

import "context"

// ListFilter tells a repository how to constrain a listing query for the
// caller. Unrestricted means no owner predicate; otherwise the query
// limits rows to the listed owner IDs.
type ListFilter struct {
	Unrestricted bool
	OwnerIDs     []int64
}

// FilterForList resolves the caller's effective read grant into a
// repository-level constraint. Scoped grants never 403 a listing; they
// narrow it. A Denied result still returns the usual denial error.
func (r *Resolver) FilterForList(ctx context.Context, id Identity, resource Resource, action Action) (ListFilter, error) {
	if !id.Authenticated() {
		r.observe(resource, action, OutcomeDenied)
		return ListFilter{}, ErrNotAuthenticated
	}
	if id.Role == RoleSuperadmin {
		r.observe(resource, action, OutcomeAllowed)
		return ListFilter{Unrestricted: true}, nil
	}

	settings, settingsFound, err := r.store.FindTenantSettings(ctx, id.TenantID)
	if err != nil {
		return ListFilter{}, r.failClosed(ctx, id, resource, action, CheckOptions{}, err)
	}
	if settingsFound && moduleDisabled(settings, resource) {
		return ListFilter{}, r.deny(ctx, id, resource, action, CheckOptions{}, ReasonVetoRestricted, "module disabled for tenant")
	}
	if id.Role == RoleAdmin && settingsFound && vetoed(settings, resource, action) {
		return ListFilter{}, r.veto(ctx, id, resource, action, CheckOptions{})
	}

	effective, err := r.ResolveEffective(ctx, id, resource, action)
	if err != nil {
		return ListFilter{}, r.failClosed(ctx, id, resource, action, CheckOptions{}, err)
	}

	switch effective {
	case Allowed:
		r.observe(resource, action, OutcomeAllowed)
		return ListFilter{Unrestricted: true}, nil
	case ScopedOwn:
		r.observe(resource, action, OutcomeAllowed)
		return ListFilter{OwnerIDs: []int64{id.UserID}}, nil
	case ScopedTeam:
		team, err := r.store.FindTeamMembers(ctx, id.TenantID, id.UserID)
		if err != nil {
			return ListFilter{}, r.failClosed(ctx, id, resource, action, CheckOptions{}, err)
		}
		owners := make([]int64, 0, len(team)+1)
		owners = append(owners, id.UserID)
		for member := range team {
			if member != id.UserID {
				owners = append(owners, member)
			}
		}
		r.observe(resource, action, OutcomeAllowed)
		return ListFilter{OwnerIDs: owners}, nil
	default:
		return ListFilter{}, r.deny(ctx, id, resource, action, CheckOptions{}, ReasonPermissionDenied, "")
	}
}
