package authz

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Outcome labels for decision observers.
const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeVetoed  = "vetoed"
	OutcomeError   = "error"
)

// DecisionObserver receives the outcome of every completed check.
type DecisionObserver interface {
	ObserveDecision(resource Resource, action Action, outcome string)
}

// Resolver composes the matrix, override cascade, scope enforcement and
// tenant veto into the two public guard operations. It is stateless per
// call; the audit side effect is append-only and never read back.
type Resolver struct {
	store    PolicyStore
	sink     AuditSink
	logger   *slog.Logger
	observer DecisionObserver
}

// NewResolver builds a Resolver. A nil sink disables audit emission.
func NewResolver(store PolicyStore, sink AuditSink, logger *slog.Logger) *Resolver {
	if sink == nil {
		sink = NopAuditSink{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, sink: sink, logger: logger}
}

// WithObserver attaches a decision observer for metrics.
func (r *Resolver) WithObserver(observer DecisionObserver) *Resolver {
	r.observer = observer
	return r
}

// CheckOptions qualify a permission check.
type CheckOptions struct {
	// OwnerID is the owner of the specific target object, when the
	// operation has one. Nil means no object-level target (listings,
	// creation) and scoped grants pass unfiltered.
	OwnerID *int64
	// SkipVeto bypasses the tenant veto gate. Used by internal flows
	// that re-check a permission already vetted at the boundary.
	SkipVeto bool
}

// Option mutates CheckOptions.
type Option func(*CheckOptions)

// WithOwner sets the target object owner.
func WithOwner(ownerID int64) Option {
	return func(o *CheckOptions) { o.OwnerID = &ownerID }
}

// SkipVeto disables the tenant veto gate for this check.
func SkipVeto() Option {
	return func(o *CheckOptions) { o.SkipVeto = true }
}

// ResolveEffective runs the strict three-tier cascade: a per-user
// override wins outright, else a department policy, else the role
// matrix. Tiers never merge; administrators can reason about "what wins"
// without computing intersections. The two override reads are
// independent and issued in parallel.
func (r *Resolver) ResolveEffective(ctx context.Context, id Identity, resource Resource, action Action) (PermissionValue, error) {
	var (
		userGranted bool
		userFound   bool
		deptValue   PermissionValue
		deptFound   bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		userGranted, userFound, err = r.store.FindUserOverride(gctx, id.TenantID, id.UserID, resource, action)
		return err
	})
	if id.Department != "" {
		g.Go(func() error {
			var err error
			deptValue, deptFound, err = r.store.FindDepartmentOverride(gctx, id.TenantID, id.Department, resource, action)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Denied, err
	}

	var user *bool
	if userFound {
		user = &userGranted
	}
	var dept *PermissionValue
	if deptFound {
		dept = &deptValue
	}
	return EffectiveFromLayers(id.Role, resource, action, user, dept), nil
}

// EffectiveFromLayers applies the cascade to pre-fetched override
// layers. Callers that already hold a user's full override set and the
// department's policy rows can resolve the whole grid without any
// further store reads. A nil layer means "no row at that tier".
func EffectiveFromLayers(role Role, resource Resource, action Action, userOverride *bool, deptValue *PermissionValue) PermissionValue {
	if userOverride != nil {
		if *userOverride {
			return Allowed
		}
		return Denied
	}
	if deptValue != nil {
		return *deptValue
	}
	return LookupBaseRule(role, resource, action)
}

// Assert performs a full permission check and returns a typed error on
// denial. An audit record is written before the error is returned; the
// engine never allows silently and never fails open. Allowed checks
// return with no side effect.
func (r *Resolver) Assert(ctx context.Context, id Identity, resource Resource, action Action, opts ...Option) error {
	var options CheckOptions
	for _, opt := range opts {
		opt(&options)
	}

	if !id.Authenticated() {
		r.observe(resource, action, OutcomeDenied)
		return ErrNotAuthenticated
	}

	// Superadmin bypasses every layer, vetoes included. This is an
	// intentional architectural exception: the role exists to override
	// tenant-level restrictions.
	if id.Role == RoleSuperadmin {
		r.observe(resource, action, OutcomeAllowed)
		return nil
	}

	settings, settingsFound, err := r.store.FindTenantSettings(ctx, id.TenantID)
	if err != nil {
		return r.failClosed(ctx, id, resource, action, options, err)
	}

	if settingsFound && moduleDisabled(settings, resource) {
		return r.deny(ctx, id, resource, action, options, ReasonVetoRestricted, "module disabled for tenant")
	}

	// Missing settings row means every veto is open.
	if !options.SkipVeto && id.Role == RoleAdmin && settingsFound && vetoed(settings, resource, action) {
		return r.veto(ctx, id, resource, action, options)
	}

	effective, err := r.ResolveEffective(ctx, id, resource, action)
	if err != nil {
		return r.failClosed(ctx, id, resource, action, options, err)
	}
	if !effective.Grants() {
		return r.deny(ctx, id, resource, action, options, ReasonPermissionDenied, "")
	}

	if effective.Scoped() {
		var team map[int64]struct{}
		// The owner==actor branch passes without a membership lookup;
		// only genuine cross-user team checks hit the store.
		if effective == ScopedTeam && options.OwnerID != nil && *options.OwnerID != id.UserID {
			team, err = r.store.FindTeamMembers(ctx, id.TenantID, id.UserID)
			if err != nil {
				return r.failClosed(ctx, id, resource, action, options, err)
			}
		}
		if !CheckScope(effective, id.UserID, options.OwnerID, team) {
			return r.deny(ctx, id, resource, action, options, ReasonScopeViolation, "")
		}
	}

	r.observe(resource, action, OutcomeAllowed)
	return nil
}

// Allowed is the non-throwing form of Assert, for conditional rendering
// and response decoration. Enforcement paths must call Assert; Allowed
// collapses every failure, including store errors, into false.
func (r *Resolver) Allowed(ctx context.Context, id Identity, resource Resource, action Action, opts ...Option) bool {
	return r.Assert(ctx, id, resource, action, opts...) == nil
}

func (r *Resolver) deny(ctx context.Context, id Identity, resource Resource, action Action, options CheckOptions, reason DenialReason, detail string) error {
	r.emit(ctx, id, resource, action, options, "DENIED_"+verbSuffix(action), detail)
	r.observe(resource, action, OutcomeDenied)
	return Deny(resource, action, reason)
}

func (r *Resolver) veto(ctx context.Context, id Identity, resource Resource, action Action, options CheckOptions) error {
	r.emit(ctx, id, resource, action, options, "VETOED_"+verbSuffix(action), "tenant veto")
	r.observe(resource, action, OutcomeVetoed)
	return Deny(resource, action, ReasonVetoRestricted)
}

func (r *Resolver) failClosed(ctx context.Context, id Identity, resource Resource, action Action, options CheckOptions, cause error) error {
	r.logger.Warn("authz: policy store unavailable, failing closed",
		slog.String("resource", string(resource)),
		slog.String("action", string(action)),
		slog.Any("error", cause))
	r.emit(ctx, id, resource, action, options, "DENIED_"+verbSuffix(action), "policy store unavailable")
	r.observe(resource, action, OutcomeError)
	return Deny(resource, action, ReasonPermissionDenied)
}

// emit hands the event to the sink. The sink contract is fire-and-forget;
// nothing it does can change or delay the decision beyond its own bounded
// work.
func (r *Resolver) emit(ctx context.Context, id Identity, resource Resource, action Action, options CheckOptions, verb, detail string) {
	r.sink.Record(ctx, AuditEvent{
		TenantID: id.TenantID,
		ActorID:  id.UserID,
		Verb:     verb,
		Resource: resource,
		Action:   action,
		OwnerID:  options.OwnerID,
		Detail:   detail,
	})
}

func (r *Resolver) observe(resource Resource, action Action, outcome string) {
	if r.observer != nil {
		r.observer.ObserveDecision(resource, action, outcome)
	}
}

func verbSuffix(action Action) string {
	return strings.ToUpper(string(action))
}
