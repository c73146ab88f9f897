package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Ansari839/ecommerce-dashboard/internal"
	"github.com/prometheus/client_golang/prometheus"
)

type IdentityAuthenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (Identity, error)
}

type PermissionAuthorizer interface {
	Can(ctx context.Context, identity Identity, req Requirement) (Decision, error)
}

// Verdict is a decision rendered for the transport layer.
type Verdict struct {
	Allowed  bool
	Identity Identity
	Status   int
	Code     internal.ErrorCode
	Message  string
}

const (
	outcomeAllowed     = "allowed"
	outcomeUnauthentic = "unauthenticated"
	outcomeDenied      = "denied"
	outcomeFailed      = "failed"
)

// Guard is the only place allow and deny become HTTP statuses.
type Guard struct {
	authn    IdentityAuthenticator
	authz    PermissionAuthorizer
	logger   *slog.Logger
	verdicts *prometheus.CounterVec
}

// NewGuard registers its counters with reg; a nil reg leaves them unregistered.
func NewGuard(authn IdentityAuthenticator, authz PermissionAuthorizer, logger *slog.Logger, reg prometheus.Registerer) *Guard {
	verdicts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_guard_verdicts_total",
			Help: "Route guard verdicts by outcome and reason code.",
		},
		[]string{"outcome", "code"},
	)
	if reg != nil {
		if err := reg.Register(verdicts); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				verdicts = already.ExistingCollector.(*prometheus.CounterVec)
			} else {
				logger.Warn("failed to register guard metrics", "error", err)
			}
		}
	}

	return &Guard{
		authn:    authn,
		authz:    authz,
		logger:   logger,
		verdicts: verdicts,
	}
}

func (g *Guard) Check(r *http.Request, req Requirement) Verdict {
	ctx := r.Context()

	identity, err := g.authn.Authenticate(ctx, r.Header.Get("Authorization"))
	if err != nil {
		v := g.failure(err, http.StatusUnauthorized)
		if v.Status < http.StatusInternalServerError {
			g.logger.InfoContext(ctx, "authentication failed", "code", v.Code, "path", r.URL.Path)
			g.count(outcomeUnauthentic, v.Code)
		}
		return v
	}

	decision, err := g.authz.Can(ctx, identity, req)
	if err != nil {
		return g.failure(err, http.StatusInternalServerError)
	}

	if !decision.Allowed {
		g.logger.WarnContext(ctx, "access denied",
			"user_id", identity.ID,
			"role", identity.RoleName(),
			"module", req.Module,
			"action", req.Action,
			"code", decision.Reason.Code)
		g.count(outcomeDenied, decision.Reason.Code)
		return Verdict{
			Allowed: false,
			Status:  http.StatusForbidden,
			Code:    decision.Reason.Code,
			Message: denialMessage(decision.Reason, req),
		}
	}

	g.count(outcomeAllowed, "")
	return Verdict{Allowed: true, Identity: identity, Status: http.StatusOK}
}

// failure renders an error. Anything that is not an AppError, and every
// internal failure, is a 500.
func (g *Guard) failure(err error, fallback int) Verdict {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.ErrAuthorizationCheckFailed.Wrap(err)
	}

	status := appErr.StatusCode
	if status == 0 {
		status = fallback
	}
	if status >= http.StatusInternalServerError {
		g.logger.Error("authorization check failed", "error", err)
		g.count(outcomeFailed, appErr.Code)
		return Verdict{
			Status:  http.StatusInternalServerError,
			Code:    internal.ErrCodeAuthorizationCheckFailed,
			Message: internal.ErrAuthorizationCheckFailed.Message,
		}
	}
	return Verdict{Status: status, Code: appErr.Code, Message: appErr.Message}
}

func (g *Guard) count(outcome string, code internal.ErrorCode) {
	g.verdicts.WithLabelValues(outcome, string(code)).Inc()
}

func denialMessage(reason *internal.AppError, req Requirement) string {
	switch reason.Code {
	case internal.ErrCodeActionNotPermitted:
		return fmt.Sprintf("Access denied: you don't have permission to %s %s", req.Action, req.Module)
	case internal.ErrCodeNoModuleAccess:
		return fmt.Sprintf("Access denied: you don't have access to %s", req.Module)
	default:
		return "Access denied: " + reason.Message
	}
}
