// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/guns21/authkit/internal/auth"
	"github.com/guns21/authkit/internal/result"
	"github.com/guns21/authkit/pkg/errutil"
)

// Error codes produced by the API layer itself.
const (
	CodeBadRequest  = "API_BAD_REQUEST"
	CodeRolesFailed = "API_ROLES_FAILED"
	CodeInternal    = "API_INTERNAL"
)

const (
	maxLoginBodyBytes = 1 << 16
	routeLogin        = "/api/login"
	routeUserRoles    = "/api/users/{username}/roles"
	paramUsername     = "username"
	queryCurrent      = "current"
	queryPageSize     = "pageSize"
)

// Authenticator checks a username and credential.
type Authenticator interface {
	Authenticate(ctx context.Context, username, credential string) (*auth.Authentication, error)
}

// RoleLister returns the roles held by a user.
type RoleLister interface {
	GetUserRoles(ctx context.Context, username string) ([]auth.Role, error)
}

// RequestRecorder observes one finished request. observability.Metrics.RecordRequest satisfies it.
type RequestRecorder func(route string, status int)

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// PrincipalView is the client-facing projection of an authenticated principal.
// It never carries the password hash or salt.
type PrincipalView struct {
	UserID          string      `json:"userId"`
	Username        string      `json:"username"`
	Nickname        string      `json:"nickname,omitempty"`
	OrganizationID  string      `json:"organizationId,omitempty"`
	ThirdPartyBound bool        `json:"thirdPartyBound"`
	ThirdPartyID    string      `json:"thirdPartyId,omitempty"`
	Authorities     []string    `json:"authorities"`
	Roles           []auth.Role `json:"roles"`
	Scheme          string      `json:"scheme"`
	AuthenticatedAt string      `json:"authenticatedAt"`
}

// NewPrincipalView projects an authentication result.
func NewPrincipalView(a *auth.Authentication) PrincipalView {
	p := a.Principal
	return PrincipalView{
		UserID:          p.UserID,
		Username:        p.Username,
		Nickname:        p.Nickname,
		OrganizationID:  p.OrganizationID,
		ThirdPartyBound: p.ThirdPartyBound,
		ThirdPartyID:    p.ThirdPartyID,
		Authorities:     p.AuthorityNames(),
		Roles:           p.Roles,
		Scheme:          a.Scheme,
		AuthenticatedAt: a.AuthenticatedAt.UTC().Format(time.RFC3339),
	}
}

// Handler serves the authkit API.
type Handler struct {
	authn  Authenticator
	roles  RoleLister
	logger *slog.Logger
	record RequestRecorder
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger used for internal failures.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRequestRecorder installs a per-request observer.
func WithRequestRecorder(r RequestRecorder) HandlerOption {
	return func(h *Handler) {
		h.record = r
	}
}

// NewHandler creates a Handler. roles may be nil, which disables the roles endpoint.
func NewHandler(authn Authenticator, roles RoleLister, opts ...HandlerOption) *Handler {
	h := &Handler{
		authn:  authn,
		roles:  roles,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	if h.record != nil {
		r.Use(recordRequests(h.record))
	}
	r.Post(routeLogin, h.handleLogin)
	if h.roles != nil {
		r.Get(routeUserRoles, h.handleUserRoles)
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, result.FailCode("not found", strconv.Itoa(http.StatusNotFound)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed,
			result.FailCode("method not allowed", strconv.Itoa(http.StatusMethodNotAllowed)))
	})
	return r
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, result.FailCode("malformed login request", CodeBadRequest))
		return
	}

	authn, err := h.authn.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		status := loginStatus(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			errutil.LogErrorContext(r.Context(), h.logger, "login failed", err)
			msg = result.FailMessageDefault
		}
		code := errutil.Code(err)
		if code == "" {
			code = CodeInternal
		}
		writeJSON(w, status, result.FailCode(msg, code))
		return
	}

	writeJSON(w, http.StatusOK, result.SuccessData(NewPrincipalView(authn)))
}

func (h *Handler) handleUserRoles(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, paramUsername)
	page := result.NormalizePage(queryInt(r, queryCurrent), queryInt(r, queryPageSize))

	roles, err := h.roles.GetUserRoles(r.Context(), username)
	if err != nil {
		errutil.LogErrorContext(r.Context(), h.logger, "list user roles failed", err)
		writeJSON(w, http.StatusInternalServerError, result.NewPagedFail[auth.Role](result.FailMessageDefault, CodeRolesFailed))
		return
	}

	writeJSON(w, http.StatusOK, result.PagedSuccess(result.Slice(roles, page), page.Current, page.PageSize, len(roles)))
}

// loginStatus maps an authentication error to an HTTP status.
func loginStatus(err error) int {
	switch {
	case auth.IsInvalidCredentialsFormat(err):
		return http.StatusBadRequest
	case auth.IsUserNotFound(err), auth.IsBadCredentials(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// queryInt returns the integer query parameter, or 0 when absent or malformed.
func queryInt(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
