// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("authkit/auth")

// Attempt outcomes passed to a Recorder and logged per attempt.
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidFormat  = "invalid_format"
	OutcomeUserNotFound   = "user_not_found"
	OutcomeBadCredentials = "bad_credentials"
	OutcomeError          = "error"
)

// Recorder receives the outcome and duration of each attempt.
type Recorder func(outcome string, elapsed time.Duration)

// Provider authenticates username/password pairs against a UserLookupService.
// It holds no per-attempt state and is safe for concurrent use.
type Provider struct {
	lookup   UserLookupService
	strategy Strategy
	policy   *FormatPolicy
	messages MessageSource
	conceal  bool
	logger   *slog.Logger
	record   Recorder
}

// ProviderOption configures a Provider during construction.
type ProviderOption func(*Provider)

// WithFormatPolicy sets the username and password patterns checked before lookup.
// Without a policy only the empty checks apply.
func WithFormatPolicy(policy *FormatPolicy) ProviderOption {
	return func(p *Provider) {
		p.policy = policy
	}
}

// WithMessages sets the source of localized failure messages.
func WithMessages(src MessageSource) ProviderOption {
	return func(p *Provider) {
		p.messages = src
	}
}

// WithConcealUserNotFound reports unknown users as bad credentials.
func WithConcealUserNotFound(conceal bool) ProviderOption {
	return func(p *Provider) {
		p.conceal = conceal
	}
}

// WithLogger sets the logger for attempt outcomes. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRecorder sets a hook invoked once per attempt.
func WithRecorder(r Recorder) ProviderOption {
	return func(p *Provider) {
		p.record = r
	}
}

// NewProvider creates a Provider. Returns an error if lookup or strategy is nil.
func NewProvider(lookup UserLookupService, strategy Strategy, opts ...ProviderOption) (*Provider, error) {
	if lookup == nil {
		return nil, ErrNilLookupService
	}
	if strategy == nil {
		return nil, ErrNilStrategy
	}
	p := &Provider{
		lookup:   lookup,
		strategy: strategy,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Authenticate validates the credential format, loads the user, verifies the
// credential through the strategy and assembles the principal.
func (p *Provider) Authenticate(ctx context.Context, username, credential string) (result *Authentication, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "auth.authenticate",
		trace.WithAttributes(attribute.String("auth.username", username)),
	)
	defer func() {
		outcome := outcomeOf(err)
		span.SetAttributes(attribute.String("auth.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		p.observe(ctx, username, outcome, time.Since(start), err)
	}()

	if username == "" {
		return nil, oops.Code(CodeInvalidCredentialsFormat).
			With("field", "username").
			Errorf("%s", message(p.messages, MsgUserName, fallbackUserName))
	}
	if credential == "" {
		return nil, oops.Code(CodeInvalidCredentialsFormat).
			With("field", "password").
			Errorf("%s", message(p.messages, MsgUserPassword, fallbackUserPassword))
	}
	if err := p.policy.CheckUsername(username); err != nil {
		return nil, err
	}
	if err := p.policy.CheckPassword(credential); err != nil {
		return nil, err
	}

	user, err := p.lookup.GetUser(ctx, username)
	if err != nil {
		return nil, p.lookupError(username, err)
	}
	if user == nil {
		return nil, p.lookupError(username, ErrNotFound)
	}

	if err := p.strategy.VerifyCredential(ctx, user, credential); err != nil {
		if IsBadCredentials(err) {
			return nil, p.badCredentials(username)
		}
		return nil, oops.Code(CodeVerifyFailed).With("username", username).Wrap(err)
	}

	roles, err := p.lookup.GetUserRoles(ctx, username)
	if err != nil {
		return nil, oops.Code(CodeLookupFailed).
			With("username", username).
			With("operation", "get user roles").
			Wrap(err)
	}

	principal := BuildPrincipal(user, roles)

	result, err = p.strategy.BuildAuthentication(ctx, principal)
	if err != nil {
		return nil, oops.Code(CodeAuthenticationFailed).With("username", username).Wrap(err)
	}
	return result, nil
}

func (p *Provider) lookupError(username string, err error) error {
	if !errors.Is(err, ErrNotFound) {
		return oops.Code(CodeLookupFailed).
			With("username", username).
			With("operation", "get user").
			Wrap(err)
	}
	if p.conceal {
		return p.badCredentials(username)
	}
	return oops.Code(CodeUserNotFound).
		With("username", username).
		Errorf("%s", message(p.messages, MsgUserNotFound, fallbackUserNotFound))
}

func (p *Provider) badCredentials(username string) error {
	return oops.Code(CodeBadCredentials).
		With("username", username).
		Errorf("%s", message(p.messages, MsgBadCredentials, fallbackBadCredentials))
}

func (p *Provider) observe(ctx context.Context, username, outcome string, elapsed time.Duration, err error) {
	if p.record != nil {
		p.record(outcome, elapsed)
	}
	switch outcome {
	case OutcomeSuccess:
		p.logger.InfoContext(ctx, "authentication succeeded",
			"username", username,
			"outcome", outcome,
		)
	case OutcomeError:
		p.logger.ErrorContext(ctx, "authentication failed",
			"username", username,
			"outcome", outcome,
			"error", err,
		)
	default:
		p.logger.WarnContext(ctx, "authentication rejected",
			"username", username,
			"outcome", outcome,
			"reason", err.Error(),
		)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case IsInvalidCredentialsFormat(err):
		return OutcomeInvalidFormat
	case IsUserNotFound(err):
		return OutcomeUserNotFound
	case IsBadCredentials(err):
		return OutcomeBadCredentials
	default:
		return OutcomeError
	}
}
