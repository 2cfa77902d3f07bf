// Package auth turns an Authorization header into a Principal. It does not
// issue credentials; it only asks a Verifier whether a presented one is good.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrUnauthorized = errors.New("unauthorized")

type Principal struct {
	Subject string
	Admin   bool
}

// Verifier checks the credentials part of an Authorization header for one
// scheme.
type Verifier interface {
	Verify(ctx context.Context, credentials string) (*Principal, error)
}

type Gate struct {
	verifiers map[string]Verifier
	timeout   time.Duration
	logger    *zap.Logger
}

type GateOption func(*Gate)

// WithVerifier handles scheme (matched case-insensitively) with v.
func WithVerifier(scheme string, v Verifier) GateOption {
	return func(g *Gate) { g.verifiers[strings.ToLower(scheme)] = v }
}

func NewGate(timeout time.Duration, logger *zap.Logger, opts ...GateOption) *Gate {
	g := &Gate{
		verifiers: make(map[string]Verifier),
		timeout:   timeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authorize fails closed: anything short of a verified admin principal is
// ErrUnauthorized.
func (g *Gate) Authorize(ctx context.Context, header string) (*Principal, error) {
	scheme, credentials, ok := strings.Cut(strings.TrimSpace(header), " ")
	credentials = strings.TrimSpace(credentials)
	if !ok || scheme == "" || credentials == "" {
		return nil, ErrUnauthorized
	}

	v, ok := g.verifiers[strings.ToLower(scheme)]
	if !ok {
		g.logger.Debug("unsupported authorization scheme", zap.String("scheme", scheme))
		return nil, ErrUnauthorized
	}

	p, err := g.verify(ctx, v, credentials)
	if err != nil {
		g.logger.Info("credential rejected", zap.String("scheme", scheme), zap.Error(err))
		return nil, ErrUnauthorized
	}
	if p == nil || !p.Admin {
		g.logger.Info("principal lacks admin capability", zap.String("scheme", scheme))
		return nil, ErrUnauthorized
	}
	return p, nil
}

type verifyResult struct {
	principal *Principal
	err       error
}

// verify bounds the call by the gate timeout even if v ignores ctx.
func (g *Gate) verify(ctx context.Context, v Verifier, credentials string) (*Principal, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	done := make(chan verifyResult, 1)
	go func() {
		p, err := v.Verify(ctx, credentials)
		done <- verifyResult{principal: p, err: err}
	}()

	select {
	case res := <-done:
		return res.principal, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
