package mfa

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goIdentity/user"
)

// Registration binds a method name to its strategy.
type Registration struct {
	Method  Method
	Service Service
}

// Engine routes calls to the strategy named by the user's preference.
// Users with no preference pass every check.
type Engine struct {
	methods map[Method]Service
}

// NewEngine builds the registry. Later registrations replace earlier ones
// with the same name.
func NewEngine(regs ...Registration) *Engine {
	methods := make(map[Method]Service, len(regs))
	for _, r := range regs {
		if r.Service != nil {
			methods[r.Method] = r.Service
		}
	}
	return &Engine{methods: methods}
}

// Has reports whether method is registered.
func (e *Engine) Has(method Method) bool {
	_, ok := e.methods[method]
	return ok
}

func (e *Engine) Verify(ctx context.Context, u *user.User, otp *Otp) error {
	s, err := e.lookup(u)
	if s == nil {
		return err
	}
	return s.Verify(ctx, u, otp)
}

func (e *Engine) Enable(ctx context.Context, u *user.User, otp *Otp) error {
	s, err := e.lookup(u)
	if s == nil {
		return err
	}
	return s.Enable(ctx, u, otp)
}

func (e *Engine) Disable(ctx context.Context, u *user.User, otp *Otp) error {
	s, err := e.lookup(u)
	if s == nil {
		return err
	}
	return s.Disable(ctx, u, otp)
}

// Release drops the durable state method keeps for u. Methods without any,
// and unregistered ones, are a no-op.
func (e *Engine) Release(ctx context.Context, u *user.User, method Method) error {
	r, ok := e.methods[method].(Releaser)
	if !ok {
		return nil
	}
	return r.Release(ctx, u)
}

// lookup returns (nil, nil) when the user has no method configured.
func (e *Engine) lookup(u *user.User) (Service, error) {
	method := u.Preferences.MultiFactor
	if method == "" {
		return nil, nil
	}
	s, ok := e.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMethodNotFound, method)
	}
	return s, nil
}
