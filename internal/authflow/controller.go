// Package authflow runs login and registration submissions and decides
// whether the auth page should be skipped for a visitor who is already
// signed in.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/joestump/experiment40/internal/accounts"
	"github.com/joestump/experiment40/internal/metrics"
	"github.com/joestump/experiment40/internal/querycache"
)

const (
	// NavigationDelay keeps the success notification on screen before the
	// visitor is sent to DashboardPath.
	NavigationDelay = 1200 * time.Millisecond

	DashboardPath = "/dashboard"
)

// MeKey addresses the current user in the session cache.
var MeKey = querycache.Key{"me"}

type Kind string

const (
	KindLogin    Kind = "login"
	KindRegister Kind = "register"
)

type Outcome int

const (
	// Invalid: a field failed validation; nothing was sent.
	Invalid Outcome = iota
	Succeeded
	Failed
	// Busy: another submission is in flight, or the controller is closed.
	Busy
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Busy:
		return "busy"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of one submission. Message is the text of the
// notification that was emitted, if any.
type Result struct {
	Outcome Outcome
	Message string
	Fields  FieldErrors
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient, auto-dismissing message for the visitor.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(Notification)
}

type Navigator interface {
	Navigate(path string)
}

type Translator interface {
	T(key string, args ...any) string
}

// Remote is the accounts API as seen by one visitor.
type Remote interface {
	Login(ctx context.Context, creds accounts.Credentials) (*accounts.Tokens, error)
	Register(ctx context.Context, reg accounts.Registration) error
	CurrentUser(ctx context.Context) (*accounts.User, error)
}

// UserCache is the read side of the visitor's session cache.
type UserCache interface {
	Get(key querycache.Key) (*accounts.User, bool)
}

// SessionCache is the part of the visitor's session cache a submission uses.
type SessionCache interface {
	UserCache
	Invalidate(key querycache.Key)
	Prefetch(ctx context.Context, key querycache.Key, load querycache.Loader[*accounts.User])
}

type Deps struct {
	Remote     Remote
	Cache      SessionCache
	Notifier   Notifier
	Navigator  Navigator
	Translator Translator // nil leaves message keys untranslated
	Clock      clockwork.Clock
	Logger     *zap.Logger
}

// Controller belongs to one rendered form. It runs at most one submission at
// a time and owns the timer of the navigation that follows a success; Close
// drops that navigation.
type Controller struct {
	remote Remote
	cache  SessionCache
	notify Notifier
	nav    Navigator
	t      Translator
	clock  clockwork.Clock
	log    *zap.Logger

	mu       sync.Mutex
	inFlight bool
	closed   bool
	pending  clockwork.Timer
}

func NewController(d Deps) *Controller {
	c := &Controller{
		remote: d.Remote,
		cache:  d.Cache,
		notify: d.Notifier,
		nav:    d.Navigator,
		t:      d.Translator,
		clock:  d.Clock,
		log:    d.Logger,
	}
	if c.t == nil {
		c.t = keys{}
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// SubmitLogin validates creds and, if they pass, signs the visitor in.
func (c *Controller) SubmitLogin(ctx context.Context, creds accounts.Credentials) Result {
	return c.submit(ctx, KindLogin,
		func() FieldErrors { return ValidateCredentials(creds) },
		func(ctx context.Context) error {
			_, err := c.remote.Login(ctx, creds)
			return err
		})
}

// SubmitRegistration validates reg and, if it passes, creates the account.
func (c *Controller) SubmitRegistration(ctx context.Context, reg accounts.Registration) Result {
	return c.submit(ctx, KindRegister,
		func() FieldErrors { return ValidateRegistration(reg) },
		func(ctx context.Context) error { return c.remote.Register(ctx, reg) })
}

// Close cancels a pending navigation and rejects further submissions.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) submit(ctx context.Context, kind Kind, validate func() FieldErrors, call func(context.Context) error) Result {
	if !c.begin() {
		return c.record(kind, Result{Outcome: Busy})
	}
	defer c.end()

	if fe := validate(); len(fe) > 0 {
		return c.record(kind, Result{Outcome: Invalid, Fields: fe})
	}

	if err := c.call(ctx, call); err != nil {
		msg := c.failureMessage(kind, err)
		c.log.Warn("auth submission failed", zap.String("kind", string(kind)), zap.Error(err))
		c.notify.Notify(Notification{Level: LevelError, Message: msg})
		return c.record(kind, Result{Outcome: Failed, Message: msg})
	}

	msg := c.t.T("auth." + string(kind) + ".success")
	c.notify.Notify(Notification{Level: LevelSuccess, Message: msg})
	c.cache.Invalidate(MeKey)
	c.cache.Prefetch(ctx, MeKey, c.remote.CurrentUser)
	c.scheduleNavigation()
	return c.record(kind, Result{Outcome: Succeeded, Message: msg})
}

// call runs the remote operation; a panic is reported as an error.
func (c *Controller) call(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("panic during auth submission", zap.Any("panic", r))
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	return fn(ctx)
}

func (c *Controller) failureMessage(kind Kind, err error) string {
	var apiErr *accounts.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return c.t.T("auth." + string(kind) + ".failed")
}

func (c *Controller) scheduleNavigation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = c.clock.AfterFunc(NavigationDelay, func() {
		c.mu.Lock()
		closed := c.closed
		c.pending = nil
		c.mu.Unlock()
		if !closed {
			c.nav.Navigate(DashboardPath)
		}
	})
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight || c.closed {
		return false
	}
	c.inFlight = true
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func (c *Controller) record(kind Kind, r Result) Result {
	metrics.SubmissionsTotal.WithLabelValues(string(kind), r.Outcome.String()).Inc()
	return r
}

type keys struct{}

func (keys) T(key string, _ ...any) string { return key }
