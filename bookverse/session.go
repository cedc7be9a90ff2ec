package bookverse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// State is the authentication state of the client.
type State int

const (
	Anonymous State = iota
	AuthenticatedUser
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case AuthenticatedUser:
		return "user"
	case AuthenticatedAdmin:
		return "admin"
	}
	return "unknown"
}

// AuthMode selects which auth endpoint a credential submission goes to.
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

func (m AuthMode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// Authenticator is the part of the API the session controller needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, *User, error)
	Register(ctx context.Context, email, password string) (string, error)
}

// View is everything a page needs to reflect the session.
type View struct {
	ProfileLabel      string
	AdminNavVisible   bool
	ReviewFormVisible bool
}

const anonymousLabel = "Profile"

// SessionController owns the session. Pages read it through the accessors and
// change it only through Authenticate and Logout.
type SessionController struct {
	storage Storage
	auth    Authenticator
	logger  *slog.Logger

	mu        sync.Mutex
	token     string
	user      *User
	listeners map[int]func(View)
	nextID    int
}

// NewSessionController reads the durable slots once. A missing slot or an
// unreadable user record leaves the controller anonymous; the stored data is
// left as it is.
func NewSessionController(storage Storage, auth Authenticator, logger *slog.Logger) *SessionController {
	if logger == nil {
		logger = slog.Default()
	}
	c := &SessionController{
		storage:   storage,
		auth:      auth,
		logger:    logger,
		listeners: make(map[int]func(View)),
	}
	c.token, c.user = loadSession(storage, logger)
	return c
}

func loadSession(storage Storage, logger *slog.Logger) (string, *User) {
	token, hasToken, err := storage.GetItem(SlotToken)
	if err != nil {
		logger.Warn("read session token", "err", err)
		return "", nil
	}
	raw, hasUser, err := storage.GetItem(SlotUser)
	if err != nil {
		logger.Warn("read session user", "err", err)
		return "", nil
	}
	if !hasToken && !hasUser {
		return "", nil
	}
	if !hasToken || !hasUser || token == "" {
		logger.Warn("partial session in storage, starting logged out")
		return "", nil
	}
	var u *User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u == nil {
		logger.Warn("unreadable session user, starting logged out", "err", err)
		return "", nil
	}
	return token, u
}

// State reports the current state.
func (c *SessionController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *SessionController) stateLocked() State {
	switch {
	case c.token == "" || c.user == nil:
		return Anonymous
	case c.user.Admin:
		return AuthenticatedAdmin
	default:
		return AuthenticatedUser
	}
}

// Authenticated reports whether a session is active.
func (c *SessionController) Authenticated() bool { return c.State() != Anonymous }

// Token returns the bearer token, or "" when anonymous.
func (c *SessionController) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// User returns a copy of the session user, or nil when anonymous.
func (c *SessionController) User() *User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// View renders the session-dependent parts of every page.
func (c *SessionController) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *SessionController) viewLocked() View {
	if c.stateLocked() == Anonymous {
		return View{ProfileLabel: anonymousLabel}
	}
	return View{
		ProfileLabel:      localPart(c.user.Email),
		AdminNavVisible:   c.user.Admin,
		ReviewFormVisible: !c.user.Admin,
	}
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// Subscribe registers fn to be called with the new view after every state
// change. The returned func removes it.
func (c *SessionController) Subscribe(fn func(View)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *SessionController) notify() {
	c.mu.Lock()
	v := c.viewLocked()
	fns := make([]func(View), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Authenticate submits credentials. A successful login starts a session;
// a successful registration leaves the state untouched.
func (c *SessionController) Authenticate(ctx context.Context, mode AuthMode, email, password string) Result {
	if mode == ModeRegister {
		if _, err := c.auth.Register(ctx, email, password); err != nil {
			c.logger.Error("register failed", "email", email, "err", err)
			return failedResult(userMessage(err, fallbackMessage), err)
		}
		return okResult("Account created! Please login.")
	}

	token, user, err := c.auth.Login(ctx, email, password)
	if err != nil {
		c.logger.Error("login failed", "email", email, "err", err)
		return failedResult(userMessage(err, fallbackMessage), err)
	}
	if err := c.persist(token, user); err != nil {
		c.logger.Error("store session", "err", err)
		return failedResult(fallbackMessage, err)
	}

	c.mu.Lock()
	c.token = token
	c.user = user
	c.mu.Unlock()
	c.logger.Info("logged in", "email", user.Email, "admin", user.Admin)
	c.notify()
	return okResult("Logged in successfully!")
}

// persist writes token then user. A failure between the two writes is not
// rolled back; the next load treats the partial record as logged out.
func (c *SessionController) persist(token string, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := c.storage.SetItem(SlotToken, token); err != nil {
		return err
	}
	return c.storage.SetItem(SlotUser, string(data))
}

// Logout ends the session once confirm agrees. A nil confirm never agrees.
// A slot that cannot be removed is retried once and then only logged: the
// process is logged out regardless, and a leftover slot alone loads as
// anonymous.
func (c *SessionController) Logout(confirm Confirm) Result {
	if !c.Authenticated() {
		return failedResult("Not logged in", ErrNoSession)
	}
	if confirm == nil || !confirm("Logout?") {
		return cancelledResult()
	}

	var errs []error
	for _, key := range []string{SlotToken, SlotUser} {
		if err := c.storage.RemoveItem(key); err != nil {
			if err = c.storage.RemoveItem(key); err != nil {
				errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
			}
		}
	}

	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
	c.notify()

	if err := errors.Join(errs...); err != nil {
		c.logger.Warn("session slots not fully cleared", "err", err)
	}
	c.logger.Info("logged out")
	return okResult("Logged out")
}
