package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	// RejectedMessage is shown on a failed login.
	RejectedMessage = "Access Denied: Invalid Credentials."
	// ThrottledMessage is shown when a client exceeds the login rate.
	ThrottledMessage = "Too many attempts. Try again in a minute."

	sessionAdmin    = "admin"
	sessionIssuedAt = "issued_at"
)

var ErrNoCredential = errors.New("admin credential is not configured")

// Gate checks the shared admin password against a bcrypt hash.
type Gate struct {
	hash []byte
}

// NewGate uses hash when set, otherwise hashes password.
func NewGate(hash, password string) (*Gate, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		return &Gate{hash: []byte(hash)}, nil
	}
	if password == "" {
		return nil, ErrNoCredential
	}
	h, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Gate{hash: []byte(h)}, nil
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (g *Gate) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(g.hash, []byte(password)) == nil
}

//
// SESSION
//

// Grant marks the session as admin.
func Grant(sess sessions.Session, now time.Time) error {
	sess.Set(sessionAdmin, true)
	sess.Set(sessionIssuedAt, now.Unix())
	return sess.Save()
}

func Revoke(sess sessions.Session) error {
	sess.Clear()
	return sess.Save()
}

// IsAdmin reports whether the session holds an admin grant younger than ttl.
func IsAdmin(sess sessions.Session, now time.Time, ttl time.Duration) bool {
	ok, _ := sess.Get(sessionAdmin).(bool)
	if !ok {
		return false
	}
	issued, ok := sess.Get(sessionIssuedAt).(int64)
	if !ok {
		return false
	}
	if ttl > 0 && now.Sub(time.Unix(issued, 0)) >= ttl {
		return false
	}
	return true
}

//
// THROTTLE
//

// limiterIdle is how long a client may stay silent before its bucket is
// dropped. A bucket idle this long has refilled, so dropping it loses nothing.
const limiterIdle = 10 * time.Minute

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter throttles login attempts per client key.
type Limiter struct {
	mu        sync.Mutex
	perMin    int
	burst     int
	clients   map[string]*client
	lastSweep time.Time
	now       func() time.Time
}

func NewLimiter(perMin, burst int) *Limiter {
	return &Limiter{
		perMin:  perMin,
		burst:   burst,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Allow reports whether key may attempt a login now. A non-positive rate
// disables throttling.
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.perMin <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= limiterIdle {
		l.sweep(now)
	}
	c, ok := l.clients[key]
	if !ok {
		c = &client{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMin)), l.burst)}
		l.clients[key] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

func (l *Limiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.seen) >= limiterIdle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
