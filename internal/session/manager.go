// Package session owns the authenticated identity and its onboarding
// completeness flags. The manager is the only code allowed to mutate an
// Identity; setup steps flip their flag through MarkComplete after
// their record is durably written, never before.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fitmate/internal/store"
)

// AccountsCollection is the store collection holding local credentials.
const AccountsCollection = "accounts"

// Identity is the authenticated user plus derived onboarding flags. It
// is persisted under the store's session key and rehydrated on start.
type Identity struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	AuthToken           string `json:"auth_token"`
	ProfileComplete     bool   `json:"profile_complete"`
	WorkoutPlanComplete bool   `json:"workout_plan_complete"`
	MealPlanComplete    bool   `json:"meal_plan_complete"`
}

// EntityKind names a setup entity for flag updates and dependency
// checks.
type EntityKind string

const (
	KindProfile     EntityKind = "profile"
	KindWorkoutPlan EntityKind = "workout_plan"
	KindMealPlan    EntityKind = "meal_plan"
)

// Finder reports whether a setup record exists for an owner. Each
// entity repository satisfies this.
type Finder interface {
	Exists(ownerID string) (bool, error)
}

// Finders bundles the per-entity probes used to derive and verify the
// completeness flags.
type Finders struct {
	Profile     Finder
	WorkoutPlan Finder
	MealPlan    Finder
}

// Account is a locally stored credential pair, keyed by user id.
type Account struct {
	OwnerID      string `json:"owner_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// Manager owns the current identity for the process. It rehydrates the
// persisted session lazily on first use and caches it until logout.
type Manager struct {
	store    *store.Store
	accounts store.Collection[Account]
	finders  Finders
	tokens   *TokenIssuer
	log      *zap.Logger

	mu       sync.Mutex
	cached   *Identity
	hydrated bool
}

// NewManager creates a session manager over the given store.
func NewManager(s *store.Store, finders Finders, tokens *TokenIssuer, log *zap.Logger) *Manager {
	return &Manager{
		store:    s,
		accounts: store.NewCollection[Account](s, AccountsCollection),
		finders:  finders,
		tokens:   tokens,
		log:      log,
	}
}

// CurrentIdentity returns the signed-in identity, or nil. On first call
// it rehydrates from the persisted session; an unreadable or expired
// token reads as no session.
func (m *Manager) CurrentIdentity() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hydrated {
		m.cached = m.rehydrate()
		m.hydrated = true
	}
	if m.cached == nil {
		return nil
	}
	id := *m.cached
	return &id
}

// rehydrate loads and validates the persisted session. Must be called
// with the mutex held.
func (m *Manager) rehydrate() *Identity {
	raw, ok := m.store.Session()
	if !ok {
		return nil
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		m.log.Warn("persisted session unreadable, discarding", zap.Error(err))
		return nil
	}
	if _, err := m.tokens.Verify(id.AuthToken); err != nil {
		m.log.Info("persisted session token invalid, discarding", zap.Error(err))
		return nil
	}
	return &id
}

// Refresh re-reads the persisted session, replacing the cached
// identity. Called when another process has written the store, so flag
// changes made in a second tab become visible here.
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = m.rehydrate()
	m.hydrated = true
}

// Register creates a local account and signs the user in. The new
// identity always starts with all three completeness flags false.
func (m *Manager) Register(ctx context.Context, email, password string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return nil, &RegistrationError{Reason: "invalid email address"}
	}
	if len(password) < 8 {
		return nil, &RegistrationError{Reason: "password must be at least 8 characters"}
	}

	existing, err := m.accounts.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	for _, acct := range existing {
		if acct.Email == email {
			return nil, &RegistrationError{Reason: "user already exists"}
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	acct := Account{
		OwnerID:      uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := m.accounts.Upsert(acct.OwnerID, acct); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	token, err := m.tokens.Issue(email)
	if err != nil {
		return nil, err
	}

	id := Identity{ID: acct.OwnerID, Email: email, AuthToken: token}
	if err := m.establish(&id); err != nil {
		return nil, err
	}

	m.log.Info("user registered", zap.String("email", email))
	return &id, nil
}

// Login verifies credentials against the local accounts and derives the
// onboarding flags by probing for the user's records in dependency
// order, stopping at the first gap: a later record cannot exist without
// the earlier ones.
func (m *Manager) Login(ctx context.Context, email, password string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(strings.ToLower(email))

	acct, err := m.findAccount(email)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, &AuthError{Reason: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, &AuthError{Reason: "invalid credentials"}
	}

	token, err := m.tokens.Issue(email)
	if err != nil {
		return nil, err
	}

	id := Identity{ID: acct.OwnerID, Email: email, AuthToken: token}
	m.deriveFlags(&id)

	if err := m.establish(&id); err != nil {
		return nil, err
	}

	m.log.Info("user logged in",
		zap.String("email", email),
		zap.Bool("profile_complete", id.ProfileComplete),
		zap.Bool("workout_plan_complete", id.WorkoutPlanComplete),
		zap.Bool("meal_plan_complete", id.MealPlanComplete))
	return &id, nil
}

// Logout clears the persisted session and the cached identity.
// Idempotent.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.cached = nil
	m.hydrated = true
	return nil
}

// MarkComplete flips exactly one completeness flag and persists the
// identity. It refuses to run ahead of the record it stands for, or out
// of the profile, workout, meal order: a flag must never be true while
// its record, or an earlier flag, is missing.
func (m *Manager) MarkComplete(kind EntityKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hydrated {
		m.cached = m.rehydrate()
		m.hydrated = true
	}
	if m.cached == nil {
		return &AuthError{Reason: "no active session"}
	}
	id := *m.cached

	finder, err := m.checkOrder(&id, kind)
	if err != nil {
		return err
	}

	exists, err := finder.Exists(id.ID)
	if err != nil {
		return fmt.Errorf("failed to probe %s record: %w", kind, err)
	}
	if !exists {
		return &DependencyError{Kind: kind, Missing: string(kind) + " record"}
	}

	switch kind {
	case KindProfile:
		id.ProfileComplete = true
	case KindWorkoutPlan:
		id.WorkoutPlanComplete = true
	case KindMealPlan:
		id.MealPlanComplete = true
	}

	// The flag flip is only durable once the session write succeeds; a
	// failed write leaves the cached identity untouched.
	if err := m.store.PutSession(&id); err != nil {
		return fmt.Errorf("failed to persist %s completion: %w", kind, err)
	}
	m.cached = &id
	return nil
}

// checkOrder validates the strict profile, workout, meal sequence and
// returns the finder for the kind being completed.
func (m *Manager) checkOrder(id *Identity, kind EntityKind) (Finder, error) {
	switch kind {
	case KindProfile:
		return m.finders.Profile, nil
	case KindWorkoutPlan:
		if !id.ProfileComplete {
			return nil, &DependencyError{Kind: kind, Missing: "completed profile"}
		}
		return m.finders.WorkoutPlan, nil
	case KindMealPlan:
		if !id.ProfileComplete {
			return nil, &DependencyError{Kind: kind, Missing: "completed profile"}
		}
		if !id.WorkoutPlanComplete {
			return nil, &DependencyError{Kind: kind, Missing: "completed workout plan"}
		}
		return m.finders.MealPlan, nil
	}
	return nil, fmt.Errorf("unknown entity kind %q", kind)
}

// deriveFlags probes for the user's records in dependency order. A
// probe failure reads as no record: the user is routed back through
// onboarding rather than shown an error.
func (m *Manager) deriveFlags(id *Identity) {
	probe := func(f Finder, kind EntityKind) bool {
		ok, err := f.Exists(id.ID)
		if err != nil {
			m.log.Warn("record probe failed, assuming absent",
				zap.String("kind", string(kind)), zap.Error(err))
			return false
		}
		return ok
	}

	if !probe(m.finders.Profile, KindProfile) {
		return
	}
	id.ProfileComplete = true

	if !probe(m.finders.WorkoutPlan, KindWorkoutPlan) {
		return
	}
	id.WorkoutPlanComplete = true

	if !probe(m.finders.MealPlan, KindMealPlan) {
		return
	}
	id.MealPlanComplete = true
}

// establish persists the identity as the current session and caches it.
func (m *Manager) establish(id *Identity) error {
	if err := m.store.PutSession(id); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cached := *id
	m.cached = &cached
	m.hydrated = true
	return nil
}

// findAccount scans local accounts for an email match.
func (m *Manager) findAccount(email string) (*Account, error) {
	accounts, err := m.accounts.All()
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	for _, acct := range accounts {
		if acct.Email == email {
			a := acct
			return &a, nil
		}
	}
	return nil, nil
}
