package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"fire-server/src/categories"
	"fire-server/src/metrics"
	"fire-server/src/migration"
	"fire-server/src/models"
	"fire-server/src/months"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	// Debounce is the quiet period before a months save.
	Debounce time.Duration
	// SaveTimeout bounds each background save.
	SaveTimeout time.Duration
	// AutoCash recomputes the cash category after edits.
	AutoCash      bool
	DefaultLocale categories.Locale
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SaveTimeout <= 0 {
		o.SaveTimeout = 10 * time.Second
	}
	if !o.DefaultLocale.Valid() {
		o.DefaultLocale = categories.DefaultLocale
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Sessions holds one in-memory working copy per user.
type Sessions struct {
	facade *Facade
	opts   Options

	mu     sync.Mutex
	byUser map[string]*Session
	loads  singleflight.Group
}

func NewSessions(facade *Facade, opts Options) *Sessions {
	return &Sessions{
		facade: facade,
		opts:   opts.withDefaults(),
		byUser: make(map[string]*Session),
	}
}

// Get returns the user's session, loading it on first use. The current
// month is ensured on every call.
func (s *Sessions) Get(ctx context.Context, userID string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.byUser[userID]
	s.mu.Unlock()

	if !ok {
		v, err, _ := s.loads.Do(userID, func() (interface{}, error) {
			s.mu.Lock()
			if existing, ok := s.byUser[userID]; ok {
				s.mu.Unlock()
				return existing, nil
			}
			s.mu.Unlock()

			loaded, err := s.load(ctx, userID)
			if err != nil {
				return nil, err
			}
			s.mu.Lock()
			s.byUser[userID] = loaded
			metrics.ActiveSessions.Set(float64(len(s.byUser)))
			s.mu.Unlock()
			return loaded, nil
		})
		if err != nil {
			return nil, err
		}
		sess = v.(*Session)
	}

	sess.ensureCurrent()
	return sess, nil
}

// Loaded returns the session if it is in memory.
func (s *Sessions) Loaded(userID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byUser[userID]
	return sess, ok
}

func (s *Sessions) load(ctx context.Context, userID string) (*Session, error) {
	cfg := s.facade.LoadConfig(ctx, userID)
	locale := s.opts.DefaultLocale
	if cfg.Locale != "" {
		locale = categories.ParseLocale(cfg.Locale)
	}
	cfg.Locale = string(locale)

	records, updatedAt, err := s.facade.LoadMonths(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load months for %s: %w", userID, err)
	}

	sess := &Session{
		userID:    userID,
		sessions:  s,
		config:    cfg,
		updatedAt: updatedAt,
		saver:     NewDebouncer(s.opts.Debounce),
	}
	normalized, changed, err := sess.normalize(records, locale)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("stored months not migrated; session is read-only until an import")
		sess.months = normalized
		sess.blocked = err
		return sess, nil
	}
	sess.months = normalized
	if changed {
		sess.scheduleSave()
	}
	return sess, nil
}

// Refresh reloads the user's months from storage and replaces the working
// copy when it differs. Sessions with a save in flight are left alone so
// the local write wins.
func (s *Sessions) Refresh(ctx context.Context, userID string) (bool, error) {
	sess, ok := s.Loaded(userID)
	if !ok || sess.saver.Busy() {
		metrics.Refreshes.WithLabelValues("skipped").Inc()
		return false, nil
	}

	records, updatedAt, err := s.facade.LoadMonths(ctx, userID)
	if err != nil {
		metrics.Refreshes.WithLabelValues("error").Inc()
		return false, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.saver.Busy() {
		metrics.Refreshes.WithLabelValues("skipped").Inc()
		return false, nil
	}
	incoming, _, blocked := sess.normalize(records, sess.locale())
	same, err := sameJSON(sess.months, incoming)
	if err != nil {
		return false, err
	}
	if same {
		metrics.Refreshes.WithLabelValues("unchanged").Inc()
		return false, nil
	}
	sess.months = incoming
	sess.updatedAt = updatedAt
	sess.blocked = blocked
	metrics.Refreshes.WithLabelValues("replaced").Inc()
	log.Info().Str("user_id", userID).Msg("session replaced by external change")
	return true, nil
}

// FlushAll runs every pending save. Used on shutdown.
func (s *Sessions) FlushAll() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.byUser))
	for _, sess := range s.byUser {
		all = append(all, sess)
	}
	s.mu.Unlock()

	for _, sess := range all {
		sess.saver.Flush()
	}
}

func sameJSON(a, b []models.MonthRecord) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ja, jb), nil
}

// Session is one user's working copy. Mutations are applied in memory and
// persisted by a debounced background save.
type Session struct {
	userID   string
	sessions *Sessions

	mu        sync.Mutex
	months    []models.MonthRecord
	config    models.UserConfig
	updatedAt time.Time
	saver     *Debouncer
	// blocked holds the migration error of stored months that could not
	// be normalized. Such a session is never saved until Replace succeeds.
	blocked error
}

func (s *Session) locale() categories.Locale {
	return categories.ParseLocale(s.config.Locale)
}

func (s *Session) UserID() string { return s.userID }

func (s *Session) Locale() categories.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale()
}

func (s *Session) Schema() categories.Schema {
	return categories.ForLocale(s.Locale())
}

// Months returns a copy of the records.
func (s *Session) Months() []models.MonthRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneRecords(s.months)
}

func (s *Session) Config() models.UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Err reports why the stored months could not be loaded for editing.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked
}

// UpdatedAt is when the records were last persisted or reloaded.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// normalize migrates, fills and extends records for locale. When the
// records cannot be migrated they come back sorted but otherwise as
// stored, along with the error. Callers need not hold mu.
func (s *Session) normalize(records []models.MonthRecord, locale categories.Locale) ([]models.MonthRecord, bool, error) {
	schema := categories.ForLocale(locale)

	sorted := months.Sort(records)
	if err := months.Validate(sorted); err != nil {
		log.Warn().Err(err).Str("user_id", s.userID).Msg("stored months violate ordering")
	}

	migrated, didMigrate, err := migration.Normalize(sorted, locale)
	if err != nil {
		return sorted, false, err
	}

	filled := months.Fill(migrated, schema)
	current, added := months.EnsureCurrent(filled, s.sessions.opts.Now(), schema)
	return current, didMigrate || added, nil
}

func (s *Session) ensureCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blocked != nil {
		return
	}
	next, added := months.EnsureCurrent(s.months, s.sessions.opts.Now(), categories.ForLocale(s.locale()))
	if added {
		s.months = next
		s.scheduleSave()
	}
}

// scheduleSave must be called with mu held.
func (s *Session) scheduleSave() {
	snapshot := models.CloneRecords(s.months)
	s.saver.Schedule(func() { s.persist(snapshot) })
}

func (s *Session) persist(records []models.MonthRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), s.sessions.opts.SaveTimeout)
	defer cancel()

	updatedAt, err := s.sessions.facade.SaveMonths(ctx, s.userID, records)
	if err != nil {
		log.Error().Err(err).Str("user_id", s.userID).Int("months", len(records)).Msg("failed to save months")
	}
	if updatedAt.IsZero() {
		return
	}
	s.mu.Lock()
	s.updatedAt = updatedAt
	s.mu.Unlock()
}

func (s *Session) apply(fn func(records []models.MonthRecord, opts months.UpdateOptions) ([]models.MonthRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blocked != nil {
		return s.blocked
	}

	opts := months.UpdateOptions{AutoCash: s.sessions.opts.AutoCash, Schema: categories.ForLocale(s.locale())}
	next, err := fn(s.months, opts)
	if err != nil {
		return err
	}
	s.months = next
	s.scheduleSave()
	return nil
}

// Update sets one category value of one month.
func (s *Session) Update(id models.Month, t models.CategoryType, key string, value float64) error {
	return s.apply(func(records []models.MonthRecord, opts months.UpdateOptions) ([]models.MonthRecord, error) {
		return months.Update(records, id, t, key, value, opts)
	})
}

func (s *Session) SetCollaboratesInDebt(id models.Month, value bool) error {
	return s.apply(func(records []models.MonthRecord, _ months.UpdateOptions) ([]models.MonthRecord, error) {
		return months.SetCollaboratesInDebt(records, id, value)
	})
}

func (s *Session) AddPrevious() error {
	return s.apply(func(records []models.MonthRecord, opts months.UpdateOptions) ([]models.MonthRecord, error) {
		return months.AddPrevious(records, opts.Schema)
	})
}

func (s *Session) RemoveOldest() error {
	return s.apply(func(records []models.MonthRecord, _ months.UpdateOptions) ([]models.MonthRecord, error) {
		return months.RemoveOldest(records)
	})
}

// Allocate moves a month's available funds onto an investment category.
func (s *Session) Allocate(id models.Month, category string) (float64, error) {
	var amount float64
	err := s.apply(func(records []models.MonthRecord, opts months.UpdateOptions) ([]models.MonthRecord, error) {
		out, allocated, err := months.Allocate(records, id, category, opts)
		amount = allocated
		return out, err
	})
	return amount, err
}

// ErrInvalidImport wraps every reason an import is rejected.
var ErrInvalidImport = errors.New("invalid import")

// Replace swaps the whole working copy, as done by an import. The records
// are validated and migrated to the session locale before anything changes.
func (s *Session) Replace(records []models.MonthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locale := s.locale()
	sorted := months.Sort(records)
	if err := months.Validate(sorted); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	migrated, _, err := migration.Normalize(sorted, locale)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}
	schema := categories.ForLocale(locale)
	next, _ := months.EnsureCurrent(months.Fill(migrated, schema), s.sessions.opts.Now(), schema)
	s.months = next
	s.blocked = nil
	s.scheduleSave()
	return nil
}

// UpdateConfig replaces the goals. The locale is always kept; SetLocale
// changes it together with the records.
func (s *Session) UpdateConfig(ctx context.Context, cfg models.UserConfig) models.UserConfig {
	s.mu.Lock()
	cfg.Locale = s.config.Locale
	s.config = cfg
	s.mu.Unlock()

	if err := s.sessions.facade.SaveConfig(ctx, s.userID, cfg); err != nil {
		log.Error().Err(err).Str("user_id", s.userID).Msg("failed to save config")
	}
	return cfg
}

// SetLocale switches the category language, migrating the records.
func (s *Session) SetLocale(ctx context.Context, to categories.Locale) error {
	if !to.Valid() {
		return fmt.Errorf("unsupported locale %q", to)
	}
	s.mu.Lock()
	if s.blocked != nil {
		s.mu.Unlock()
		return s.blocked
	}
	from := s.locale()
	if from == to {
		s.mu.Unlock()
		return nil
	}
	migrated, err := migration.Migrate(s.months, from, to)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.months = months.Fill(migrated, categories.ForLocale(to))
	s.config.Locale = string(to)
	cfg := s.config
	s.scheduleSave()
	s.mu.Unlock()

	if err := s.sessions.facade.SaveConfig(ctx, s.userID, cfg); err != nil {
		log.Error().Err(err).Str("user_id", s.userID).Msg("failed to save config")
	}
	return nil
}
