// ABOUTME: Contact service binding collection operations to a persistent store
// ABOUTME: Loads the collection, applies one operation and hands the new slice to the store
package contacts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/donorbase/models"
)

// Store owns the authoritative collection. Replace receives every new collection produced
// by a successful mutation.
type Store interface {
	Load(ctx context.Context) ([]models.Contact, error)
	Replace(ctx context.Context, list []models.Contact) error
}

// Notifier surfaces user-facing feedback such as import results.
type Notifier interface {
	Notify(level, message string)
}

// Notification levels.
const (
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Operation transforms a collection into a new one.
type Operation func(list []models.Contact) ([]models.Contact, error)

type Service struct {
	store    Store
	logger   *zap.Logger
	notifier Notifier
	now      func() time.Time

	// mu keeps load-apply-replace cycles single-writer within the process.
	mu sync.Mutex
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		logger:   logger,
		notifier: &logNotifier{logger: logger},
		now:      time.Now,
	}
}

// SetClock overrides the wall clock used for dates.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetNotifier replaces the default log-backed notifier.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// List returns the current collection.
func (s *Service) List(ctx context.Context) ([]models.Contact, error) {
	list, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	return list, nil
}

// Get returns one contact by id.
func (s *Service) Get(ctx context.Context, id string) (models.Contact, error) {
	list, err := s.List(ctx)
	if err != nil {
		return models.Contact{}, err
	}
	return Get(list, id)
}

// Mutate runs op against the stored collection and persists the result.
func (s *Service) Mutate(ctx context.Context, op Operation) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	next, err := op(list)
	if err != nil {
		return nil, err
	}

	if err := s.store.Replace(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save contacts: %w", err)
	}
	return next, nil
}

// Create validates and stores a new contact.
func (s *Service) Create(ctx context.Context, c models.Contact) (models.Contact, error) {
	next, err := s.Mutate(ctx, func(list []models.Contact) ([]models.Contact, error) {
		return Add(list, c)
	})
	if err != nil {
		return models.Contact{}, err
	}

	created := next[len(next)-1]
	s.logger.Info("contact created",
		zap.String("contact_id", created.ID),
		zap.String("name", created.FullName()),
		zap.Int("completeness", created.DataCompleteness),
	)
	return created, nil
}

// Update applies fn to the stored contact.
func (s *Service) Update(ctx context.Context, id string, fn UpdateFunc) (models.Contact, error) {
	next, err := s.Mutate(ctx, func(list []models.Contact) ([]models.Contact, error) {
		return Apply(list, id, fn, s.now())
	})
	if err != nil {
		return models.Contact{}, err
	}

	updated, err := Get(next, id)
	if err != nil {
		return models.Contact{}, err
	}
	s.logger.Info("contact updated",
		zap.String("contact_id", id),
		zap.Int("completeness", updated.DataCompleteness),
	)
	return updated, nil
}

// Delete removes a contact.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.Mutate(ctx, func(list []models.Contact) ([]models.Contact, error) {
		return Remove(list, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("contact deleted", zap.String("contact_id", id))
	return nil
}

// ImportVCF merges the cards in text into the stored collection. An import that yields no
// contacts is reported through the notifier and returned as ErrNoValidContactsFound.
func (s *Service) ImportVCF(ctx context.Context, text string, opts ImportOptions) (ImportResult, error) {
	var result ImportResult
	_, err := s.Mutate(ctx, func(list []models.Contact) ([]models.Contact, error) {
		next, res, err := ImportVCF(list, text, s.now(), opts)
		result = res
		return next, err
	})

	switch {
	case errors.Is(err, models.ErrNoValidContactsFound):
		s.notifier.Notify(NotifyWarning, "No valid contacts found in file")
		return result, err
	case err != nil:
		s.notifier.Notify(NotifyError, fmt.Sprintf("Import failed: %v", err))
		return result, err
	}

	s.logger.Info("vcard import finished",
		zap.Int("decoded", result.Decoded),
		zap.Int("imported", result.Imported),
		zap.Int("duplicates", result.Duplicates),
	)
	s.notifier.Notify(NotifySuccess, fmt.Sprintf("Imported %d contact(s)", result.Imported))
	return result, nil
}

type logNotifier struct {
	logger *zap.Logger
}

func (n *logNotifier) Notify(level, message string) {
	switch level {
	case NotifyError:
		n.logger.Error(message)
	case NotifyWarning:
		n.logger.Warn(message)
	default:
		n.logger.Info(message)
	}
}
