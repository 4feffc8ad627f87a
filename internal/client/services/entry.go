package services

import (
	"context"
	"fmt"
	"sync"

	"vaultpass/internal/client/api"
	"vaultpass/internal/client/models"
	"vaultpass/internal/client/session"
	"vaultpass/internal/logging"
)

// EntryService wraps the credential-entry endpoints. List results are cached
// per (page, pageSize) for the lifetime of the session; any mutation and any
// sign-out drops the cache.
type EntryService interface {
	List(ctx context.Context, page, pageSize int) (*models.EntryPage, error)
	Get(ctx context.Context, entryID string) (*models.Entry, error)
	Add(ctx context.Context, in models.EntryCreate) (*models.Entry, error)
	Update(ctx context.Context, entryID string, in models.EntryUpdate) (*models.Entry, error)
	Delete(ctx context.Context, entryID string) error
	Reveal(ctx context.Context, entryID string) (*models.EntryReveal, error)
	SearchByWebsite(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error)
	SearchByEmail(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error)
	GeneratePassword(ctx context.Context, opts models.GeneratorOptions) (*models.GeneratedPassword, error)
}

type listKey struct {
	page     int
	pageSize int
}

type entryService struct {
	client api.Client
	log    logging.Logger

	mu    sync.Mutex
	cache map[listKey]*models.EntryPage
}

// NewEntryService constructs an EntryService. It subscribes to the session
// so cached results never outlive the session they belong to.
func NewEntryService(client api.Client, sess *session.Manager, log logging.Logger) EntryService {
	s := &entryService{
		client: client,
		log:    log.With("component", "entries"),
		cache:  make(map[listKey]*models.EntryPage),
	}
	sess.Subscribe(func(snap session.Snapshot) {
		if !snap.SignedIn() {
			s.invalidate()
		}
	})
	return s
}

func (s *entryService) List(ctx context.Context, page, pageSize int) (*models.EntryPage, error) {
	key := listKey{page: page, pageSize: pageSize}

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	res, err := s.client.ListEntries(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	s.mu.Lock()
	s.cache[key] = res
	s.mu.Unlock()
	return res, nil
}

func (s *entryService) Get(ctx context.Context, entryID string) (*models.Entry, error) {
	return s.client.GetEntry(ctx, entryID)
}

func (s *entryService) Add(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	e, err := s.client.CreateEntry(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}
	s.invalidate()
	return e, nil
}

func (s *entryService) Update(ctx context.Context, entryID string, in models.EntryUpdate) (*models.Entry, error) {
	e, err := s.client.UpdateEntry(ctx, entryID, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	s.invalidate()
	return e, nil
}

func (s *entryService) Delete(ctx context.Context, entryID string) error {
	if err := s.client.DeleteEntry(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	s.invalidate()
	return nil
}

// Reveal asks the server to decrypt the entry's password. The plaintext only
// ever exists server-side and in the returned value; it is never cached.
func (s *entryService) Reveal(ctx context.Context, entryID string) (*models.EntryReveal, error) {
	return s.client.RevealEntry(ctx, entryID)
}

func (s *entryService) SearchByWebsite(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	return s.client.SearchByWebsite(ctx, query, page, pageSize)
}

func (s *entryService) SearchByEmail(ctx context.Context, query string, page, pageSize int) (*models.EntryPage, error) {
	return s.client.SearchByEmail(ctx, query, page, pageSize)
}

func (s *entryService) GeneratePassword(ctx context.Context, opts models.GeneratorOptions) (*models.GeneratedPassword, error) {
	return s.client.GeneratePassword(ctx, opts)
}

func (s *entryService) invalidate() {
	s.mu.Lock()
	s.cache = make(map[listKey]*models.EntryPage)
	s.mu.Unlock()
}
