package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/wisync/internal/domain"
	"github.com/alexanderramin/wisync/internal/repository"
)

type settingsService struct {
	settings repository.SettingsRepo
	tokens   TokenCache
	observer UseCaseObserver
}

// NewSettingsService builds a SettingsService. tokens may be nil when the
// process authenticates with a static credential.
func NewSettingsService(settings repository.SettingsRepo, tokens TokenCache, observers ...UseCaseObserver) SettingsService {
	return &settingsService{
		settings: settings,
		tokens:   tokens,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *settingsService) Get(ctx context.Context) (domain.Config, error) {
	cfg, err := s.settings.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Config{}, nil
	}
	if err != nil {
		return domain.Config{}, fmt.Errorf("loading settings: %w", err)
	}
	return cfg, nil
}

func (s *settingsService) Save(ctx context.Context, cfg domain.Config) (saved domain.Config, err error) {
	done := Track(ctx, s.observer, "save-config", nil)
	defer func() { done(err) }()

	cfg = cfg.Normalized()
	if err = cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	if err = s.settings.Save(ctx, cfg); err != nil {
		return domain.Config{}, fmt.Errorf("saving settings: %w", err)
	}
	if s.tokens != nil {
		s.tokens.Configure(cfg.AuthHelperPath)
		s.tokens.Clear()
	}
	return cfg, nil
}
