package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/loan_dashboard/internal/core/ports/services"
)

const themeSubscriberBuffer = 16

// ThemeService keeps every identity's theme in memory and writes through to the
// configured preference store.
type ThemeService struct {
	BaseService
	repo portsrepo.ThemeRepositoryFacade

	mu          sync.RWMutex
	themes      map[string]domain.Theme
	subscribers map[chan domain.ThemeChange]struct{}
}

// NewThemeService creates the theme settings store.
func NewThemeService(repo portsrepo.ThemeRepositoryFacade) *ThemeService {
	return &ThemeService{
		repo:        repo,
		themes:      make(map[string]domain.Theme),
		subscribers: make(map[chan domain.ThemeChange]struct{}),
	}
}

var _ portssvc.ThemeSvc = (*ThemeService)(nil)

func themeKey(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

func (s *ThemeService) Load(ctx context.Context) error {
	stored, err := s.repo.ListThemes(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load theme preferences")
		return fmt.Errorf("failed to load theme preferences: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for identity, theme := range stored {
		if _, err := domain.ParseTheme(string(theme)); err != nil {
			s.LogWarn(ctx, "Ignoring stored theme", slog.String("identity", identity), slog.String("theme", string(theme)))
			continue
		}
		s.themes[themeKey(identity)] = theme
	}
	s.LogInfo(ctx, "Theme preferences loaded", slog.Int("count", len(s.themes)))
	return nil
}

func (s *ThemeService) GetTheme(identity string) domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if theme, ok := s.themes[themeKey(identity)]; ok {
		return theme
	}
	return domain.DefaultTheme
}

func (s *ThemeService) SetTheme(ctx context.Context, identity string, theme domain.Theme) error {
	if _, err := domain.ParseTheme(string(theme)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	key := themeKey(identity)
	if err := s.repo.SaveTheme(ctx, key, theme); err != nil {
		s.LogError(ctx, err, "Failed to store theme preference", slog.String("identity", key))
		return fmt.Errorf("failed to store theme preference: %w", err)
	}

	s.mu.Lock()
	s.themes[key] = theme
	change := domain.ThemeChange{Identity: key, Theme: theme}
	for ch := range s.subscribers {
		select {
		case ch <- change:
		default:
			s.LogWarn(ctx, "Dropping theme change for slow subscriber", slog.String("identity", key))
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *ThemeService) Subscribe(ctx context.Context) <-chan domain.ThemeChange {
	ch := make(chan domain.ThemeChange, themeSubscriberBuffer)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subscribers, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}
