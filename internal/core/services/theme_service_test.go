package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/loan_dashboard/internal/apperrors"
	"github.com/SscSPs/loan_dashboard/internal/core/domain"
	"github.com/SscSPs/loan_dashboard/internal/core/services"
)

type ThemeServiceTestSuite struct {
	suite.Suite
	repo *MockThemeRepository
	svc  *services.ThemeService
	ctx  context.Context
}

func (s *ThemeServiceTestSuite) SetupTest() {
	s.repo = new(MockThemeRepository)
	s.svc = services.NewThemeService(s.repo)
	s.ctx = context.Background()
}

func TestThemeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ThemeServiceTestSuite))
}

func (s *ThemeServiceTestSuite) TestLoadAndGet() {
	s.repo.On("ListThemes", mock.Anything).Return(map[string]domain.Theme{
		"Dark@Example.com": domain.ThemeDark,
		"bad@example.com":  domain.Theme("neon"),
	}, nil).Once()

	s.Require().NoError(s.svc.Load(s.ctx))

	s.Equal(domain.ThemeDark, s.svc.GetTheme("dark@example.com"))
	s.Equal(domain.DefaultTheme, s.svc.GetTheme("bad@example.com"))
	s.Equal(domain.DefaultTheme, s.svc.GetTheme("new@example.com"))
}

func (s *ThemeServiceTestSuite) TestLoad_Failure() {
	s.repo.On("ListThemes", mock.Anything).Return(nil, apperrors.ErrUnavailable).Once()
	s.ErrorIs(s.svc.Load(s.ctx), apperrors.ErrUnavailable)
}

func (s *ThemeServiceTestSuite) TestSetTheme_PersistsAndPublishes() {
	ctx, cancel := context.WithCancel(s.ctx)
	changes := s.svc.Subscribe(ctx)
	s.repo.On("SaveTheme", mock.Anything, "user@example.com", domain.ThemeDark).Return(nil).Once()

	s.Require().NoError(s.svc.SetTheme(s.ctx, "User@example.com", domain.ThemeDark))

	s.Equal(domain.ThemeDark, s.svc.GetTheme("user@example.com"))
	select {
	case change := <-changes:
		s.Equal(domain.ThemeChange{Identity: "user@example.com", Theme: domain.ThemeDark}, change)
	case <-time.After(time.Second):
		s.Fail("no theme change published")
	}

	cancel()
	s.Eventually(func() bool {
		_, open := <-changes
		return !open
	}, time.Second, 10*time.Millisecond)
}

func (s *ThemeServiceTestSuite) TestSetTheme_Invalid() {
	err := s.svc.SetTheme(s.ctx, "user@example.com", domain.Theme("neon"))
	s.ErrorIs(err, apperrors.ErrValidation)
	s.repo.AssertNotCalled(s.T(), "SaveTheme", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ThemeServiceTestSuite) TestSetTheme_StoreFailureKeepsPrevious() {
	s.repo.On("SaveTheme", mock.Anything, "user@example.com", domain.ThemeDark).Return(apperrors.ErrUnavailable).Once()

	err := s.svc.SetTheme(s.ctx, "user@example.com", domain.ThemeDark)

	s.Error(err)
	s.Equal(domain.DefaultTheme, s.svc.GetTheme("user@example.com"))
}
