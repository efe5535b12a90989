// Package prefs mirrors a small set of user preferences between the local
// fast-path cache and the remote store. The remote value is authoritative
// once a principal is present; the local cache serves the pre-authentication
// window.
package prefs

import (
	"context"
	"errors"
	"fmt"

	"github.com/toxidity-18/Veritas/internal/common"
	"github.com/toxidity-18/Veritas/internal/localcache"
	"github.com/toxidity-18/Veritas/internal/logging"
	"github.com/toxidity-18/Veritas/internal/models"
	"github.com/toxidity-18/Veritas/internal/store/repositories/preferences"
)

// principalSource yields the current session, nil when unauthenticated.
// The session manager satisfies this.
type principalSource interface {
	Current() *models.Session
}

type Synchronizer struct {
	prefs  preferences.Repository
	cache  *localcache.Cache
	source principalSource
	logger logging.Logger
}

func NewSynchronizer(repo preferences.Repository, cache *localcache.Cache, source principalSource, logger logging.Logger) *Synchronizer {
	return &Synchronizer{prefs: repo, cache: cache, source: source, logger: logger}
}

// Theme resolves the active theme. Authenticated: the remote row wins and
// overwrites the local cache; a missing row is lazily created with the
// default. Unauthenticated: the local cache, falling back to light.
func (s *Synchronizer) Theme(ctx context.Context) (models.Theme, error) {
	sess := s.source.Current()
	if sess == nil {
		cached, err := s.cache.Get(ctx, localcache.ThemeKey)
		if err != nil {
			return models.ThemeLight, err
		}
		if cached == "" {
			return models.ThemeLight, nil
		}
		return models.Theme(cached), nil
	}

	theme := models.ThemeLight
	p, err := s.prefs.GetByUser(ctx, sess.PrincipalID)
	switch {
	case err == nil:
		theme = p.Theme
	case errors.Is(err, common.ErrorNotFound):
		insertErr := s.prefs.Insert(ctx, models.DefaultPreferences(sess.PrincipalID))
		if insertErr != nil && !errors.Is(insertErr, common.ErrorAlreadyExists) {
			return models.ThemeLight, fmt.Errorf("preference init error: %w", insertErr)
		}
	default:
		return models.ThemeLight, err
	}

	if err := s.cache.Set(ctx, localcache.ThemeKey, string(theme)); err != nil {
		s.logger.Warn(ctx, "local theme cache update failed", "error", err)
	}

	return theme, nil
}

// SetTheme applies a theme locally and, when authenticated, upserts it
// remotely keyed on the user id so the first write creates the row and later
// writes update it.
func (s *Synchronizer) SetTheme(ctx context.Context, theme models.Theme) error {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return fmt.Errorf("%w: unknown theme %q", common.ErrorValidation, theme)
	}

	if err := s.cache.Set(ctx, localcache.ThemeKey, string(theme)); err != nil {
		return err
	}

	sess := s.source.Current()
	if sess == nil {
		return nil
	}

	return s.prefs.UpsertTheme(ctx, sess.PrincipalID, theme)
}

// ToggleTheme flips light/dark and returns the new theme.
func (s *Synchronizer) ToggleTheme(ctx context.Context) (models.Theme, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return current, err
	}

	next := models.ThemeLight
	if current == models.ThemeLight {
		next = models.ThemeDark
	}

	if err := s.SetTheme(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// Notifications returns the user's notification settings, lazily creating
// the preferences row with defaults on first read.
func (s *Synchronizer) Notifications(ctx context.Context) (*models.UserPreferences, error) {
	sess := s.source.Current()
	if sess == nil {
		return nil, common.ErrorUnauthorized
	}

	p, err := s.prefs.GetByUser(ctx, sess.PrincipalID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	defaults := models.DefaultPreferences(sess.PrincipalID)
	if err := s.prefs.Insert(ctx, defaults); err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return nil, fmt.Errorf("preference init error: %w", err)
	}

	return defaults, nil
}

// SaveNotifications persists the notification group through the same
// upsert-on-user_id pattern, independent of the theme field.
func (s *Synchronizer) SaveNotifications(ctx context.Context, email, sms bool, freq models.NotificationFrequency) error {
	switch freq {
	case models.FrequencyImmediate, models.FrequencyDaily, models.FrequencyWeekly:
	default:
		return fmt.Errorf("%w: unknown notification frequency %q", common.ErrorValidation, freq)
	}

	sess := s.source.Current()
	if sess == nil {
		return common.ErrorUnauthorized
	}

	return s.prefs.UpsertNotifications(ctx, sess.PrincipalID, email, sms, freq)
}
