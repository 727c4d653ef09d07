package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/4kphotoz/website/pkg/models"
	"github.com/4kphotoz/website/pkg/stores"
)

type SettingsServicer interface {
	GetSettings(ctx context.Context) (models.AdminSettings, error)
	UpdateSettings(ctx context.Context, update SettingsUpdate) (models.AdminSettings, error)
	SetAlbumVisibility(ctx context.Context, albumID string, visible bool) error
}

/*
SettingsUpdate carries the optional parts of a settings write. A nil field
is left untouched.
*/
type SettingsUpdate struct {
	HighlightImages []string                     `json:"highlightImages"`
	VisibleAlbums   map[string]bool              `json:"visibleAlbums"`
	PageImages      map[string]map[string]string `json:"pageImages"`
}

func (u SettingsUpdate) IsEmpty() bool {
	return u.HighlightImages == nil && u.VisibleAlbums == nil && u.PageImages == nil
}

type SettingsServiceConfig struct {
	Repository stores.SettingsRepository
}

type SettingsService struct {
	repository stores.SettingsRepository

	// writes are read-modify-write on one document
	mu *sync.Mutex
}

func NewSettingsService(config SettingsServiceConfig) SettingsService {
	return SettingsService{
		repository: config.Repository,
		mu:         &sync.Mutex{},
	}
}

func (s SettingsService) GetSettings(ctx context.Context) (models.AdminSettings, error) {
	settings, err := s.repository.GetSettings(ctx)
	if err != nil {
		return settings, fmt.Errorf("error reading admin settings: %w", err)
	}

	return settings, nil
}

/*
UpdateSettings validates the whole update before writing anything, then
replaces only the targeted values. An unknown page or section rejects the
entire update.
*/
func (s SettingsService) UpdateSettings(ctx context.Context, update SettingsUpdate) (models.AdminSettings, error) {
	var (
		err      error
		settings models.AdminSettings
	)

	if err = validateSettingsUpdate(update); err != nil {
		return settings, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if settings, err = s.repository.GetSettings(ctx); err != nil {
		return settings, fmt.Errorf("error reading admin settings: %w", err)
	}

	if update.HighlightImages != nil {
		settings.HighlightImages = append([]string{}, update.HighlightImages...)
	}

	if update.VisibleAlbums != nil {
		settings.VisibleAlbums = make(map[string]bool, len(update.VisibleAlbums))

		for id, visible := range update.VisibleAlbums {
			settings.VisibleAlbums[id] = visible
		}
	}

	for page, sections := range update.PageImages {
		for section, image := range sections {
			settings.PageImages[models.Page(page)][section] = image
		}
	}

	if err = s.repository.SaveSettings(ctx, settings); err != nil {
		return settings, fmt.Errorf("error saving admin settings: %w", err)
	}

	return settings, nil
}

func (s SettingsService) SetAlbumVisibility(ctx context.Context, albumID string, visible bool) error {
	var (
		err      error
		settings models.AdminSettings
	)

	if albumID == "" {
		return NewValidationError("Album ID required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if settings, err = s.repository.GetSettings(ctx); err != nil {
		return fmt.Errorf("error reading admin settings: %w", err)
	}

	settings.VisibleAlbums[albumID] = visible

	if err = s.repository.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("error saving admin settings: %w", err)
	}

	return nil
}

func validateSettingsUpdate(update SettingsUpdate) error {
	if update.HighlightImages != nil && len(update.HighlightImages) != models.HighlightImageCount {
		return NewValidationError("highlightImages must contain exactly %d images", models.HighlightImageCount)
	}

	for page, sections := range update.PageImages {
		if err := models.ValidatePage(page); err != nil {
			return &ValidationError{Message: err.Error(), Err: err}
		}

		for section := range sections {
			if err := models.ValidatePageSection(page, section); err != nil {
				return &ValidationError{Message: err.Error(), Err: err}
			}
		}
	}

	return nil
}
