package stores

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/4kphotoz/website/pkg/models"
	"github.com/goccy/go-json"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

const (
	settingsKey     = "settings"
	signupKeyPrefix = "signup:"
)

/*
KeyValueDriver is the storage primitive behind the memory, file, badger and
S3 backends. Get returns ErrKeyNotFound for a missing key.
*/
type KeyValueDriver interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

/*
KeyValueStore implements SettingsRepository and SignupRepository on top of a
KeyValueDriver. Settings live under one key; every signup gets its own key.
*/
type KeyValueStore struct {
	driver KeyValueDriver
	mu     sync.Mutex
	now    func() time.Time
}

func NewKeyValueStore(driver KeyValueDriver) *KeyValueStore {
	return &KeyValueStore{
		driver: driver,
		now:    time.Now,
	}
}

func (s *KeyValueStore) GetSettings(ctx context.Context) (models.AdminSettings, error) {
	var (
		err      error
		b        []byte
		settings models.AdminSettings
	)

	if b, err = s.driver.Get(ctx, settingsKey); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return models.DefaultAdminSettings(), nil
		}

		return settings, fmt.Errorf("error reading settings: %w", err)
	}

	if err = json.Unmarshal(b, &settings); err != nil {
		return settings, fmt.Errorf("error decoding settings: %w", err)
	}

	settings.Normalize()
	return settings, nil
}

func (s *KeyValueStore) SaveSettings(ctx context.Context, settings models.AdminSettings) error {
	b, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error encoding settings: %w", err)
	}

	if err = s.driver.Put(ctx, settingsKey, b); err != nil {
		return fmt.Errorf("error writing settings: %w", err)
	}

	return nil
}

func (s *KeyValueStore) AddSignup(ctx context.Context, input models.AlertSignupInput) (models.AlertSignup, error) {
	signup := models.NewAlertSignup(input, s.now())

	if err := s.putSignup(ctx, signup); err != nil {
		return models.AlertSignup{}, err
	}

	return signup, nil
}

func (s *KeyValueStore) ListActiveSignups(ctx context.Context) ([]models.AlertSignup, error) {
	return s.listSignups(ctx, func(signup models.AlertSignup) bool {
		return signup.IsActive
	})
}

func (s *KeyValueStore) ListAllSignups(ctx context.Context) ([]models.AlertSignup, error) {
	return s.listSignups(ctx, func(models.AlertSignup) bool {
		return true
	})
}

func (s *KeyValueStore) SignupsBySport(ctx context.Context, sport string) ([]models.AlertSignup, error) {
	return s.listSignups(ctx, func(signup models.AlertSignup) bool {
		return signup.IsActive && signup.Sport == sport
	})
}

func (s *KeyValueStore) SignupsByGraduationYear(ctx context.Context, year string) ([]models.AlertSignup, error) {
	return s.listSignups(ctx, func(signup models.AlertSignup) bool {
		return signup.IsActive && signup.GraduationYear == year
	})
}

func (s *KeyValueStore) DeactivateSignup(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	signup, err := s.getSignup(ctx, id)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	signup.IsActive = false

	if err = s.putSignup(ctx, signup); err != nil {
		return false, err
	}

	return true, nil
}

func (s *KeyValueStore) DeleteSignup(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.getSignup(ctx, id)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	if err = s.driver.Delete(ctx, signupKeyPrefix+id); err != nil {
		return false, fmt.Errorf("error deleting signup %s: %w", id, err)
	}

	return true, nil
}

func (s *KeyValueStore) Close() error {
	return s.driver.Close()
}

func (s *KeyValueStore) getSignup(ctx context.Context, id string) (models.AlertSignup, error) {
	var (
		err    error
		b      []byte
		signup models.AlertSignup
	)

	if id == "" {
		return signup, ErrKeyNotFound
	}

	if b, err = s.driver.Get(ctx, signupKeyPrefix+id); err != nil {
		return signup, err
	}

	if err = json.Unmarshal(b, &signup); err != nil {
		return signup, fmt.Errorf("error decoding signup %s: %w", id, err)
	}

	return signup, nil
}

func (s *KeyValueStore) putSignup(ctx context.Context, signup models.AlertSignup) error {
	b, err := json.Marshal(signup)
	if err != nil {
		return fmt.Errorf("error encoding signup %s: %w", signup.ID, err)
	}

	if err = s.driver.Put(ctx, signupKeyPrefix+signup.ID, b); err != nil {
		return fmt.Errorf("error writing signup %s: %w", signup.ID, err)
	}

	return nil
}

func (s *KeyValueStore) listSignups(ctx context.Context, include func(models.AlertSignup) bool) ([]models.AlertSignup, error) {
	keys, err := s.driver.Keys(ctx, signupKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("error listing signups: %w", err)
	}

	result := []models.AlertSignup{}

	for _, key := range keys {
		signup, err := s.getSignup(ctx, strings.TrimPrefix(key, signupKeyPrefix))
		if errors.Is(err, ErrKeyNotFound) {
			// deleted between Keys and Get
			continue
		}

		if err != nil {
			return nil, err
		}

		if include(signup) {
			result = append(result, signup)
		}
	}

	sortSignups(result)
	return result, nil
}

func sortSignups(signups []models.AlertSignup) {
	slices.SortFunc(signups, func(a, b models.AlertSignup) int {
		if c := a.SignupDate.Compare(b.SignupDate); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}
