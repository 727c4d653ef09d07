package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/4kphotoz/website/pkg/models"
	"github.com/adampresley/adamgokit/s3"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSqlite = "sqlite"
	BackendBadger = "badger"
	BackendS3     = "s3"
)

/*
SettingsRepository persists the singleton AdminSettings document. A store
that has never been written returns models.DefaultAdminSettings.
*/
type SettingsRepository interface {
	GetSettings(ctx context.Context) (models.AdminSettings, error)
	SaveSettings(ctx context.Context, settings models.AdminSettings) error
}

/*
SignupRepository persists alert signups. Deactivate and Delete report false
(with a nil error) when the id does not exist. Lists are ordered by signup
date, oldest first.
*/
type SignupRepository interface {
	AddSignup(ctx context.Context, input models.AlertSignupInput) (models.AlertSignup, error)
	ListActiveSignups(ctx context.Context) ([]models.AlertSignup, error)
	ListAllSignups(ctx context.Context) ([]models.AlertSignup, error)
	DeactivateSignup(ctx context.Context, id string) (bool, error)
	DeleteSignup(ctx context.Context, id string) (bool, error)
	SignupsBySport(ctx context.Context, sport string) ([]models.AlertSignup, error)
	SignupsByGraduationYear(ctx context.Context, year string) ([]models.AlertSignup, error)
}

type Store interface {
	SettingsRepository
	SignupRepository
	Close() error
}

type StoreConfig struct {
	Backend   string
	DataFile  string
	DSN       string
	BadgerDir string
	S3Client  s3.S3Client
	Bucket    string
	Prefix    string
	Region    string
}

/*
NewStore opens the backend named in config.Backend.
*/
func NewStore(ctx context.Context, config StoreConfig) (Store, error) {
	var (
		err    error
		driver KeyValueDriver
	)

	switch strings.ToLower(config.Backend) {
	case "", BackendMemory:
		driver = NewMemoryDriver()

	case BackendFile:
		if driver, err = OpenFileDriver(config.DataFile); err != nil {
			return nil, err
		}

	case BackendBadger:
		if driver, err = OpenBadgerDriver(config.BadgerDir); err != nil {
			return nil, err
		}

	case BackendS3:
		s3Driver := NewS3Driver(config.S3Client, config.Bucket, config.Prefix)

		if err = s3Driver.EnsureBucket(config.Region); err != nil {
			return nil, err
		}

		driver = s3Driver

	case BackendSqlite:
		db, err := ConnectSqlite(ctx, config.DSN)
		if err != nil {
			return nil, err
		}

		return NewSqliteStore(db), nil

	default:
		return nil, fmt.Errorf("unknown store backend '%s'", config.Backend)
	}

	return NewKeyValueStore(driver), nil
}
