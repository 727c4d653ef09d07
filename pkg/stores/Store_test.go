package stores

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/4kphotoz/website/pkg/models"
)

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		BackendMemory: func(t *testing.T) Store {
			return NewKeyValueStore(NewMemoryDriver())
		},
		BackendFile: func(t *testing.T) Store {
			driver, err := OpenFileDriver(filepath.Join(t.TempDir(), "admin-data.json"))
			if err != nil {
				t.Fatalf("OpenFileDriver() error = %v", err)
			}

			return NewKeyValueStore(driver)
		},
		BackendBadger: func(t *testing.T) Store {
			driver, err := OpenBadgerDriver("")
			if err != nil {
				t.Fatalf("OpenBadgerDriver() error = %v", err)
			}

			return NewKeyValueStore(driver)
		},
		BackendSqlite: func(t *testing.T) Store {
			dsn := "file:" + filepath.Join(t.TempDir(), "test.db")

			db, err := ConnectSqlite(context.Background(), dsn)
			if err != nil {
				t.Fatalf("ConnectSqlite() error = %v", err)
			}

			return NewSqliteStore(db)
		},
	}
}

func TestSettingsDefaultsWhenEmpty(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			defer store.Close()

			settings, err := store.GetSettings(context.Background())
			if err != nil {
				t.Fatalf("GetSettings() error = %v", err)
			}

			if len(settings.HighlightImages) != models.HighlightImageCount {
				t.Errorf("len(HighlightImages) = %d, want %d", len(settings.HighlightImages), models.HighlightImageCount)
			}

			if got := settings.PageImages[models.PageContact]["studio"]; got != models.FallbackImageRef {
				t.Errorf("contact.studio = %q, want %q", got, models.FallbackImageRef)
			}
		})
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			defer store.Close()

			settings := models.DefaultAdminSettings()
			settings.HighlightImages[0] = "/first.jpg"
			settings.VisibleAlbums["album-1"] = false
			settings.PageImages[models.PagePrintLab]["banners"] = "/banner.jpg"

			if err := store.SaveSettings(ctx, settings); err != nil {
				t.Fatalf("SaveSettings() error = %v", err)
			}

			got, err := store.GetSettings(ctx)
			if err != nil {
				t.Fatalf("GetSettings() error = %v", err)
			}

			if got.HighlightImages[0] != "/first.jpg" {
				t.Errorf("HighlightImages[0] = %q", got.HighlightImages[0])
			}

			if got.IsAlbumVisible("album-1") {
				t.Errorf("album-1 should be hidden")
			}

			if got.PageImages[models.PagePrintLab]["banners"] != "/banner.jpg" {
				t.Errorf("printLab.banners = %q", got.PageImages[models.PagePrintLab]["banners"])
			}

			if got.PageImages[models.PagePhotography]["portraits"] != models.FallbackImageRef {
				t.Errorf("photography.portraits changed to %q", got.PageImages[models.PagePhotography]["portraits"])
			}
		})
	}
}

func TestSignupLifecycle(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			defer store.Close()

			jane, err := store.AddSignup(ctx, models.AlertSignupInput{
				ParentName: "Jane Doe",
				Email:      "jane@x.com",
				Phone:      "555-1111",
				Sport:      "Football",
			})
			if err != nil {
				t.Fatalf("AddSignup() error = %v", err)
			}

			if jane.ID == "" || !jane.IsActive || jane.SignupDate.IsZero() {
				t.Fatalf("AddSignup() = %+v, want id, active and signup date", jane)
			}

			time.Sleep(2 * time.Millisecond)

			bob, err := store.AddSignup(ctx, models.AlertSignupInput{
				ParentName:     "Bob Roe",
				Email:          "bob@x.com",
				Phone:          "555-2222",
				Sport:          "Soccer",
				GraduationYear: "2027",
			})
			if err != nil {
				t.Fatalf("AddSignup() error = %v", err)
			}

			football, _ := store.SignupsBySport(ctx, "Football")
			if len(football) != 1 || football[0].ID != jane.ID {
				t.Errorf("SignupsBySport(Football) = %+v", football)
			}

			soccer, _ := store.SignupsBySport(ctx, "Soccer")
			if len(soccer) != 1 || soccer[0].ID != bob.ID {
				t.Errorf("SignupsBySport(Soccer) = %+v", soccer)
			}

			byYear, _ := store.SignupsByGraduationYear(ctx, "2027")
			if len(byYear) != 1 || byYear[0].ID != bob.ID {
				t.Errorf("SignupsByGraduationYear(2027) = %+v", byYear)
			}

			ok, err := store.DeactivateSignup(ctx, jane.ID)
			if err != nil || !ok {
				t.Fatalf("DeactivateSignup() = %v, %v", ok, err)
			}

			active, _ := store.ListActiveSignups(ctx)
			if len(active) != 1 || active[0].ID != bob.ID {
				t.Errorf("ListActiveSignups() = %+v", active)
			}

			all, _ := store.ListAllSignups(ctx)
			if len(all) != 2 || all[0].ID != jane.ID || all[0].IsActive {
				t.Errorf("ListAllSignups() = %+v", all)
			}

			football, _ = store.SignupsBySport(ctx, "Football")
			if len(football) != 0 {
				t.Errorf("deactivated signup still matched by sport")
			}

			ok, err = store.DeleteSignup(ctx, jane.ID)
			if err != nil || !ok {
				t.Fatalf("DeleteSignup() = %v, %v", ok, err)
			}

			all, _ = store.ListAllSignups(ctx)
			if len(all) != 1 || all[0].ID != bob.ID {
				t.Errorf("ListAllSignups() after delete = %+v", all)
			}
		})
	}
}

func TestUnknownSignupIDReturnsFalse(t *testing.T) {
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := factory(t)
			defer store.Close()

			if ok, err := store.DeactivateSignup(ctx, "missing"); ok || err != nil {
				t.Errorf("DeactivateSignup(missing) = %v, %v; want false, nil", ok, err)
			}

			if ok, err := store.DeleteSignup(ctx, "missing"); ok || err != nil {
				t.Errorf("DeleteSignup(missing) = %v, %v; want false, nil", ok, err)
			}
		})
	}
}

func TestFileDriverSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "admin-data.json")

	driver, err := OpenFileDriver(path)
	if err != nil {
		t.Fatalf("OpenFileDriver() error = %v", err)
	}

	store := NewKeyValueStore(driver)

	signup, err := store.AddSignup(ctx, models.AlertSignupInput{ParentName: "A", Email: "a@x.com", Phone: "1"})
	if err != nil {
		t.Fatalf("AddSignup() error = %v", err)
	}

	reopened, err := OpenFileDriver(path)
	if err != nil {
		t.Fatalf("OpenFileDriver() reopen error = %v", err)
	}

	all, err := NewKeyValueStore(reopened).ListAllSignups(ctx)
	if err != nil {
		t.Fatalf("ListAllSignups() error = %v", err)
	}

	if len(all) != 1 || all[0].ID != signup.ID {
		t.Errorf("ListAllSignups() after reopen = %+v", all)
	}
}

func TestS3DriverKeyMapping(t *testing.T) {
	d := NewS3Driver(nil, "bucket", "/site-data/")

	if got := d.objectKey("signup:abc"); got != "site-data/signup:abc.json" {
		t.Errorf("objectKey() = %q", got)
	}

	if key, ok := d.keyFromObject("site-data/settings.json"); !ok || key != "settings" {
		t.Errorf("keyFromObject() = %q, %v", key, ok)
	}

	if _, ok := d.keyFromObject("other/settings.json"); ok {
		t.Errorf("keyFromObject() accepted an object outside the prefix")
	}
}

func TestNewStoreRejectsUnknownBackend(t *testing.T) {
	if _, err := NewStore(context.Background(), StoreConfig{Backend: "postgres"}); err == nil {
		t.Errorf("NewStore(postgres) error = nil, want error")
	}
}
