package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/4kphotoz/website/pkg/lightroom"
	"github.com/4kphotoz/website/pkg/stores"
)

func newMemoryStore() *stores.KeyValueStore {
	return stores.NewKeyValueStore(stores.NewMemoryDriver())
}

type recordingSender struct {
	mu       sync.Mutex
	messages []EmailMessage
	failFor  map[string]bool
}

func (s *recordingSender) Send(_ context.Context, message EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, message)

	for _, to := range message.To {
		if s.failFor[to] {
			return errors.New("mailbox unavailable")
		}
	}

	return nil
}

func (s *recordingSender) sent() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]EmailMessage{}, s.messages...)
}

type fakeCatalog struct {
	configured  bool
	albums      []lightroom.AlbumResource
	albumsErr   error
	albumAssets map[string][]lightroom.AlbumAssetResource
	assetsErr   map[string]error
	assets      map[string]lightroom.AssetResource
	renditions  map[string][]lightroom.Rendition
	images      map[string]string

	mu      sync.Mutex
	fetched []string
}

func (c *fakeCatalog) Configured() bool {
	return c.configured
}

func (c *fakeCatalog) Albums(_ context.Context) ([]lightroom.AlbumResource, error) {
	return c.albums, c.albumsErr
}

func (c *fakeCatalog) AlbumAssets(_ context.Context, albumID string, _, _ int) ([]lightroom.AlbumAssetResource, error) {
	if err := c.assetsErr[albumID]; err != nil {
		return nil, err
	}

	return c.albumAssets[albumID], nil
}

func (c *fakeCatalog) Asset(_ context.Context, assetID string) (lightroom.AssetResource, error) {
	asset, ok := c.assets[assetID]
	if !ok {
		return asset, &lightroom.StatusError{URL: assetID, StatusCode: 404}
	}

	return asset, nil
}

func (c *fakeCatalog) Renditions(_ context.Context, assetID string) ([]lightroom.Rendition, error) {
	renditions, ok := c.renditions[assetID]
	if !ok {
		return nil, &lightroom.StatusError{URL: assetID, StatusCode: 404}
	}

	return renditions, nil
}

func (c *fakeCatalog) Fetch(_ context.Context, href string) (lightroom.Image, error) {
	c.mu.Lock()
	c.fetched = append(c.fetched, href)
	c.mu.Unlock()

	body, ok := c.images[href]
	if !ok {
		return lightroom.Image{}, &lightroom.StatusError{URL: href, StatusCode: 404}
	}

	return lightroom.Image{Body: []byte(body), ContentType: "image/jpeg"}, nil
}

func albumAsset(assetID, fileName string) lightroom.AlbumAssetResource {
	return lightroom.AlbumAssetResource{
		ID: "rel-" + assetID,
		Asset: lightroom.AssetResource{
			ID: assetID,
			Payload: lightroom.AssetPayload{
				ImportSource: lightroom.ImportSource{FileName: fileName},
				CaptureDate:  "2024-03-09T18:22:01",
			},
		},
	}
}

func containsAll(s string, parts ...string) bool {
	for _, part := range parts {
		if !strings.Contains(s, part) {
			return false
		}
	}

	return true
}

// slowSender takes delay per message unless its context ends first.
type slowSender struct {
	delay time.Duration
}

func (s slowSender) Send(ctx context.Context, _ EmailMessage) error {
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
