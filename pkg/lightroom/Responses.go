package lightroom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

/*
ResponsePrefix is prepended by the catalog API to its JSON bodies to defeat
script inclusion. It must be removed before the body is decoded.
*/
const ResponsePrefix = "while (1) {}"

// NullDate is the catalog's placeholder for a timestamp that was never set.
const NullDate = "0000-00-00T00:00:00"

const (
	RelRendition640         = "/rels/rendition_type/640"
	RelRenditionThumbnail2x = "/rels/rendition_type/thumbnail2x"
	RelRendition2048        = "/rels/rendition_type/2048"
	RelRendition1280        = "/rels/rendition_type/1280"
	RelRenditionFullsize    = "/rels/rendition_type/fullsize"
)

/*
ParseResponse strips the catalog's response prefix (when present, exactly
once) and decodes the remaining JSON into v.
*/
func ParseResponse(body []byte, v any) error {
	body = bytes.TrimPrefix(body, []byte(ResponsePrefix))

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error decoding catalog response: %w", err)
	}

	return nil
}

type Link struct {
	Href string `json:"href"`
}

type Links map[string]Link

func (l Links) Href(rel string) string {
	return l[rel].Href
}

type AlbumPayload struct {
	Name string `json:"name"`
}

type AlbumResource struct {
	ID      string       `json:"id"`
	Created string       `json:"created"`
	Updated string       `json:"updated"`
	Payload AlbumPayload `json:"payload"`
}

type ImportSource struct {
	FileName string `json:"fileName"`
}

type AssetPayload struct {
	Name         string       `json:"name"`
	Filename     string       `json:"filename"`
	CaptureDate  string       `json:"captureDate"`
	ImportSource ImportSource `json:"importSource"`
}

// FileName returns the best available original file name for an asset.
func (p AssetPayload) FileName() string {
	for _, name := range []string{p.ImportSource.FileName, p.Filename, p.Name} {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}

	return ""
}

type AssetResource struct {
	ID      string       `json:"id"`
	Created string       `json:"created"`
	Updated string       `json:"updated"`
	Links   Links        `json:"links"`
	Payload AssetPayload `json:"payload"`
}

/*
AlbumAssetResource is one entry of an album's asset listing. The ID is the
album-asset relation; Asset.ID is the asset itself.
*/
type AlbumAssetResource struct {
	ID      string        `json:"id"`
	Created string        `json:"created"`
	Updated string        `json:"updated"`
	Asset   AssetResource `json:"asset"`
	Payload AssetPayload  `json:"payload"`
}

// AssetID prefers the embedded asset id over the relation id.
func (r AlbumAssetResource) AssetID() string {
	if r.Asset.ID != "" {
		return r.Asset.ID
	}

	return r.ID
}

type Rendition struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Href   string `json:"href"`
}

func (r Rendition) IsJPEG() bool {
	return r.Type == "image/jpeg"
}

type resourceList[T any] struct {
	Resources []T `json:"resources"`
}
