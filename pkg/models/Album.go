package models

/*
Album is a catalog album as exposed by the gallery API.
*/
type Album struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AssetCount int    `json:"assetCount"`
	CoverImage string `json:"coverImage,omitempty"`
	Created    string `json:"created"`
	Modified   string `json:"modified"`
}

/*
Image is a single catalog asset. URL and Thumbnail always point at the local
rendition proxy, never at the catalog itself.
*/
type Image struct {
	ID          string   `json:"id"`
	AlbumID     string   `json:"albumId,omitempty"`
	URL         string   `json:"url"`
	Thumbnail   string   `json:"thumbnail"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}
