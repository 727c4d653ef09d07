package gallery

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/4kphotoz/website/cmd/website/internal/auth"
	"github.com/4kphotoz/website/cmd/website/internal/httpjson"
	"github.com/4kphotoz/website/pkg/services"
	"github.com/adampresley/adamgokit/httphelpers"
)

const (
	ActionAlbums    = "albums"
	ActionImages    = "images"
	ActionAllImages = "all-images"
)

type GalleryHandlers interface {
	Listing(w http.ResponseWriter, r *http.Request)
	Image(w http.ResponseWriter, r *http.Request)
}

type GalleryControllerConfig struct {
	GalleryService services.GalleryServicer
	Session        auth.AdminSession
}

type GalleryController struct {
	galleryService services.GalleryServicer
	session        auth.AdminSession
}

func NewGalleryController(config GalleryControllerConfig) GalleryController {
	return GalleryController{
		galleryService: config.GalleryService,
		session:        config.Session,
	}
}

/*
GET /api/gallery
*/
func (c GalleryController) Listing(w http.ResponseWriter, r *http.Request) {
	var (
		err     error
		listing any
	)

	action := httphelpers.GetFromRequest[string](r, "action")
	if action == "" {
		action = ActionAlbums
	}

	// hidden albums are only ever shown to a signed in admin
	includeHidden := httphelpers.GetFromRequest[string](r, "includeHidden") == "true" &&
		auth.CurrentAdmin(c.session, r) != nil

	switch action {
	case ActionAlbums:
		listing, err = c.galleryService.ListAlbums(r.Context(), includeHidden)

	case ActionImages:
		albumID := httphelpers.GetFromRequest[string](r, "albumId")
		if albumID == "" {
			httpjson.BadRequest(w, "Album ID required")
			return
		}

		listing, err = c.galleryService.ListAlbumImages(r.Context(), albumID, queryInt(r, "limit"), queryInt(r, "offset"))

	case ActionAllImages:
		listing, err = c.galleryService.ListAllImages(r.Context(), includeHidden)

	default:
		httpjson.BadRequest(w, "Invalid action")
		return
	}

	if err != nil {
		if services.IsValidationError(err) {
			httpjson.BadRequest(w, err.Error())
			return
		}

		slog.Error("error building gallery listing", "action", action, "error", err)
		httpjson.InternalServerError(w)
		return
	}

	httpjson.OK(w, listing)
}

/*
GET /api/gallery/image/{assetId}/{size}
*/
func (c GalleryController) Image(w http.ResponseWriter, r *http.Request) {
	assetID := r.PathValue("assetId")
	size := r.PathValue("size")

	if assetID == "" || (size != services.SizeThumbnail && size != services.SizeFullsize) {
		httpjson.BadRequest(w, "Asset ID and size required")
		return
	}

	etag := services.RenditionETag(assetID, size)

	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", services.RenditionCacheControl)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	rendition := c.galleryService.FetchAssetRendition(r.Context(), assetID, size)

	if !rendition.Found {
		httpjson.NotFound(w, "Image not found")
		return
	}

	if rendition.Fallback {
		w.Header().Set("Cache-Control", services.FallbackCacheControl)
	} else {
		w.Header().Set("Cache-Control", services.RenditionCacheControl)
		w.Header().Set("ETag", etag)
	}

	contentType := rendition.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(rendition.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rendition.Body)
}

func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || value < 0 {
		return 0
	}

	return value
}
