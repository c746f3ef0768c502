package catalog

// Song is a votable track assembled from the catalog provider. Songs are
// never persisted; their lifetime is bounded by the cache TTL.
type Song struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	AlbumName  string `json:"albumName"`
	AlbumImage string `json:"albumImage"`
	PreviewURL string `json:"previewUrl"`
	CatalogURL string `json:"deezerUrl"`
	DurationMS int    `json:"duration"`
}
