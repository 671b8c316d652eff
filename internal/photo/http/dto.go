package http

type UploadResponse struct {
	ID           string  `json:"id"`
	ItemID       string  `json:"item_id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}
