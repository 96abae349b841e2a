package models

// Image is a hosted asset. AssetID is the host's opaque identifier, captured
// at upload time so deletion never has to re-derive it from the URL.
type Image struct {
	URL     string `json:"url" bson:"url"`
	AssetID string `json:"-" bson:"assetId"`
}
