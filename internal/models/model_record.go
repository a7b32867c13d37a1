package models

import (
	"encoding/json"

	"printgrab/internal/common"
)

// Grams holds the printed weight attribute of a model. The site omits it for
// some models, and the persisted JSON represents the missing value as the
// string "N/A" rather than null.
type Grams struct {
	Value float64
	Known bool
}

// KnownGrams creates a Grams with a known weight value.
func KnownGrams(value float64) Grams {
	return Grams{Value: value, Known: true}
}

// MarshalJSON encodes the weight as a number, or "N/A" when unknown.
func (g Grams) MarshalJSON() ([]byte, error) {
	if !g.Known {
		return json.Marshal("N/A")
	}
	return json.Marshal(g.Value)
}

// UnmarshalJSON accepts either a number or the string "N/A".
func (g *Grams) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*g = KnownGrams(value)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return common.WrapError(err, "grams must be a number or \"N/A\"")
	}
	if s != "N/A" {
		return common.NewError("unexpected grams value: %q", s)
	}
	*g = Grams{}
	return nil
}

// ModelRecord is the per-model artifact persisted after scraping. The two
// path lists point into the temporary work directory while the model is being
// processed and are rewritten when files are relocated to their final
// destination.
type ModelRecord struct {
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Images               []string `json:"images"`
	Grams                Grams    `json:"grams"`
	Tags                 []string `json:"tags"`
	DownloadedFilePaths  []string `json:"downloaded_filepaths"`
	DownloadedImagePaths []string `json:"downloaded_image_filepaths"`
	URL                  string   `json:"url"`
}

// NewModelRecord creates a record for a model page with placeholder values,
// matching the persisted shape even when scraping later fails partway.
func NewModelRecord(modelURL string) *ModelRecord {
	return &ModelRecord{
		Title:                "N/A",
		Description:          "N/A",
		Images:               []string{},
		Tags:                 []string{},
		DownloadedFilePaths:  []string{},
		DownloadedImagePaths: []string{},
		URL:                  modelURL,
	}
}

// FirstTag returns the first collected tag, or the given fallback when the
// model has none.
func (mr *ModelRecord) FirstTag(fallback string) string {
	if len(mr.Tags) > 0 {
		return mr.Tags[0]
	}
	return fallback
}

// AddTag appends a tag if it is non-empty and not already present.
func (mr *ModelRecord) AddTag(tag string) {
	if tag == "" {
		return
	}
	for _, existing := range mr.Tags {
		if existing == tag {
			return
		}
	}
	mr.Tags = append(mr.Tags, tag)
}

// AddImageURL appends an image source URL if not already present.
func (mr *ModelRecord) AddImageURL(src string) {
	if src == "" {
		return
	}
	for _, existing := range mr.Images {
		if existing == src {
			return
		}
	}
	mr.Images = append(mr.Images, src)
}
