package model

import "time"

// SourceType identifies the kind of source an item was collected from.
type SourceType string

const (
	SourceTypeEmail SourceType = "email"
)

// NoSubject is the title used for items whose source carried no usable title.
const NoSubject = "No Subject"

// Item is the normalized unit of content flowing through the pipeline.
// Collectors guarantee that Content is non-empty for every item they
// return; downstream stages rely on that and never re-check it.
type Item struct {
	// SourceType identifies which collector kind produced this item.
	SourceType SourceType `json:"source_type"`

	// SourceID uniquely identifies the item within its source and is
	// stable across runs (e.g., "account@example.com:4213").
	SourceID string `json:"source_id"`

	// Title is the display title, never empty (falls back to NoSubject).
	Title string `json:"title"`

	// Content is the cleaned, whitespace-normalized text body.
	Content string `json:"content"`

	// URL is an optional outbound link chosen from the extracted
	// candidates; empty when the content contained none.
	URL string `json:"url,omitempty"`

	// Timestamp is the publication time; zero when the source carried
	// none or it could not be parsed.
	Timestamp time.Time `json:"timestamp,omitzero"`

	// RawData holds source-specific metadata (e.g., sender address).
	// Downstream stages never interpret it.
	RawData map[string]string `json:"raw_data,omitempty"`
}
