package types

import (
	"image"
	"unicode/utf8"
)

// MediaKind tags a resolved media descriptor.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
)

// Media is the normalized result of a media resolution. Every resolver
// answer carries an explicit kind so callers never branch on URL shape.
type Media struct {
	Kind MediaKind `json:"kind"`
	URL  string    `json:"url"`
	// PosterURL is a still frame for video media, when the provider exposes one.
	PosterURL string `json:"poster_url,omitempty"`
}

// Segment is one scripted beat of the explainer: a narration sentence plus
// the search phrase used to illustrate it. Immutable once generated.
type Segment struct {
	Text  string `json:"text"`
	Query string `json:"query"`
}

// CharLen is the narration length in runes, used for proportional
// time allocation.
func (s Segment) CharLen() int {
	return utf8.RuneCountInString(s.Text)
}

// EnrichedSegment is a Segment with its media resolved.
type EnrichedSegment struct {
	Segment
	Kind     MediaKind `json:"kind"`
	MediaURL string    `json:"media_url"`
	CharLen  int       `json:"char_len"`

	// Decoded is the eagerly decoded image for image segments; nil when the
	// decode failed (the exporter skips drawing in that case).
	Decoded image.Image `json:"-"`
	// Poster is the decoded poster frame for video segments, drawn during
	// export in place of live video frames.
	Poster image.Image `json:"-"`
}

// TimedSegment is an EnrichedSegment with its window on the narration
// timeline. Windows are contiguous and non-overlapping: segment 0 starts at
// zero and the last segment ends at the total narration duration.
type TimedSegment struct {
	EnrichedSegment
	StartSec    float64 `json:"start_sec"`
	EndSec      float64 `json:"end_sec"`
	DurationSec float64 `json:"duration_sec"`
}
