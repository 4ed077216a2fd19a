package lib

// RemotePost is the subset of the platform's status object the extractor reads.
// Required scalars are pointers so a missing field can be told apart from an empty one.
type RemotePost struct {
	ID               *string                `json:"id_str"`
	User             *RemoteUser            `json:"user"`
	CreatedAt        *string                `json:"created_at"`
	FullText         *string                `json:"full_text"`
	Entities         RemoteEntities         `json:"entities"`
	ExtendedEntities RemoteExtendedEntities `json:"extended_entities"`
	QuotedStatus     *RemotePost            `json:"quoted_status,omitempty"`
}

type RemoteUser struct {
	Name       *string `json:"name"`
	ScreenName *string `json:"screen_name"`
}

type RemoteEntities struct {
	URLs []RemoteURL `json:"urls"`
}

type RemoteExtendedEntities struct {
	Media []RemoteMedia `json:"media"`
}

// RemoteURL is a link entity.
type RemoteURL struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
}

// RemoteMedia is a media entity. VideoInfo is only set for videos and animated gifs.
type RemoteMedia struct {
	URL           string     `json:"url"`
	MediaURLHTTPS string     `json:"media_url_https"`
	Type          string     `json:"type"`
	VideoInfo     *VideoInfo `json:"video_info,omitempty"`
}

// VideoInfo lists the encodings of a video, ordered by the platform.
type VideoInfo struct {
	Variants []VideoVariant `json:"variants"`
}

type VideoVariant struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Bitrate     int    `json:"bitrate,omitempty"`
}

// BestVariant returns the last variant, which the platform lists as the highest quality.
func (v *VideoInfo) BestVariant() (VideoVariant, bool) {
	if v == nil || len(v.Variants) == 0 {
		return VideoVariant{}, false
	}
	return v.Variants[len(v.Variants)-1], true
}
