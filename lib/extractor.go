package lib

import (
	"context"
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

// MissingFieldError is returned when the remote post lacks a field every post must have.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("remote post is missing field %q", e.Field)
}

// Extraction is the result of extracting a post. Video is nil when the post has no
// video attachment, or when video downloads are disabled.
type Extraction struct {
	Post  *Post
	Video *VideoDownload
}

// Extractor turns remote posts into normalized Posts.
type Extractor struct {
	source PostSource
	videos *VideoDownloader
}

// NewExtractor creates a new Extractor. videos may be nil to skip video downloads.
func NewExtractor(source PostSource, videos *VideoDownloader) *Extractor {
	return &Extractor{source: source, videos: videos}
}

// ExtractByID fetches the post with the given id and normalizes it.
func (e *Extractor) ExtractByID(ctx context.Context, id string) (*Extraction, error) {
	if e.source == nil {
		return nil, errors.New("extractor has no post source")
	}
	remote, err := e.source.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return e.Normalize(ctx, remote)
}

// Normalize builds a Post from remote and downloads its video, if any.
// A failed video download is reported in Extraction.Video and never fails the call.
// The quoted post is normalized without downloading its video.
func (e *Extractor) Normalize(ctx context.Context, remote *RemotePost) (*Extraction, error) {
	post, err := extractCommon(remote)
	if err != nil {
		return nil, err
	}

	post.URLs = collectURLs(remote)

	var video *VideoDownload
	if e.videos != nil {
		video = e.downloadVideos(ctx, post.ID, remote.ExtendedEntities.Media)
	}

	if remote.QuotedStatus != nil {
		quoted, err := extractCommon(remote.QuotedStatus)
		if err != nil {
			if mf, ok := err.(*MissingFieldError); ok {
				return nil, &MissingFieldError{Field: "quoted_status." + mf.Field}
			}
			return nil, err
		}
		quoted.URLs = collectURLs(remote.QuotedStatus)
		post.QuotedPost = quoted
	}

	return &Extraction{Post: post, Video: video}, nil
}

// extractCommon copies the fields every post has.
func extractCommon(remote *RemotePost) (*Post, error) {
	if remote == nil {
		return nil, &MissingFieldError{Field: "id_str"}
	}
	if remote.ID == nil {
		return nil, &MissingFieldError{Field: "id_str"}
	}
	if remote.User == nil || remote.User.Name == nil {
		return nil, &MissingFieldError{Field: "user.name"}
	}
	if remote.User.ScreenName == nil {
		return nil, &MissingFieldError{Field: "user.screen_name"}
	}
	if remote.CreatedAt == nil {
		return nil, &MissingFieldError{Field: "created_at"}
	}
	if remote.FullText == nil {
		return nil, &MissingFieldError{Field: "full_text"}
	}

	createdAt, err := dateparse.ParseAny(*remote.CreatedAt)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid created_at %q", *remote.CreatedAt)
	}

	return &Post{
		ID:                *remote.ID,
		AuthorDisplayName: *remote.User.Name,
		AuthorHandle:      *remote.User.ScreenName,
		CreatedAt:         createdAt,
		BodyText:          *remote.FullText,
	}, nil
}

// collectURLs maps short URLs to their targets. Media entries overwrite links.
func collectURLs(remote *RemotePost) map[string]string {
	urls := make(map[string]string)
	for _, u := range remote.Entities.URLs {
		urls[u.URL] = u.ExpandedURL
	}
	for _, m := range remote.ExtendedEntities.Media {
		urls[m.URL] = m.MediaURLHTTPS
	}
	return urls
}

// downloadVideos downloads every video attachment in order and stops at the first failure.
func (e *Extractor) downloadVideos(ctx context.Context, postID string, media []RemoteMedia) *VideoDownload {
	var result *VideoDownload
	for _, m := range media {
		if m.Type != "video" {
			continue
		}
		variant, ok := m.VideoInfo.BestVariant()
		if !ok {
			return &VideoDownload{Path: e.videos.PathFor(postID), Err: errors.New("video has no variants")}
		}
		result = e.videos.Download(ctx, postID, variant.URL)
		if result.Err != nil {
			return result
		}
		Log.WithField("path", result.Path).Debug("video saved")
	}
	return result
}
