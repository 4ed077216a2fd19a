package lib

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

// downloadChunkSize is the buffer used to stream video bodies to disk.
const downloadChunkSize = 8192

// VideoDownload reports the outcome of a best-effort video download.
type VideoDownload struct {
	URL  string
	Path string
	Size int64
	Err  error
}

// Success reports whether the video was written to Path.
func (d *VideoDownload) Success() bool {
	return d != nil && d.Err == nil
}

// VideoDownloader saves post videos as "{post_id}.mp4" under outputDir.
type VideoDownloader struct {
	fetcher   *Fetcher
	outputDir string
	progress  io.Writer
}

// NewVideoDownloader creates a VideoDownloader. Progress is drawn on progress;
// pass nil to download silently.
func NewVideoDownloader(fetcher *Fetcher, outputDir string, progress io.Writer) *VideoDownloader {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	if outputDir == "" {
		outputDir = "."
	}
	if progress == nil {
		progress = io.Discard
	}
	return &VideoDownloader{fetcher: fetcher, outputDir: outputDir, progress: progress}
}

// PathFor returns the local path of the video of the given post.
func (vd *VideoDownloader) PathFor(postID string) string {
	return filepath.Join(vd.outputDir, postID+".mp4")
}

// Download streams videoURL to the post's video file, replacing any existing one.
// A failed download leaves no file behind.
func (vd *VideoDownloader) Download(ctx context.Context, postID, videoURL string) *VideoDownload {
	result := &VideoDownload{URL: videoURL, Path: vd.PathFor(postID)}

	res, err := vd.fetcher.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	})
	if err != nil {
		result.Err = errors.Wrap(err, "failed to fetch video")
		return result
	}
	defer res.Body.Close()

	if err := os.MkdirAll(vd.outputDir, 0755); err != nil {
		result.Err = errors.Wrap(err, "failed to create output directory")
		return result
	}

	size, err := vd.writeFile(result.Path, res.Body, res.ContentLength)
	if err != nil {
		os.Remove(result.Path)
		result.Err = err
		return result
	}
	result.Size = size
	return result
}

func (vd *VideoDownloader) writeFile(path string, body io.Reader, contentLength int64) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create video file")
	}
	defer f.Close()

	bar := progressbar.NewOptions64(contentLength,
		progressbar.OptionSetWriter(vd.progress),
		progressbar.OptionSetDescription(filepath.Base(path)),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)

	size, err := io.CopyBuffer(io.MultiWriter(f, bar), body, make([]byte, downloadChunkSize))
	if err != nil {
		return 0, errors.Wrap(err, "failed to write video file")
	}
	if err := f.Sync(); err != nil {
		return 0, errors.Wrap(err, "failed to write video file")
	}
	_ = bar.Finish()
	return size, nil
}
