package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexferrari88/mlnews/lib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type postOptions struct {
	Dir      string
	Output   string
	Format   string
	APIURL   string
	ProxyURL string
	NoVideo  bool
	Rate     int
	Timeout  time.Duration
	// Progress receives the video download progress bar. nil disables it.
	Progress io.Writer
}

// postCmd represents the post command
var (
	postOpts postOptions
	envFile  string
	postCmd  = &cobra.Command{
		Use:   "post <id>",
		Short: "Print a single post and save its video",
		Long: `Log in with TWITTER_USERNAME, TWITTER_EMAIL and TWITTER_PASSWORD, fetch the post with the
given id and print it. An attached video is saved as {id}.mp4 on a best-effort basis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := lib.LoadConfig(envFile)
			if err != nil {
				return err
			}
			opts := postOpts
			if opts.APIURL == "" {
				opts.APIURL = cfg.API.BaseURL
			}
			opts.Progress = os.Stderr
			return runPost(cmd.Context(), cmd.OutOrStdout(), args[0], cfg.Credentials, opts)
		},
	}
)

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().StringVarP(&postOpts.Dir, "dir", "d", ".", "Directory the video is saved to")
	postCmd.Flags().StringVarP(&postOpts.Output, "output", "o", "", "Also save the post to this file")
	postCmd.Flags().StringVarP(&postOpts.Format, "format", "f", "txt", "Format of the saved post (options: \"html\", \"md\", \"txt\", \"json\")")
	postCmd.Flags().StringVar(&postOpts.APIURL, "api-url", "", "Platform API base URL (defaults to TWITTER_API_BASE_URL)")
	postCmd.Flags().StringVarP(&postOpts.ProxyURL, "proxy", "x", "", "Specify the proxy url")
	postCmd.Flags().BoolVar(&postOpts.NoVideo, "no-video", false, "Do not download attached videos")
	postCmd.Flags().IntVarP(&postOpts.Rate, "rate", "r", lib.DefaultRatePerSecond, "Specify the rate of requests per second")
	postCmd.Flags().DurationVar(&postOpts.Timeout, "timeout", 0, "HTTP client timeout (0 keeps the default)")
	postCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional file with environment variables")
}

func runPost(ctx context.Context, out io.Writer, id string, creds lib.Credentials, opts postOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Output != "" && !validFormat(opts.Format) {
		return errors.Errorf("unknown format: %s", opts.Format)
	}

	fetcherOpts := []lib.FetcherOption{lib.WithRatePerSecond(opts.Rate)}
	if opts.Timeout > 0 {
		fetcherOpts = append(fetcherOpts, lib.WithTimeout(opts.Timeout))
	}
	if opts.ProxyURL != "" {
		proxy, err := parseURL(opts.ProxyURL)
		if err != nil {
			return errors.Wrap(err, "invalid proxy url")
		}
		fetcherOpts = append(fetcherOpts, lib.WithProxyURL(proxy))
	}
	fetcher := lib.NewFetcher(fetcherOpts...)

	session, err := lib.NewAuthenticator(fetcher, opts.APIURL).Login(ctx, creds)
	if err != nil {
		return err
	}

	var videos *lib.VideoDownloader
	if !opts.NoVideo {
		videos = lib.NewVideoDownloader(fetcher, opts.Dir, opts.Progress)
	}
	extractor := lib.NewExtractor(lib.NewClient(fetcher, opts.APIURL, session), videos)

	startTime := time.Now()
	extraction, err := extractor.ExtractByID(ctx, id)
	if err != nil {
		return err
	}
	lib.Log.WithField("elapsed", time.Since(startTime)).Debugf("extracted post %s", id)

	if v := extraction.Video; v != nil && v.Err != nil {
		lib.Log.WithError(v.Err).WithField("url", v.URL).Warn("video download failed")
	} else if v != nil {
		fmt.Fprintf(out, "Video saved to %s\n", v.Path)
	}

	fmt.Fprintln(out, extraction.Post.String())

	if opts.Output != "" {
		if err := extraction.Post.WriteToFile(opts.Output, opts.Format); err != nil {
			return errors.Wrapf(err, "failed to write %s", opts.Output)
		}
		lib.Log.WithField("path", opts.Output).Info("post saved")
	}
	return nil
}

func validFormat(format string) bool {
	switch format {
	case "html", "md", "txt", "json":
		return true
	}
	return false
}
