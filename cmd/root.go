package cmd

import (
	"net/url"
	"os"

	"github.com/alexferrari88/mlnews/lib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "mlnews",
		Short: "ML NEWS tools",
		Long: `mlnews bundles the small tools behind the ML NEWS site: a generator for the
weekly index page and an extractor that prints a single social-media post.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lib.InitLogger(verbose)
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func parseURL(toTest string) (*url.URL, error) {
	if _, err := url.ParseRequestURI(toTest); err != nil {
		return nil, err
	}

	u, err := url.Parse(toTest)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid URL %q", toTest)
	}

	return u, nil
}
