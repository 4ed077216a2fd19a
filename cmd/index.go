package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/alexferrari88/mlnews/lib"
	"github.com/spf13/cobra"
)

// indexCmd represents the index command
var (
	indexDir      string
	indexTemplate string
	indexCmd      = &cobra.Command{
		Use:   "index [dd/mm/yyyy]",
		Short: "Generate the weekly index page",
		Long: `Generate index_{year}_{week}.html for the ISO week of the given date (today by default).
An existing page is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd.OutOrStdout(), args, indexDir, indexTemplate, time.Now)
		},
	}
)

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVarP(&indexDir, "dir", "d", ".", "Directory the page is written to")
	indexCmd.Flags().StringVarP(&indexTemplate, "template", "t", "", "Template file (defaults to the built-in weekly template)")
}

func runIndex(out io.Writer, args []string, dir, templatePath string, now func() time.Time) error {
	date := now()
	if len(args) > 0 {
		var err error
		date, err = lib.ParseIndexDate(args[0])
		if err != nil {
			return err
		}
	}

	renderer, err := lib.NewIndexRenderer(templatePath)
	if err != nil {
		return err
	}

	res, err := lib.NewIndexGenerator(renderer, dir).Generate(date)
	if err != nil {
		return err
	}

	if res.Created {
		fmt.Fprintf(out, "HTML file %s generated\n", res.Path)
		return nil
	}
	fmt.Fprintf(out, "HTML file %s already exists\n", res.Path)
	if res.ExistingTitle != "" && res.ExistingTitle != res.Title {
		lib.Log.WithField("title", res.ExistingTitle).Warn("existing page has a different title")
	}
	return nil
}
