package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrew-pyle/chronam/pkg/config"
	"github.com/andrew-pyle/chronam/pkg/downloader"
	"github.com/andrew-pyle/chronam/pkg/logger"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <lccn|url>",
	Short: "Show a newspaper's metadata and available issues",
	Long: `Fetch a newspaper resource and print its descriptive metadata: title,
LCCN, place of publication, publication years, publisher, and the range of
issues available for download.`,
	Example: `  chronam info sn84026994`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runInfo(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	locator := strings.TrimSpace(args[0])

	flags := make(map[string]interface{})
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	d := downloader.New(cfg, log)

	newspaper, err := d.FetchInfo(context.Background(), locator)
	if err != nil {
		log.WithError(err).WithField("locator", locator).Error("failed to fetch newspaper info")
		os.Exit(1)
	}

	fmt.Printf("%s | Library of Congress No.: %s | %s\n",
		newspaper.Name, newspaper.LCCN, newspaper.PlaceOfPublication)
	fmt.Printf("Published from %s to %s by %s\n",
		newspaper.StartYear, newspaper.EndYear, newspaper.Publisher)
	fmt.Println()

	fmt.Printf("Number of Issues Downloadable: %d\n", len(newspaper.Issues))
	if len(newspaper.Issues) > 0 {
		fmt.Printf("First issue: %s\n", newspaper.Issues[0].DateIssued)
		fmt.Printf("Last Issue: %s\n", newspaper.Issues[len(newspaper.Issues)-1].DateIssued)
	}
}
