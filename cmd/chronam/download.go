package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrew-pyle/chronam/pkg/config"
	"github.com/andrew-pyle/chronam/pkg/downloader"
	"github.com/andrew-pyle/chronam/pkg/logger"
	"github.com/andrew-pyle/chronam/pkg/storage"
)

var (
	// Download command flags
	startDate        string
	endDate          string
	outputDir        string
	concurrentIssues int
	concurrentPages  int
	rateLimit        int
	fetchTimeout     int
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <lccn|url>",
	Short: "Download a newspaper's issues for a date range",
	Long: `Download the OCR text of every issue of a newspaper published within a
date range.

The newspaper may be given as a bare LCCN (e.g. sn84026994) or as the full
.json resource URL. Dates use the YYYY-MM-DD format and both bounds are
inclusive. If --start or --end is omitted you will be prompted for it.

Output is a new directory named after the newspaper's LCCN, containing one
<date>.txt file per issue (a second edition on the same date is saved as
<date>-ed-2.txt). If the directory name is taken, " (copy n)" is appended
rather than touching existing data.`,
	Example: `  # Download a month of issues by LCCN
  chronam download sn84026994 --start 1900-01-01 --end 1900-01-31

  # Full resource URL, custom output directory and concurrency
  chronam download https://chroniclingamerica.loc.gov/lccn/sn84026994.json \
    --start 1900-01-01 --end 1900-12-31 --output ./papers --concurrent-pages 8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runDownload(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&startDate, "start", "", "first issue date to download (YYYY-MM-DD)")
	downloadCmd.Flags().StringVar(&endDate, "end", "", "last issue date to download (YYYY-MM-DD)")
	downloadCmd.Flags().StringVarP(&outputDir, "output", "o", "", "base directory for output (default: current directory)")
	downloadCmd.Flags().IntVar(&concurrentIssues, "concurrent-issues", 0, "number of issues assembled concurrently")
	downloadCmd.Flags().IntVar(&concurrentPages, "concurrent-pages", 0, "number of pages fetched concurrently per issue")
	downloadCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "requests per minute against the archive API")
	downloadCmd.Flags().IntVar(&fetchTimeout, "timeout", 0, "per-fetch timeout in seconds")
}

func runDownload(cmd *cobra.Command, args []string) {
	locator := strings.TrimSpace(args[0])

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if concurrentIssues > 0 {
		flags["concurrent-issues"] = concurrentIssues
	}
	if concurrentPages > 0 {
		flags["concurrent-pages"] = concurrentPages
	}
	if rateLimit > 0 {
		flags["rate-limit"] = rateLimit
	}
	if fetchTimeout > 0 {
		flags["timeout"] = time.Duration(fetchTimeout) * time.Second
	}
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

	// Prompt for any date not supplied on the command line, validating
	// until the input parses.
	reader := bufio.NewReader(os.Stdin)
	start, err := resolveDate(reader, startDate, "start")
	if err != nil {
		log.WithError(err).Error("invalid start date")
		os.Exit(1)
	}
	end, err := resolveDate(reader, endDate, "end")
	if err != nil {
		log.WithError(err).Error("invalid end date")
		os.Exit(1)
	}
	if end.Before(start) {
		log.WithFields(map[string]interface{}{
			"start": start.Format(downloader.DateFormat),
			"end":   end.Format(downloader.DateFormat),
		}).Error("end date precedes start date")
		os.Exit(1)
	}

	d := downloader.New(cfg, log)

	set, err := d.Download(context.Background(), locator, start, end)
	if err != nil {
		log.WithError(err).WithField("locator", locator).Error("download failed")
		os.Exit(1)
	}

	if set.Len() == 0 {
		log.WithField("locator", locator).Warn("no issues in the requested date range; nothing to save")
		return
	}

	// Persistence starts only now: a failed download must leave no
	// directory and no files behind.
	if err := os.MkdirAll(cfg.Output.BaseDirectory, 0755); err != nil {
		log.WithError(err).Error("failed to create base output directory")
		os.Exit(1)
	}

	base := filepath.Join(cfg.Output.BaseDirectory, set.LCCN)
	dir, err := storage.ReserveDirectory(base, cfg.Output.MaxDirAttempts)
	if err != nil {
		log.WithError(err).Error("failed to reserve output directory")
		os.Exit(1)
	}

	manager, err := storage.NewManager(dir, log)
	if err != nil {
		log.WithError(err).Error("failed to open output directory")
		os.Exit(1)
	}

	entries := make([]storage.Entry, 0, set.Len())
	for _, issue := range set.All() {
		entries = append(entries, storage.Entry{Key: issue.Key, Text: issue.Text})
	}

	count, err := manager.Persist(entries)
	if err != nil {
		log.WithError(err).WithField("written", count).Error("persistence failed")
		os.Exit(1)
	}

	missing, failed := set.PageFailures()
	log.WithFields(map[string]interface{}{
		"directory":     dir,
		"files":         count,
		"missing_pages": missing,
		"failed_pages":  failed,
	}).Info("download saved")

	if !quiet {
		fmt.Printf("Saved %d issue(s) to %s\n", count, dir)
		if missing > 0 || failed > 0 {
			fmt.Printf("Pages substituted with placeholders: %d missing, %d failed\n", missing, failed)
		}
	}
}

// resolveDate parses a date supplied by flag, or prompts for one until the
// input is valid.
func resolveDate(reader *bufio.Reader, value, label string) (time.Time, error) {
	if value != "" {
		return downloader.ParseDate(value)
	}

	for {
		fmt.Printf("What is the %s date to download? (YYYY-MM-DD) > ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to read %s date: %w", label, err)
		}

		date, err := downloader.ParseDate(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Invalid Date")
			continue
		}
		return date, nil
	}
}
