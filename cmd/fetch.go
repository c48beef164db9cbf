package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/naka-gawa/forge-stats/internal/domain"
	"github.com/naka-gawa/forge-stats/internal/gateway"
	"github.com/naka-gawa/forge-stats/internal/usecase"
	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatText = "text"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches languages, license and contributor activity of a repository",
	Long: `Fetches the language breakdown, SPDX license identifier and contributor
commit activity of a GitHub repository and prints them as JSON or as a text report.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr)
		}

		repo, _ := cmd.Flags().GetString("repo")
		baseURL, _ := cmd.Flags().GetString("base-url")
		retryDelay, _ := cmd.Flags().GetDuration("retry-delay")
		secondaryLimit, _ := cmd.Flags().GetDuration("wait-secondary-rate-limit")
		format, _ := cmd.Flags().GetString("format")
		if format != formatJSON && format != formatText {
			fmt.Fprintf(os.Stderr, "Invalid --format %q. Please use %q or %q.\n", format, formatJSON, formatText)
			os.Exit(1)
		}

		githubGateway, err := gateway.NewGitHubGateway(baseURL, repo,
			gateway.WithCredentials(gateway.EnvCredentials{}),
			gateway.WithRetryDelay(retryDelay),
			gateway.WithLogger(logger),
			gateway.WithVerboseTransport(verbose),
			gateway.WithSecondaryRateLimitWaiter(secondaryLimit),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		collector := usecase.NewCollector(githubGateway, logger)

		info, err := collector.Collect(ctx, repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to collect repository metadata: %v\n", err)
			os.Exit(1)
		}

		if err := writeReport(os.Stdout, info, format); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
	},
}

func writeReport(w io.Writer, info *domain.RepositoryInfo, format string) error {
	if format == formatText {
		return writeText(w, info)
	}
	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func writeText(w io.Writer, info *domain.RepositoryInfo) error {
	heading := color.New(color.Bold, color.FgCyan)
	missing := color.New(color.FgYellow)

	heading.Fprintf(w, "Repository: %s\n", info.Repo)

	heading.Fprintln(w, "License")
	if info.License == nil {
		missing.Fprintln(w, "  none")
	} else {
		fmt.Fprintf(w, "  %s\n", *info.License)
	}

	heading.Fprintln(w, "Languages")
	shares, err := domain.ParseLanguages(info.Languages)
	if err != nil {
		return err
	}
	if len(shares) == 0 {
		missing.Fprintln(w, "  none detected")
	}
	for _, s := range shares {
		fmt.Fprintf(w, "  %-20s %12d bytes %6.2f%%\n", s.Name, s.Bytes, s.Percent)
	}

	heading.Fprintln(w, "Contributors")
	if info.Summary == nil {
		missing.Fprintln(w, "  repository not found")
		return nil
	}
	s := info.Summary
	fmt.Fprintf(w, "  contributors: %d\n", s.Contributors)
	fmt.Fprintf(w, "  commits:      %d (mean %.1f, median %.1f, p90 %.1f per contributor)\n",
		s.TotalCommits, s.MeanCommits, s.MedianCommits, s.P90Commits)
	fmt.Fprintf(w, "  lines:        +%d -%d\n", s.Additions, s.Deletions)
	if !s.FirstWeek.IsZero() {
		fmt.Fprintf(w, "  active:       %s .. %s\n", s.FirstWeek.Format(time.DateOnly), s.LastWeek.Format(time.DateOnly))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringP("repo", "r", "", "Target repository as owner/name (required)")
	fetchCmd.MarkFlagRequired("repo")
	fetchCmd.Flags().String("base-url", "https://api.github.com", "Base URL of the GitHub REST API")
	fetchCmd.Flags().Duration("retry-delay", gateway.DefaultRetryDelay, "Wait before retrying contributor statistics that are still being computed")
	fetchCmd.Flags().Duration("wait-secondary-rate-limit", 0, "Sleep up to this long through a secondary rate limit (0 disables)")
	fetchCmd.Flags().StringP("format", "f", formatJSON, "Output format: json or text")
}
