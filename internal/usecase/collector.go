// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/naka-gawa/forge-stats/internal/domain"
	"github.com/naka-gawa/forge-stats/internal/gateway"
	"golang.org/x/sync/errgroup"
)

// Collector is the use case for collecting repository metadata.
// It orchestrates the three gateway reads and combines their results.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect fetches languages, license and contributor activity concurrently.
// An error from any read fails the whole collection; a missing license or a
// missing repository is kept as nil in the result.
func (c *Collector) Collect(ctx context.Context, repo string) (*domain.RepositoryInfo, error) {
	c.logger.Printf("Usecase: Collecting metadata for %s...\n", repo)

	var languages, spdxID, contributions string
	var hasLicense, hasContributions bool

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		languages, err = c.fetcher.Languages(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch languages: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		var err error
		spdxID, hasLicense, err = c.fetcher.License(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch license: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		var err error
		contributions, hasContributions, err = c.fetcher.Contributions(egCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch contributions: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	c.logger.Println("Usecase: All data fetched successfully.")

	info := &domain.RepositoryInfo{
		Repo:      repo,
		Languages: json.RawMessage(languages),
	}
	if hasLicense {
		info.License = &spdxID
	}
	if hasContributions {
		info.Contributions = json.RawMessage(contributions)

		contributors, err := domain.ParseContributors(info.Contributions)
		if err != nil {
			return nil, err
		}
		summary, err := domain.Summarize(contributors)
		if err != nil {
			return nil, err
		}
		info.Summary = &summary
	}

	c.logger.Println("Usecase: Collection complete.")
	return info, nil
}
