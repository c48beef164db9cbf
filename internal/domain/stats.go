// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
)

// RepositoryInfo holds the metadata collected for a single repository.
// It is the core domain entity of this application. License is nil when the
// repository has no license; Contributions is nil when the repository does
// not exist.
type RepositoryInfo struct {
	Repo          string               `json:"repo"`
	Languages     json.RawMessage      `json:"languages"`
	License       *string              `json:"license"`
	Contributions json.RawMessage      `json:"contributions"`
	Summary       *ContributionSummary `json:"summary,omitempty"`
}

// Author identifies a contributor. GitHub reports null for deleted accounts.
type Author struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

// WeeklyBucket is one week of a contributor's activity.
type WeeklyBucket struct {
	// Week is the unix timestamp of the start of the week (Sunday 00:00 UTC).
	Week      int64 `json:"w"`
	Additions int64 `json:"a"`
	Deletions int64 `json:"d"`
	Commits   int64 `json:"c"`
}

// ContributorActivity is one entry of the contributor statistics array.
type ContributorActivity struct {
	Author *Author        `json:"author"`
	Total  int64          `json:"total"`
	Weeks  []WeeklyBucket `json:"weeks"`
}

// ContributionSummary aggregates contributor activity for reporting.
type ContributionSummary struct {
	Contributors  int       `json:"contributors"`
	TotalCommits  int64     `json:"total_commits"`
	Additions     int64     `json:"additions"`
	Deletions     int64     `json:"deletions"`
	MeanCommits   float64   `json:"mean_commits"`
	MedianCommits float64   `json:"median_commits"`
	P90Commits    float64   `json:"p90_commits"`
	FirstWeek     time.Time `json:"first_week,omitzero"`
	LastWeek      time.Time `json:"last_week,omitzero"`
}

// LanguageShare is one language's share of the repository's bytes.
type LanguageShare struct {
	Name    string  `json:"name"`
	Bytes   int64   `json:"bytes"`
	Percent float64 `json:"percent"`
}

// ParseContributors decodes the raw contributor statistics array.
func ParseContributors(raw []byte) ([]ContributorActivity, error) {
	var contributors []ContributorActivity
	if err := json.Unmarshal(raw, &contributors); err != nil {
		return nil, fmt.Errorf("failed to decode contributor activity: %w", err)
	}
	return contributors, nil
}

// Summarize computes totals and per-contributor commit statistics.
// Weeks without any activity do not move FirstWeek or LastWeek.
func Summarize(contributors []ContributorActivity) (ContributionSummary, error) {
	summary := ContributionSummary{Contributors: len(contributors)}
	if len(contributors) == 0 {
		return summary, nil
	}

	totals := make(stats.Float64Data, 0, len(contributors))
	var first, last int64
	for _, c := range contributors {
		totals = append(totals, float64(c.Total))
		summary.TotalCommits += c.Total
		for _, w := range c.Weeks {
			summary.Additions += w.Additions
			summary.Deletions += w.Deletions
			if w.Commits == 0 && w.Additions == 0 && w.Deletions == 0 {
				continue
			}
			if first == 0 || w.Week < first {
				first = w.Week
			}
			if w.Week > last {
				last = w.Week
			}
		}
	}

	var err error
	if summary.MeanCommits, err = stats.Mean(totals); err != nil {
		return ContributionSummary{}, fmt.Errorf("failed to compute mean commits: %w", err)
	}
	if summary.MedianCommits, err = stats.Median(totals); err != nil {
		return ContributionSummary{}, fmt.Errorf("failed to compute median commits: %w", err)
	}
	if summary.P90Commits, err = stats.PercentileNearestRank(totals, 90); err != nil {
		return ContributionSummary{}, fmt.Errorf("failed to compute p90 commits: %w", err)
	}
	if first != 0 {
		summary.FirstWeek = time.Unix(first, 0).UTC()
		summary.LastWeek = time.Unix(last, 0).UTC()
	}
	return summary, nil
}

// ParseLanguages decodes the language breakdown and returns each language's
// share, largest first.
func ParseLanguages(raw []byte) ([]LanguageShare, error) {
	var byteCounts map[string]int64
	if err := json.Unmarshal(raw, &byteCounts); err != nil {
		return nil, fmt.Errorf("failed to decode languages: %w", err)
	}

	var total int64
	for _, n := range byteCounts {
		total += n
	}
	shares := make([]LanguageShare, 0, len(byteCounts))
	for name, n := range byteCounts {
		share := LanguageShare{Name: name, Bytes: n}
		if total > 0 {
			share.Percent = float64(n) * 100 / float64(total)
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Name < shares[j].Name
	})
	return shares, nil
}
