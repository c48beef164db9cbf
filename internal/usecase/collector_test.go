package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/naka-gawa/forge-stats/internal/domain"
	"github.com/naka-gawa/forge-stats/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

var _ gateway.Fetcher = (*mockFetcher)(nil)

func (m *mockFetcher) Languages(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) License(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockFetcher) Contributions(ctx context.Context) (string, bool, error) {
	args := m.Called(ctx)
	return args.String(0), args.Bool(1), args.Error(2)
}

func ptr(s string) *string { return &s }

func unixUTC(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

// TestCollector_Collect uses a table-driven approach to test the collector.
func TestCollector_Collect(t *testing.T) {
	const activity = `[{"author":{"login":"octocat","id":1},"total":3,"weeks":[{"w":1000,"a":4,"d":1,"c":3}]}]`

	testCases := []struct {
		name                 string
		languages            string
		languagesErr         error
		spdxID               string
		hasLicense           bool
		licenseErr           error
		contributions        string
		hasContributions     bool
		contributionsErr     error
		expectedLicense      *string
		expectedContribution json.RawMessage
		expectedSummary      *domain.ContributionSummary
		expectError          bool
	}{
		{
			name:                 "happy path - all three payloads present",
			languages:            `{"Go":1000}`,
			spdxID:               "MIT",
			hasLicense:           true,
			contributions:        activity,
			hasContributions:     true,
			expectedLicense:      ptr("MIT"),
			expectedContribution: json.RawMessage(activity),
			expectedSummary: &domain.ContributionSummary{
				Contributors: 1, TotalCommits: 3, Additions: 4, Deletions: 1,
				MeanCommits: 3, MedianCommits: 3, P90Commits: 3,
				FirstWeek: unixUTC(1000), LastWeek: unixUTC(1000),
			},
		},
		{
			name:             "absences - no license and no repository",
			languages:        `{}`,
			hasLicense:       false,
			hasContributions: false,
		},
		{
			name:                 "empty contributions - zero summary",
			languages:            `{}`,
			contributions:        "[]",
			hasContributions:     true,
			expectedContribution: json.RawMessage("[]"),
			expectedSummary:      &domain.ContributionSummary{},
		},
		{
			name:         "error case - languages fails",
			languagesErr: errors.New("github api error"),
			expectError:  true,
		},
		{
			name:             "error case - contributions fails",
			languages:        `{}`,
			contributionsErr: &gateway.HTTPError{StatusCode: 500},
			expectError:      true,
		},
		{
			name:             "error case - contributions payload is not an array",
			languages:        `{}`,
			contributions:    `{"message":"odd"}`,
			hasContributions: true,
			expectError:      true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			logger := log.New(io.Discard, "", 0)
			fetcher := new(mockFetcher)
			fetcher.On("Languages", mock.Anything).Return(tc.languages, tc.languagesErr)
			fetcher.On("License", mock.Anything).Return(tc.spdxID, tc.hasLicense, tc.licenseErr)
			fetcher.On("Contributions", mock.Anything).Return(tc.contributions, tc.hasContributions, tc.contributionsErr)

			collector := NewCollector(fetcher, logger)

			// --- Act ---
			info, err := collector.Collect(context.Background(), "acme/widget")

			// --- Assert ---
			fetcher.AssertExpectations(t)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "acme/widget", info.Repo)
			assert.Equal(t, json.RawMessage(tc.languages), info.Languages)
			assert.Equal(t, tc.expectedLicense, info.License)
			assert.Equal(t, tc.expectedContribution, info.Contributions)
			assert.Equal(t, tc.expectedSummary, info.Summary)
		})
	}
}

func TestCollector_Collect_PreservesHTTPStatus(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("Languages", mock.Anything).Return("", &gateway.HTTPError{StatusCode: 403})
	fetcher.On("License", mock.Anything).Return("", false, nil)
	fetcher.On("Contributions", mock.Anything).Return("[]", true, nil)

	_, err := NewCollector(fetcher, log.New(io.Discard, "", 0)).Collect(context.Background(), "acme/widget")

	code, ok := gateway.StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, 403, code)
}
