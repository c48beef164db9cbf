package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContributors(t *testing.T) {
	raw := []byte(`[
		{"author":{"login":"octocat","id":1},"total":3,"weeks":[{"w":1367712000,"a":10,"d":2,"c":3}]},
		{"author":null,"total":1,"weeks":[]}
	]`)

	contributors, err := ParseContributors(raw)
	require.NoError(t, err)
	require.Len(t, contributors, 2)
	assert.Equal(t, "octocat", contributors[0].Author.Login)
	assert.Equal(t, []WeeklyBucket{{Week: 1367712000, Additions: 10, Deletions: 2, Commits: 3}}, contributors[0].Weeks)
	assert.Nil(t, contributors[1].Author)

	_, err = ParseContributors([]byte(`{"message":"nope"}`))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name         string
		contributors []ContributorActivity
		expected     ContributionSummary
	}{
		{
			name:         "empty case - no contributors",
			contributors: []ContributorActivity{},
			expected:     ContributionSummary{},
		},
		{
			name: "single contributor",
			contributors: []ContributorActivity{
				{Total: 4, Weeks: []WeeklyBucket{{Week: 1000, Commits: 4, Additions: 5, Deletions: 1}}},
			},
			expected: ContributionSummary{
				Contributors: 1, TotalCommits: 4, Additions: 5, Deletions: 1,
				MeanCommits: 4, MedianCommits: 4, P90Commits: 4,
				FirstWeek: time.Unix(1000, 0).UTC(), LastWeek: time.Unix(1000, 0).UTC(),
			},
		},
		{
			name: "happy path - several contributors, idle weeks ignored for the range",
			contributors: []ContributorActivity{
				{Total: 10, Weeks: []WeeklyBucket{{Week: 100}, {Week: 200, Commits: 10, Additions: 1}}},
				{Total: 30, Weeks: []WeeklyBucket{{Week: 300, Commits: 30, Deletions: 7}, {Week: 400}}},
				{Total: 20, Weeks: []WeeklyBucket{{Week: 250, Commits: 20, Additions: 2}}},
			},
			expected: ContributionSummary{
				Contributors: 3, TotalCommits: 60, Additions: 3, Deletions: 7,
				MeanCommits: 20, MedianCommits: 20, P90Commits: 30,
				FirstWeek: time.Unix(200, 0).UTC(), LastWeek: time.Unix(300, 0).UTC(),
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			summary, err := Summarize(tc.contributors)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, summary)
		})
	}
}

func TestParseLanguages(t *testing.T) {
	shares, err := ParseLanguages([]byte(`{"Python":200,"Go":600,"Shell":200}`))
	require.NoError(t, err)
	assert.Equal(t, []LanguageShare{
		{Name: "Go", Bytes: 600, Percent: 60},
		{Name: "Python", Bytes: 200, Percent: 20},
		{Name: "Shell", Bytes: 200, Percent: 20},
	}, shares)

	shares, err = ParseLanguages([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, shares)

	_, err = ParseLanguages([]byte(`[1,2]`))
	assert.Error(t, err)
}
