package freshness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-kenyajobs/internal/source"
)

var testNow = time.Date(2025, 7, 3, 10, 0, 0, 0, time.UTC)

func TestIsRecentEnough(t *testing.T) {
	policy := New(testNow, 7)

	tests := []struct {
		name        string
		datePosted  string
		dateExpires string
		expected    bool
	}{
		{
			name:       "posted inside window",
			datePosted: "2 days ago",
			expected:   true,
		},
		{
			name:       "posted exactly on window boundary",
			datePosted: "7 days ago",
			expected:   true,
		},
		{
			name:       "posted outside window",
			datePosted: "10 days ago",
			expected:   false,
		},
		{
			name:       "weeks ago outside window",
			datePosted: "3 weeks ago",
			expected:   false,
		},
		{
			name:        "no posted date, future expiry",
			datePosted:  "Not specified",
			dateExpires: "July 20, 2025",
			expected:    true,
		},
		{
			name:        "no posted date, past expiry",
			datePosted:  "Not specified",
			dateExpires: "June 1, 2025",
			expected:    false,
		},
		{
			name:        "neither date parseable is accepted",
			datePosted:  "Not specified",
			dateExpires: "Not specified",
			expected:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.IsRecentEnough(tt.datePosted, tt.dateExpires))
		})
	}
}

func TestIsNotExpired(t *testing.T) {
	policy := New(testNow, 7)

	tests := []struct {
		name        string
		dateExpires string
		expected    bool
	}{
		{name: "expires today", dateExpires: "July 3, 2025", expected: true},
		{name: "expires later", dateExpires: "2025-07-10", expected: true},
		{name: "already expired", dateExpires: "July 1, 2025", expected: false},
		{name: "unparseable is permissive", dateExpires: "Not specified", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.IsNotExpired(tt.dateExpires))
		})
	}
}

func TestInScope(t *testing.T) {
	policy := New(testNow, 7)

	//recent but expired postings are out of scope
	assert.False(t, policy.InScope(source.Posting{
		DatePosted:  "1 day ago",
		DateExpires: "July 2, 2025",
	}))

	//recent and open postings are in scope
	assert.True(t, policy.InScope(source.Posting{
		DatePosted:  "1 day ago",
		DateExpires: "July 30, 2025",
	}))

	//no dates at all stays in scope
	assert.True(t, policy.InScope(source.Posting{
		DatePosted:  source.NotSpecified,
		DateExpires: source.NotSpecified,
	}))
}

func TestDefaultWindow(t *testing.T) {
	policy := New(testNow, 0)
	assert.Equal(t, DefaultWindowDays, policy.WindowDays)
}
