package auditlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindowDefaults(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	start, end, err := resolveWindow("", "", now)
	require.NoError(t, err)
	assert.Equal(t, now, end)
	assert.Equal(t, now.Add(-24*time.Hour), start)
}

func TestResolveWindowExplicit(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	start, end, err := resolveWindow("2026-08-29T00:00:00Z", "2026-08-29T06:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, end.Sub(start))
}

func TestResolveWindowRejectsBadInput(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"unparseable start", "yesterday", ""},
		{"unparseable end", "", "tomorrow"},
		{"end before start", "2026-08-29T06:00:00Z", "2026-08-29T00:00:00Z"},
		{"window over 24h", "2026-08-27T00:00:00Z", "2026-08-29T00:00:00Z"},
		{"start too far back", "2026-08-20T00:00:00Z", "2026-08-20T06:00:00Z"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := resolveWindow(tc.start, tc.end, now)
			assert.Error(t, err)
		})
	}
}

func TestSplitContentTypes(t *testing.T) {
	assert.Equal(t,
		[]string{"Audit.Exchange", "Audit.SharePoint"},
		splitContentTypes("Audit.Exchange, Audit.SharePoint"))
	assert.Nil(t, splitContentTypes(""))
	assert.Nil(t, splitContentTypes(" , "))
}

func TestActivityEndpoints(t *testing.T) {
	for cloud, endpoint := range activityEndpoints {
		assert.Contains(t, endpoint, "https://", "endpoint for %s", cloud)
		assert.Contains(t, endpoint, "/api/v1.0/", "endpoint for %s", cloud)
	}
	assert.Len(t, activityEndpoints, 4)
}
