package entra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

func TestEvaluateApp(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, -6, 0)
	recent := now.AddDate(0, -1, 0)

	tests := []struct {
		name      string
		created   *time.Time
		tags      []string
		hasSignIn bool
		wantStale bool
	}{
		{"old unused untagged", &old, nil, false, true},
		{"old but signed in", &old, nil, true, false},
		{"recent and unused", &recent, nil, false, false},
		{"old with unexpired tag", &old, []string{"expireOn : 2027-01-01"}, false, false},
		{"old with expired tag", &old, []string{"expireOn : 2025-01-01"}, false, true},
		{"old with unparseable tag", &old, []string{"expireOn : someday"}, false, true},
		{"old with unrelated tag", &old, []string{"HideApp"}, false, true},
		{"no creation date", nil, nil, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verdict := evaluateApp(tc.created, tc.tags, tc.hasSignIn, 3, now)
			assert.Equal(t, tc.wantStale, verdict.Stale)
		})
	}
}

func TestEvaluateAppRespectsMaxAge(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	fourMonths := now.AddDate(0, -4, 0)

	assert.True(t, evaluateApp(&fourMonths, nil, false, 3, now).Stale)
	assert.False(t, evaluateApp(&fourMonths, nil, false, 6, now).Stale)
}

func TestStaleAppsTable(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, -6, 0)

	verdict := evaluateApp(&old, nil, false, 3, now)
	verdict.DisplayName = "legacy-integration"
	verdict.AppID = "00000000-0000-0000-0000-000000000001"

	table := staleAppsTable([]types.StaleApp{verdict})
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, "legacy-integration", table.Rows[0][0])
	assert.Contains(t, table.ToString(), "legacy-integration")
}
