package sharepoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

func TestClampBatchSize(t *testing.T) {
	assert.Equal(t, 1, clampBatchSize(0))
	assert.Equal(t, 1, clampBatchSize(-10))
	assert.Equal(t, 1000, clampBatchSize(1000))
	assert.Equal(t, 5000, clampBatchSize(5000))
	assert.Equal(t, 5000, clampBatchSize(99999))
}

func TestFilterLists(t *testing.T) {
	lists := []types.SiteList{
		{Title: "Documents", Hidden: false},
		{Title: "User Information List", Hidden: true},
	}

	visible := filterLists(lists, false)
	require.Len(t, visible, 1)
	assert.Equal(t, "Documents", visible[0].Title)

	all := filterLists(lists, true)
	assert.Len(t, all, 2)
}

func TestParseRoleAssignments(t *testing.T) {
	data := []byte(`{
		"RoleAssignments": [
			{
				"Member": {
					"Id": 7,
					"Title": "HR Owners",
					"LoginName": "c:0o.c|federateddirectoryclaimprovider|abc",
					"Email": "hr-owners@contoso.com",
					"PrincipalType": 8
				},
				"RoleDefinitionBindings": [
					{"Id": 1073741829, "Name": "Full Control"},
					{"Id": 1073741827, "Name": "Edit"}
				]
			}
		]
	}`)

	assignments, err := parseRoleAssignments("web", data)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	assert.Equal(t, "web", assignments[0].Scope)
	assert.Equal(t, "HR Owners", assignments[0].PrincipalName)
	assert.Equal(t, int64(8), assignments[0].PrincipalType)
	assert.Equal(t, "Full Control", assignments[0].RoleName)
	assert.Equal(t, "Edit", assignments[1].RoleName)
}

func TestParseRoleAssignmentsEmpty(t *testing.T) {
	assignments, err := parseRoleAssignments("web", []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestParseRoleAssignmentsInvalid(t *testing.T) {
	_, err := parseRoleAssignments("web", []byte(`not json`))
	assert.Error(t, err)
}

func TestRenderReport(t *testing.T) {
	report := types.SiteAuditReport{
		ReportID:    "abc123",
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Web: types.SiteWeb{
			Title: "HR <Site>",
			URL:   "https://contoso.sharepoint.com/sites/hr",
		},
		Lists: []types.SiteList{
			{Title: "Documents", URL: "/sites/hr/Shared Documents", ItemCount: 42, HasUnique: true},
		},
		RoleDefinitions: []types.RoleDefinition{
			{ID: 1073741829, Name: "Full Control", Description: "Has full control."},
		},
		Assignments: []types.RoleAssignment{
			{Scope: "Documents", PrincipalName: "HR Owners", RoleName: "Full Control"},
		},
	}

	doc, err := renderReport(report)
	require.NoError(t, err)

	assert.Contains(t, doc.Body, "abc123")
	assert.Contains(t, doc.Body, "Full Control")
	assert.Contains(t, doc.Body, "unique")
	// Template must escape markup in site titles.
	assert.Contains(t, doc.Body, "HR &lt;Site&gt;")
	assert.NotContains(t, doc.Body, "HR <Site>")
}
