package outputproviders

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

func testOpts(t *testing.T) []*types.Option {
	t.Helper()
	out := o.OutputOpt
	out.Value = t.TempDir()
	jq := o.JqOpt
	return []*types.Option{&out, &jq}
}

func TestJsonFileProviderWritesIndentedJson(t *testing.T) {
	opts := testOpts(t)
	fp := NewJsonFileProvider(opts)

	result := types.NewResult("entra", "export-users",
		[]types.DirectoryUser{{UserPrincipalName: "a@contoso.com", DisplayName: "A"}},
		types.WithFilename("users.json"),
	)
	require.NoError(t, fp.Write(result))

	raw, err := os.ReadFile(filepath.Join(opts[0].Value, "users.json"))
	require.NoError(t, err)

	var users []types.DirectoryUser
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 1)
	assert.Equal(t, "a@contoso.com", users[0].UserPrincipalName)
}

func TestJsonFileProviderSkipsTableResults(t *testing.T) {
	opts := testOpts(t)
	fp := NewJsonFileProvider(opts)

	result := types.NewResult("entra", "export-users",
		types.MarkdownTable{Headers: []string{"a"}},
		types.WithFilename("skipped.json"),
	)
	require.NoError(t, fp.Write(result))

	_, err := os.Stat(filepath.Join(opts[0].Value, "skipped.json"))
	assert.True(t, os.IsNotExist(err), "markdown results must not be written as JSON")
}

func TestMarkdownFileProviderSkipsOtherTypes(t *testing.T) {
	opts := testOpts(t)
	fp := NewMarkdownFileProvider(opts)

	err := fp.Write(types.NewResult("entra", "export-users", "plain string", types.WithFilename("skipped.md")))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(opts[0].Value, "skipped.md"))
	assert.True(t, os.IsNotExist(statErr), "non-table results must not produce a markdown file")
}

func TestCsvFileProviderHeaderOnlyOnce(t *testing.T) {
	opts := testOpts(t)
	fp := NewCsvFileProvider(opts)

	doc := types.CSVDocument{
		Headers: []string{"EmailAddress", "ManagerEmailAddress"},
		Rows:    [][]string{{"a@contoso.com", "m@contoso.com"}},
	}
	result := types.NewResult("entra", "manager-chain", doc, types.WithFilename("chain.csv"))
	require.NoError(t, fp.Write(result))
	require.NoError(t, fp.Write(result))

	raw, err := os.ReadFile(filepath.Join(opts[0].Value, "chain.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "EmailAddress,ManagerEmailAddress", lines[0])
	assert.Equal(t, lines[1], lines[2])
}

func TestHtmlFileProviderWritesBody(t *testing.T) {
	opts := testOpts(t)
	fp := NewHtmlFileProvider(opts)

	doc := types.HTMLDocument{Title: "Site Audit", Body: "<html><body>ok</body></html>"}
	require.NoError(t, fp.Write(types.NewResult("sharepoint", "audit-site", doc, types.WithFilename("report.html"))))

	raw, err := os.ReadFile(filepath.Join(opts[0].Value, "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<body>ok</body>")
}

func TestDefaultFileName(t *testing.T) {
	name := DefaultFileName("message-trace", "csv")
	assert.True(t, strings.HasPrefix(name, "message-trace-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}

func TestResolveFileName(t *testing.T) {
	assert.Equal(t, "base.json", ResolveFileName("users.json", "base", "export-users", "json"))
	assert.Equal(t, "users.json", ResolveFileName("users.json", "", "export-users", "json"))

	generated := ResolveFileName("", "", "audit-site", "html")
	assert.True(t, strings.HasPrefix(generated, "audit-site-"))
	assert.True(t, strings.HasSuffix(generated, ".html"))
}

func TestFileProviderHonorsFileNameOption(t *testing.T) {
	opts := testOpts(t)
	base := o.FileNameOpt
	base.Value = "nightly"
	opts = append(opts, &base)

	fp := NewJsonFileProvider(opts)
	result := types.NewResult("entra", "export-users", []types.DirectoryUser{{DisplayName: "A"}})
	require.NoError(t, fp.Write(result))

	_, err := os.Stat(filepath.Join(opts[0].Value, "nightly.json"))
	assert.NoError(t, err)
}
