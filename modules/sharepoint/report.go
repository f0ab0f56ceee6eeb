package sharepoint

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

var reportTemplate = template.Must(template.New("site-audit").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Site Audit: {{.Web.Title}}</title>
<style>
body { font-family: Segoe UI, sans-serif; margin: 2em; color: #222; }
h1 { border-bottom: 2px solid #0078d4; padding-bottom: 0.2em; }
table { border-collapse: collapse; margin-bottom: 2em; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th { background: #f3f3f3; }
.meta { color: #666; font-size: 0.9em; }
.unique { color: #a80000; font-weight: bold; }
</style>
</head>
<body>
<h1>Site Permission Audit</h1>
<p class="meta">Report {{.ReportID}} generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</p>

<h2>Site</h2>
<table>
<tr><th>Title</th><td>{{.Web.Title}}</td></tr>
<tr><th>URL</th><td>{{.Web.URL}}</td></tr>
<tr><th>Template</th><td>{{.Web.Template}}</td></tr>
</table>

<h2>Lists ({{len .Lists}})</h2>
<table>
<tr><th>Title</th><th>URL</th><th>Items</th><th>Permissions</th></tr>
{{range .Lists}}<tr><td>{{.Title}}</td><td>{{.URL}}</td><td>{{.ItemCount}}</td><td>{{if .HasUnique}}<span class="unique">unique</span>{{else}}inherited{{end}}</td></tr>
{{end}}</table>

<h2>Permission Levels ({{len .RoleDefinitions}})</h2>
<table>
<tr><th>Name</th><th>Description</th></tr>
{{range .RoleDefinitions}}<tr><td>{{.Name}}</td><td>{{.Description}}</td></tr>
{{end}}</table>

<h2>Role Assignments ({{len .Assignments}})</h2>
<table>
<tr><th>Scope</th><th>Principal</th><th>Login</th><th>Permission Level</th></tr>
{{range .Assignments}}<tr><td>{{.Scope}}</td><td>{{.PrincipalName}}</td><td>{{.LoginName}}</td><td>{{.RoleName}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// renderReport turns an audit report into a standalone HTML page.
func renderReport(report types.SiteAuditReport) (types.HTMLDocument, error) {
	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, report); err != nil {
		return types.HTMLDocument{}, fmt.Errorf("failed to render report: %w", err)
	}

	return types.HTMLDocument{
		Title: "Site Audit: " + report.Web.Title,
		Body:  sb.String(),
	}, nil
}
