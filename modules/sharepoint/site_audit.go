package sharepoint

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/koltyakov/gosip/api"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

// SharePoint rejects page sizes outside this range.
const (
	minBatchSize = 1
	maxBatchSize = 5000
)

const webFields = "Id,Title,Url,WebTemplate"
const listFields = "Id,Title,Hidden,ItemCount,BaseTemplate,RootFolder/ServerRelativeUrl"
const roleAssignmentFields = `RoleAssignments/Member/Id,` +
	`RoleAssignments/Member/Title,` +
	`RoleAssignments/Member/LoginName,` +
	`RoleAssignments/Member/PrincipalType,` +
	`RoleAssignments/Member/Email,` +
	`RoleAssignments/RoleDefinitionBindings/Id,` +
	`RoleAssignments/RoleDefinitionBindings/Name`

const roleAssignmentExpand = `RoleAssignments,RoleAssignments/Member,RoleAssignments/RoleDefinitionBindings`

type SharePointSiteAudit struct {
	modules.BaseModule
}

var SharePointSiteAuditOptions = []*types.Option{
	&o.SiteURLOpt,
	&o.IncludeHiddenOpt,
	&o.BatchSizeOpt,
	o.WithDefaultValue(o.WorkerCountOpt, "4"),
}

var SharePointSiteAuditMetadata = modules.Metadata{
	Id:          "audit-site",
	Name:        "Site Permission Audit",
	Description: "Collect lists, permission levels, and role assignments for a site and render an HTML report.",
	Platform:    modules.SharePoint,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/sharepoint/dev/sp-add-ins/add-in-permissions-in-sharepoint"},
}

var SharePointSiteAuditOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
	op.NewHtmlFileProvider,
}

func NewSharePointSiteAudit(options []*types.Option, run types.Run) (modules.Module, error) {
	return &SharePointSiteAudit{
		BaseModule: modules.BaseModule{
			Metadata:        SharePointSiteAuditMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(SharePointSiteAuditOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *SharePointSiteAudit) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	siteURL := m.GetOptionByName(o.SiteURLOpt.Name).Value
	includeHidden, _ := strconv.ParseBool(m.GetOptionByName(o.IncludeHiddenOpt.Name).Value)
	batchSize, _ := strconv.Atoi(m.GetOptionByName(o.BatchSizeOpt.Name).Value)
	workers, _ := strconv.Atoi(m.GetOptionByName(o.WorkerCountOpt.Name).Value)
	if workers < 1 {
		workers = 1
	}
	batchSize = clampBatchSize(batchSize)

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	sp, _, err := helpers.NewSharePointClient(cfg, siteURL)
	if err != nil {
		return err
	}

	report := types.SiteAuditReport{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	report.Web, err = getWeb(ctx, sp)
	if err != nil {
		return err
	}
	message.Info("Auditing site %s", report.Web.Title)

	lists, err := getLists(ctx, sp, batchSize)
	if err != nil {
		return err
	}
	report.Lists = filterLists(lists, includeHidden)
	message.Info("Found %d lists (%d after hidden filter)", len(lists), len(report.Lists))

	report.RoleDefinitions, err = getRoleDefinitions(ctx, sp)
	if err != nil {
		return err
	}

	report.Assignments, err = collectAssignments(ctx, sp, report.Lists, workers)
	if err != nil {
		return err
	}
	message.Success("Collected %d role assignments", len(report.Assignments))

	html, err := renderReport(report)
	if err != nil {
		return err
	}

	m.Run.Data <- m.MakeResult(report, types.WithFilename(op.DefaultFileName("site-audit", "json")))
	m.Run.Data <- m.MakeResult(html, types.WithFilename(op.DefaultFileName("site-audit", "html")))
	return nil
}

// clampBatchSize keeps the page size inside SharePoint's accepted range.
func clampBatchSize(size int) int {
	if size < minBatchSize {
		return minBatchSize
	}
	if size > maxBatchSize {
		return maxBatchSize
	}
	return size
}

func filterLists(lists []types.SiteList, includeHidden bool) []types.SiteList {
	if includeHidden {
		return lists
	}
	visible := []types.SiteList{}
	for _, l := range lists {
		if !l.Hidden {
			visible = append(visible, l)
		}
	}
	return visible
}

func getWeb(ctx context.Context, sp *api.SP) (types.SiteWeb, error) {
	res, err := sp.Conf(&api.RequestConfig{Context: ctx}).Web().Select(webFields).Get()
	if err != nil {
		return types.SiteWeb{}, fmt.Errorf("failed to get web: %w", err)
	}

	var webData struct {
		Id          string
		Title       string
		Url         string
		WebTemplate string
	}
	if err := json.Unmarshal(res.Normalized(), &webData); err != nil {
		return types.SiteWeb{}, fmt.Errorf("failed to decode web: %w", err)
	}

	return types.SiteWeb{
		ID:       webData.Id,
		Title:    webData.Title,
		URL:      webData.Url,
		Template: webData.WebTemplate,
	}, nil
}

func getLists(ctx context.Context, sp *api.SP, batchSize int) ([]types.SiteList, error) {
	res, err := sp.Conf(&api.RequestConfig{Context: ctx}).Web().Lists().
		Select(listFields).
		Expand("RootFolder").
		Top(batchSize).
		Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get lists: %w", err)
	}

	var listsData []struct {
		Id           string
		Title        string
		Hidden       bool
		ItemCount    int
		BaseTemplate int
		RootFolder   struct{ ServerRelativeUrl string }
	}
	if err := json.Unmarshal(res.Normalized(), &listsData); err != nil {
		return nil, fmt.Errorf("failed to decode lists: %w", err)
	}

	lists := make([]types.SiteList, 0, len(listsData))
	for _, l := range listsData {
		hasUnique, err := sp.Conf(&api.RequestConfig{Context: ctx}).Web().Lists().GetByID(l.Id).Roles().HasUniqueAssignments()
		if err != nil {
			message.Warning("Could not check permission inheritance for list %s: %v", l.Title, err)
			hasUnique = false
		}

		lists = append(lists, types.SiteList{
			ID:           l.Id,
			Title:        l.Title,
			URL:          l.RootFolder.ServerRelativeUrl,
			BaseTemplate: l.BaseTemplate,
			ItemCount:    l.ItemCount,
			Hidden:       l.Hidden,
			HasUnique:    hasUnique,
		})
	}

	return lists, nil
}

func getRoleDefinitions(ctx context.Context, sp *api.SP) ([]types.RoleDefinition, error) {
	roleDefs, err := sp.Conf(&api.RequestConfig{Context: ctx}).Web().RoleDefinitions().Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get role definitions: %w", err)
	}

	definitions := make([]types.RoleDefinition, 0, len(roleDefs))
	for _, rd := range roleDefs {
		definitions = append(definitions, types.RoleDefinition{
			ID:          int64(rd.ID),
			Name:        rd.Name,
			Description: rd.Description,
		})
	}
	return definitions, nil
}

// collectAssignments gathers role assignments for the web and for every list
// that breaks permission inheritance. Lists are fanned out over a bounded
// worker pool since each one costs a round trip.
func collectAssignments(ctx context.Context, sp *api.SP, lists []types.SiteList, workers int) ([]types.RoleAssignment, error) {
	webRes, err := sp.Conf(&api.RequestConfig{Context: ctx}).Web().
		Select(roleAssignmentFields).
		Expand(roleAssignmentExpand).
		Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get web role assignments: %w", err)
	}
	assignments, err := parseRoleAssignments("web", webRes.Normalized())
	if err != nil {
		return nil, err
	}

	uniqueLists := []types.SiteList{}
	for _, l := range lists {
		if l.HasUnique {
			uniqueLists = append(uniqueLists, l)
		}
	}

	jobs := make(chan types.SiteList)
	results := make(chan []types.RoleAssignment)
	wg := new(sync.WaitGroup)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for l := range jobs {
				res, err := sp.Conf(&api.RequestConfig{Context: ctx}).Web().Lists().GetByID(l.ID).
					Select(roleAssignmentFields).
					Expand(roleAssignmentExpand).
					Get()
				if err != nil {
					message.Warning("Failed to get role assignments for list %s: %v", l.Title, err)
					continue
				}
				parsed, err := parseRoleAssignments(l.Title, res.Normalized())
				if err != nil {
					message.Warning("Failed to parse role assignments for list %s: %v", l.Title, err)
					continue
				}
				results <- parsed
			}
		}()
	}

	go func() {
		for _, l := range uniqueLists {
			jobs <- l
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for parsed := range results {
		assignments = append(assignments, parsed...)
	}

	return assignments, nil
}

// parseRoleAssignments flattens a SharePoint RoleAssignments expansion into
// one entry per principal and permission level.
func parseRoleAssignments(scope string, data []byte) ([]types.RoleAssignment, error) {
	var payload struct {
		RoleAssignments []struct {
			Member struct {
				Id            int64
				Title         string
				LoginName     string
				Email         string
				PrincipalType int64
			}
			RoleDefinitionBindings []struct {
				Id   int64
				Name string
			}
		}
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode role assignments: %w", err)
	}

	assignments := []types.RoleAssignment{}
	for _, ra := range payload.RoleAssignments {
		for _, binding := range ra.RoleDefinitionBindings {
			assignments = append(assignments, types.RoleAssignment{
				Scope:         scope,
				PrincipalID:   ra.Member.Id,
				PrincipalName: ra.Member.Title,
				LoginName:     ra.Member.LoginName,
				Email:         ra.Member.Email,
				PrincipalType: ra.Member.PrincipalType,
				RoleName:      binding.Name,
			})
		}
	}
	return assignments, nil
}
