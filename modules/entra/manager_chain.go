package entra

import (
	"context"
	"fmt"
	"strings"

	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type EntraManagerChain struct {
	modules.BaseModule
}

var EntraManagerChainOptions = []*types.Option{
	&o.ManagerOpt,
	&o.GroupOpt,
}

var EntraManagerChainMetadata = modules.Metadata{
	Id:          "manager-chain",
	Name:        "Manager Chain",
	Description: "Walk the reporting hierarchy below a manager, restricted to members of a group.",
	Platform:    modules.Entra,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/graph/api/user-list-directreports"},
}

var EntraManagerChainOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
	op.NewCsvFileProvider,
}

func NewEntraManagerChain(options []*types.Option, run types.Run) (modules.Module, error) {
	return &EntraManagerChain{
		BaseModule: modules.BaseModule{
			Metadata:        EntraManagerChainMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(EntraManagerChainOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *EntraManagerChain) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	manager := m.GetOptionByName(o.ManagerOpt.Name).Value
	groupID := m.GetOptionByName(o.GroupOpt.Name).Value

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	client, _, err := helpers.NewGraphClient(cfg)
	if err != nil {
		return err
	}

	members, err := groupMemberUpns(ctx, client, groupID)
	if err != nil {
		return err
	}
	message.Info("Group has %d user members", len(members))

	hierarchy := map[string]string{}
	walkReports(ctx, client, manager, members, hierarchy)

	chain := buildChain(hierarchy)
	message.Success("Found %d reporting edges under %s", len(chain), manager)

	m.Run.Data <- m.MakeResult(chain, types.WithFilename(op.DefaultFileName("manager-chain", "json")))
	m.Run.Data <- m.MakeResult(chainToCsv(chain), types.WithFilename(op.DefaultFileName("manager-chain", "csv")))
	return nil
}

func groupMemberUpns(ctx context.Context, client *msgraphsdk.GraphServiceClient, groupID string) ([]string, error) {
	var result models.DirectoryObjectCollectionResponseable
	err := helpers.RetryTransient(ctx, func(ctx context.Context) error {
		var err error
		result, err = client.Groups().ByGroupId(groupID).Members().Get(ctx, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %s", helpers.GraphErrorDetail(err))
	}

	var upns []string
	for _, member := range result.GetValue() {
		if user, ok := member.(models.Userable); ok {
			if upn := user.GetUserPrincipalName(); upn != nil {
				upns = append(upns, *upn)
			}
		}
	}
	return upns, nil
}

// walkReports descends the direct-report graph from manager, recording an
// edge for every report that is also a group member. The hierarchy map doubles
// as the visited set, so reporting cycles terminate.
func walkReports(ctx context.Context, client *msgraphsdk.GraphServiceClient, manager string, members []string, hierarchy map[string]string) {
	var result models.DirectoryObjectCollectionResponseable
	err := helpers.RetryTransient(ctx, func(ctx context.Context) error {
		var err error
		result, err = client.Users().ByUserId(manager).DirectReports().Get(ctx, nil)
		return err
	})
	if err != nil {
		message.Warning("Failed to fetch reports for %s: %s", manager, helpers.GraphErrorDetail(err))
		return
	}

	for _, report := range result.GetValue() {
		user, ok := report.(models.Userable)
		if !ok {
			continue
		}
		upn := helpers.StringValue(user.GetUserPrincipalName())
		if upn == "" {
			continue
		}

		if containsFold(members, upn) && hierarchy[upn] == "" {
			hierarchy[upn] = manager
			walkReports(ctx, client, upn, members, hierarchy)
		}
	}
}

func buildChain(hierarchy map[string]string) []types.ManagerLink {
	chain := make([]types.ManagerLink, 0, len(hierarchy))
	for upn, manager := range hierarchy {
		chain = append(chain, types.ManagerLink{
			UserPrincipalName:    upn,
			ManagerPrincipalName: manager,
		})
	}
	return chain
}

func containsFold(list []string, item string) bool {
	for _, v := range list {
		if strings.EqualFold(v, item) {
			return true
		}
	}
	return false
}

func chainToCsv(chain []types.ManagerLink) types.CSVDocument {
	doc := types.CSVDocument{
		Headers: []string{"userPrincipalName", "managerPrincipalName"},
	}
	for _, link := range chain {
		doc.Rows = append(doc.Rows, []string{link.UserPrincipalName, link.ManagerPrincipalName})
	}
	return doc
}
