package entra

import (
	"context"
	"fmt"
	"strconv"

	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type EntraExportUsers struct {
	modules.BaseModule
}

var EntraExportUsersOptions = []*types.Option{}

var EntraExportUsersMetadata = modules.Metadata{
	Id:          "export-users",
	Name:        "Export Users",
	Description: "Export all users in the tenant with their core directory attributes.",
	Platform:    modules.Entra,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/graph/api/user-list"},
}

var EntraExportUsersOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
	op.NewCsvFileProvider,
}

func NewEntraExportUsers(options []*types.Option, run types.Run) (modules.Module, error) {
	return &EntraExportUsers{
		BaseModule: modules.BaseModule{
			Metadata:        EntraExportUsersMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(EntraExportUsersOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *EntraExportUsers) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	client, _, err := helpers.NewGraphClient(cfg)
	if err != nil {
		return err
	}

	requestConfig := &users.UsersRequestBuilderGetRequestConfiguration{
		QueryParameters: &users.UsersRequestBuilderGetQueryParameters{
			Select: []string{
				"id", "userPrincipalName", "displayName", "mail",
				"accountEnabled", "userType", "department", "jobTitle",
			},
			Top: helpers.Int32Ptr(999),
		},
	}

	var result models.UserCollectionResponseable
	err = helpers.RetryTransient(ctx, func(ctx context.Context) error {
		var err error
		result, err = client.Users().Get(ctx, requestConfig)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get users: %s", helpers.GraphErrorDetail(err))
	}

	pageIterator, err := msgraphcore.NewPageIterator[models.Userable](result, client.GetAdapter(), models.CreateUserCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return fmt.Errorf("failed to create page iterator: %w", err)
	}

	exported := []types.DirectoryUser{}
	err = pageIterator.Iterate(ctx, func(user models.Userable) bool {
		exported = append(exported, types.DirectoryUser{
			ID:                helpers.StringValue(user.GetId()),
			UserPrincipalName: helpers.StringValue(user.GetUserPrincipalName()),
			DisplayName:       helpers.StringValue(user.GetDisplayName()),
			Mail:              helpers.StringValue(user.GetMail()),
			AccountEnabled:    helpers.BoolValue(user.GetAccountEnabled()),
			UserType:          helpers.StringValue(user.GetUserType()),
			Department:        helpers.StringValue(user.GetDepartment()),
			JobTitle:          helpers.StringValue(user.GetJobTitle()),
		})
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to iterate users: %w", err)
	}

	message.Success("Exported %d users", len(exported))
	m.Run.Data <- m.MakeResult(exported, types.WithFilename(op.DefaultFileName("users", "json")))
	m.Run.Data <- m.MakeResult(usersToCsv(exported), types.WithFilename(op.DefaultFileName("users", "csv")))
	return nil
}

func usersToCsv(exported []types.DirectoryUser) types.CSVDocument {
	doc := types.CSVDocument{
		Headers: []string{"id", "userPrincipalName", "displayName", "mail", "accountEnabled", "userType", "department", "jobTitle"},
	}
	for _, u := range exported {
		doc.Rows = append(doc.Rows, []string{
			u.ID,
			u.UserPrincipalName,
			u.DisplayName,
			u.Mail,
			strconv.FormatBool(u.AccountEnabled),
			u.UserType,
			u.Department,
			u.JobTitle,
		})
	}
	return doc
}
