package entra

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	abstractions "github.com/microsoft/kiota-abstractions-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/applications"
	"github.com/microsoftgraph/msgraph-sdk-go/auditlogs"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

// expireTagPrefix marks an app registration as exempt from cleanup until the
// given date, e.g. "expireOn : 2026-12-31".
const expireTagPrefix = "expireOn : "

type EntraCleanupApps struct {
	modules.BaseModule
}

var EntraCleanupAppsOptions = []*types.Option{
	&o.MaxAgeMonthsOpt,
	&o.DeleteOpt,
}

var EntraCleanupAppsMetadata = modules.Metadata{
	Id:          "cleanup-apps",
	Name:        "Cleanup Stale App Registrations",
	Description: "Report app registrations with no recent sign-in activity and no unexpired retention tag; optionally delete them.",
	Platform:    modules.Entra,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/graph/api/signin-list"},
}

var EntraCleanupAppsOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
	op.NewMarkdownFileProvider,
}

func NewEntraCleanupApps(options []*types.Option, run types.Run) (modules.Module, error) {
	return &EntraCleanupApps{
		BaseModule: modules.BaseModule{
			Metadata:        EntraCleanupAppsMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(EntraCleanupAppsOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *EntraCleanupApps) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	maxAgeMonths, err := strconv.Atoi(m.GetOptionByName(o.MaxAgeMonthsOpt.Name).Value)
	if err != nil || maxAgeMonths < 1 {
		return fmt.Errorf("invalid max-age-months value %q", m.GetOptionByName(o.MaxAgeMonthsOpt.Name).Value)
	}
	doDelete, _ := strconv.ParseBool(m.GetOptionByName(o.DeleteOpt.Name).Value)

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	client, _, err := helpers.NewGraphClient(cfg)
	if err != nil {
		return err
	}

	apps, err := listApplications(ctx, client)
	if err != nil {
		return err
	}
	message.Info("Evaluating %d app registrations", len(apps))

	now := time.Now()
	verdicts := []types.StaleApp{}
	for _, app := range apps {
		appID := helpers.StringValue(app.GetAppId())

		hasSignIn, err := hasRecentSignIn(ctx, client, appID)
		if err != nil {
			message.Warning("Skipping %s, sign-in lookup failed: %s", helpers.StringValue(app.GetDisplayName()), helpers.GraphErrorDetail(err))
			continue
		}

		verdict := evaluateApp(app.GetCreatedDateTime(), app.GetTags(), hasSignIn, maxAgeMonths, now)
		verdict.ObjectID = helpers.StringValue(app.GetId())
		verdict.AppID = appID
		verdict.DisplayName = helpers.StringValue(app.GetDisplayName())

		if verdict.Stale && doDelete {
			err := client.Applications().ByApplicationId(verdict.ObjectID).Delete(ctx, nil)
			if err != nil {
				message.Error("Failed to delete %s: %s", verdict.DisplayName, helpers.GraphErrorDetail(err))
			} else {
				verdict.Deleted = true
				message.Success("Deleted stale app registration %s", verdict.DisplayName)
			}
		}

		verdicts = append(verdicts, verdict)
	}

	stale := 0
	for _, v := range verdicts {
		if v.Stale {
			stale++
		}
	}
	message.Info("%d of %d app registrations are stale", stale, len(verdicts))

	m.Run.Data <- m.MakeResult(verdicts, types.WithFilename(op.DefaultFileName("cleanup-apps", "json")))
	m.Run.Data <- m.MakeResult(staleAppsTable(verdicts), types.WithFilename(op.DefaultFileName("cleanup-apps", "md")))
	return nil
}

// evaluateApp decides whether a single app registration is stale. An app is
// stale when it is older than maxAgeMonths, has no sign-in activity, and
// carries no unexpired retention tag.
func evaluateApp(created *time.Time, tags []string, hasSignIn bool, maxAgeMonths int, now time.Time) types.StaleApp {
	verdict := types.StaleApp{HasSignIn: hasSignIn}

	tooOld := false
	if created != nil {
		verdict.CreatedAt = created.Format(time.RFC3339)
		tooOld = created.Before(now.AddDate(0, -maxAgeMonths, 0))
	}

	for _, tag := range tags {
		if !strings.HasPrefix(tag, expireTagPrefix) {
			continue
		}
		expiresOn, err := time.Parse("2006-01-02", strings.TrimPrefix(tag, expireTagPrefix))
		if err != nil {
			message.Warning("Unparseable retention tag %q", tag)
			continue
		}
		if expiresOn.After(now) {
			verdict.HasUnexpiredTag = true
		}
	}

	verdict.Stale = tooOld && !hasSignIn && !verdict.HasUnexpiredTag
	return verdict
}

func listApplications(ctx context.Context, client *msgraphsdk.GraphServiceClient) ([]models.Applicationable, error) {
	count := true
	headers := abstractions.NewRequestHeaders()
	headers.Add("ConsistencyLevel", "eventual")

	requestConfig := &applications.ApplicationsRequestBuilderGetRequestConfiguration{
		QueryParameters: &applications.ApplicationsRequestBuilderGetQueryParameters{
			Select:  []string{"id", "appId", "displayName", "createdDateTime", "tags"},
			Orderby: []string{"displayName"},
			Count:   &count,
			Top:     helpers.Int32Ptr(999),
		},
		Headers: headers,
	}

	var result models.ApplicationCollectionResponseable
	err := helpers.RetryTransient(ctx, func(ctx context.Context) error {
		var err error
		result, err = client.Applications().Get(ctx, requestConfig)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %s", helpers.GraphErrorDetail(err))
	}

	pageIterator, err := msgraphcore.NewPageIterator[models.Applicationable](result, client.GetAdapter(), models.CreateApplicationCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create page iterator: %w", err)
	}

	apps := []models.Applicationable{}
	err = pageIterator.Iterate(ctx, func(app models.Applicationable) bool {
		apps = append(apps, app)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return apps, nil
}

// hasRecentSignIn checks the sign-in log for any activity by the app,
// interactive or not. The log only covers the tenant's retention window, so
// "no sign-ins" means none within that window.
func hasRecentSignIn(ctx context.Context, client *msgraphsdk.GraphServiceClient, appID string) (bool, error) {
	filter := fmt.Sprintf("signInEventTypes/any(t: t eq 'interactiveUser' or t eq 'nonInteractiveUser' or t eq 'servicePrincipal' or t eq 'managedIdentity') and appId eq '%s'", appID)
	requestConfig := &auditlogs.SignInsRequestBuilderGetRequestConfiguration{
		QueryParameters: &auditlogs.SignInsRequestBuilderGetQueryParameters{
			Top:     helpers.Int32Ptr(1),
			Filter:  &filter,
			Orderby: []string{"createdDateTime desc"},
		},
	}

	var result models.SignInCollectionResponseable
	err := helpers.RetryTransient(ctx, func(ctx context.Context) error {
		var err error
		result, err = client.AuditLogs().SignIns().Get(ctx, requestConfig)
		return err
	})
	if err != nil {
		return false, err
	}

	return len(result.GetValue()) > 0, nil
}

func staleAppsTable(verdicts []types.StaleApp) types.MarkdownTable {
	table := types.MarkdownTable{
		TableHeading: "Stale App Registrations",
		Headers:      []string{"Display Name", "App ID", "Created", "Sign-ins", "Retention Tag", "Stale", "Deleted"},
	}
	for _, v := range verdicts {
		table.Rows = append(table.Rows, []string{
			v.DisplayName,
			v.AppID,
			v.CreatedAt,
			strconv.FormatBool(v.HasSignIn),
			strconv.FormatBool(v.HasUnexpiredTag),
			strconv.FormatBool(v.Stale),
			strconv.FormatBool(v.Deleted),
		})
	}
	return table
}
