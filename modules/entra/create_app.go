package entra

import (
	"context"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	abstractions "github.com/microsoft/kiota-abstractions-go"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/applications"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/zer0grav1tas/tenantctl/internal/helpers"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	op "github.com/zer0grav1tas/tenantctl/internal/output_providers"
	"github.com/zer0grav1tas/tenantctl/modules"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

// graphResourceAppID is the well-known application ID of Microsoft Graph.
const graphResourceAppID = "00000003-0000-0000-c000-000000000000"

type EntraCreateApp struct {
	modules.BaseModule
}

var EntraCreateAppOptions = []*types.Option{
	&o.AppNameOpt,
	&o.GraphRolesOpt,
	&o.AppCertOpt,
}

var EntraCreateAppMetadata = modules.Metadata{
	Id:          "create-app",
	Name:        "Create App Registration",
	Description: "Create an app registration with a service principal, optionally attaching a certificate as its key credential.",
	Platform:    modules.Entra,
	Authors:     []string{"zer0grav1tas"},
	References:  []string{"https://learn.microsoft.com/en-us/graph/api/application-post-applications"},
}

var EntraCreateAppOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewConsoleProvider,
	op.NewJsonFileProvider,
}

func NewEntraCreateApp(options []*types.Option, run types.Run) (modules.Module, error) {
	return &EntraCreateApp{
		BaseModule: modules.BaseModule{
			Metadata:        EntraCreateAppMetadata,
			Options:         options,
			OutputProviders: modules.RenderOutputProviders(EntraCreateAppOutputProviders, options),
			Run:             run,
		},
	}, nil
}

func (m *EntraCreateApp) Invoke() error {
	defer close(m.Run.Data)
	ctx := context.Background()

	name := m.GetOptionByName(o.AppNameOpt.Name).Value
	certPath := m.GetOptionByName(o.AppCertOpt.Name).Value

	cfg := helpers.CredentialConfigFromOptions(m.Options)
	client, cred, err := helpers.NewGraphClient(cfg)
	if err != nil {
		return err
	}

	tenantID, err := helpers.ResolveTenantID(ctx, cfg, cred)
	if err != nil {
		return err
	}
	if tenantName, _, err := helpers.GetTenantDetails(ctx, client); err == nil {
		message.Info("Tenant: %s (%s)", tenantName, tenantID)
	}

	exists, err := displayNameInUse(ctx, client, name)
	if err != nil {
		return fmt.Errorf("failed to check for existing app registration: %s", helpers.GraphErrorDetail(err))
	}
	if exists {
		return fmt.Errorf("an app registration named %q already exists", name)
	}

	app := models.NewApplication()
	app.SetDisplayName(&name)

	if roleIDs := splitRoleIDs(m.GetOptionByName(o.GraphRolesOpt.Name).Value); len(roleIDs) > 0 {
		rra, err := graphResourceAccess(roleIDs)
		if err != nil {
			return err
		}
		app.SetRequiredResourceAccess(rra)
	}

	var created models.Applicationable
	err = helpers.RetryTransient(ctx, func(ctx context.Context) error {
		created, err = client.Applications().Post(ctx, app, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create application %q: %s", name, helpers.GraphErrorDetail(err))
	}

	result := types.AppRegistration{
		ObjectID:    helpers.StringValue(created.GetId()),
		AppID:       helpers.StringValue(created.GetAppId()),
		DisplayName: helpers.StringValue(created.GetDisplayName()),
		TenantID:    tenantID,
	}

	if certPath != "" {
		thumbprint, err := m.attachKeyCredential(ctx, client, result.ObjectID, certPath)
		if err != nil {
			return err
		}
		result.CertThumbprint = thumbprint
		message.Success("Attached certificate %s", thumbprint)
	}

	sp := models.NewServicePrincipal()
	sp.SetAppId(created.GetAppId())
	spCreated, err := client.ServicePrincipals().Post(ctx, sp, nil)
	if err != nil {
		return fmt.Errorf("failed to create service principal for %q: %s", name, helpers.GraphErrorDetail(err))
	}
	result.ServicePrincipalID = helpers.StringValue(spCreated.GetId())

	message.Success("Created app registration %s (appId %s)", result.DisplayName, result.AppID)
	m.Run.Data <- m.MakeResult(result, types.WithFilename(op.DefaultFileName("create-app", "json")))
	return nil
}

func (m *EntraCreateApp) attachKeyCredential(ctx context.Context, client *msgraphsdk.GraphServiceClient, objectID, certPath string) (string, error) {
	cert, err := loadCertificate(certPath)
	if err != nil {
		return "", err
	}

	kc := models.NewKeyCredential()
	kc.SetTypeEscaped(helpers.StringPtr("AsymmetricX509Cert"))
	kc.SetUsage(helpers.StringPtr("Verify"))
	kc.SetKey(cert.Raw)
	kc.SetDisplayName(helpers.StringPtr("tenantctl"))

	patch := models.NewApplication()
	patch.SetKeyCredentials([]models.KeyCredentialable{kc})

	err = helpers.RetryTransient(ctx, func(ctx context.Context) error {
		_, err := client.Applications().ByApplicationId(objectID).Patch(ctx, patch, nil)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to attach key credential: %s", helpers.GraphErrorDetail(err))
	}

	sum := sha1.Sum(cert.Raw)
	return hex.EncodeToString(sum[:]), nil
}

// displayNameInUse reports whether an app registration with the given display
// name already exists. Entra does not enforce unique display names, so this
// guards against accidental duplicates rather than a directory constraint.
func displayNameInUse(ctx context.Context, client *msgraphsdk.GraphServiceClient, name string) (bool, error) {
	count := true
	filter := fmt.Sprintf("displayName eq '%s'", escapeODataString(name))
	headers := abstractions.NewRequestHeaders()
	headers.Add("ConsistencyLevel", "eventual")

	requestConfig := &applications.ApplicationsRequestBuilderGetRequestConfiguration{
		QueryParameters: &applications.ApplicationsRequestBuilderGetQueryParameters{
			Filter: &filter,
			Count:  &count,
			Top:    helpers.Int32Ptr(1),
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
		return false, err
	}

	return len(result.GetValue()) > 0, nil
}

// escapeODataString doubles single quotes for use inside an OData filter literal.
func escapeODataString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// graphResourceAccess builds the requiredResourceAccess entry requesting the
// given Graph application roles. The roles still need admin consent after
// the app is created.
func graphResourceAccess(roleIDs []string) ([]models.RequiredResourceAccessable, error) {
	rra := models.NewRequiredResourceAccess()
	rra.SetResourceAppId(helpers.StringPtr(graphResourceAppID))

	accesses := make([]models.ResourceAccessable, 0, len(roleIDs))
	for _, id := range roleIDs {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid Graph role ID %q: %w", id, err)
		}
		access := models.NewResourceAccess()
		access.SetId(&parsed)
		access.SetTypeEscaped(helpers.StringPtr("Role"))
		accesses = append(accesses, access)
	}
	rra.SetResourceAccess(accesses)

	return []models.RequiredResourceAccessable{rra}, nil
}

func splitRoleIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// loadCertificate reads the first CERTIFICATE block from a PEM file.
func loadCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	for {
		block, rest := pem.Decode(data)
		if block == nil {
			return nil, errors.New("no CERTIFICATE block found in PEM file")
		}
		if block.Type == "CERTIFICATE" {
			return x509.ParseCertificate(block.Bytes)
		}
		data = rest
	}
}
