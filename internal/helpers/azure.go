package helpers

import (
	"context"
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/golang-jwt/jwt/v5"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
	"github.com/sethvargo/go-retry"
	"software.sslmate.com/src/go-pkcs12"

	"github.com/zer0grav1tas/tenantctl/internal/logs"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

const GraphDefaultScope = "https://graph.microsoft.com/.default"

// CredentialConfig carries the service principal settings shared by every
// module. Exactly one of Secret, PfxPath, or CertPath selects app-only
// authentication; with none set the default credential chain is used.
type CredentialConfig struct {
	TenantID    string
	ClientID    string
	Secret      string
	PfxPath     string
	PfxPassword string
	CertPath    string
}

// CredentialConfigFromOptions extracts the shared auth settings from module
// options.
func CredentialConfigFromOptions(opts []*types.Option) CredentialConfig {
	get := func(name string) string {
		if opt := o.GetOptionByName(name, opts); opt != nil {
			return opt.Value
		}
		return ""
	}

	return CredentialConfig{
		TenantID:    get(o.TenantOpt.Name),
		ClientID:    get(o.ClientOpt.Name),
		Secret:      get(o.SecretOpt.Name),
		PfxPath:     get(o.PfxOpt.Name),
		PfxPassword: get(o.PfxPasswordOpt.Name),
		CertPath:    get(o.CertOpt.Name),
	}
}

// NewTokenCredential builds an azcore.TokenCredential for the configured
// service principal. Secret wins over PFX, PFX over PEM; with no explicit
// material the default chain (env, CLI, managed identity) is used so the tool
// stays usable from an operator shell.
func NewTokenCredential(cfg CredentialConfig) (azcore.TokenCredential, error) {
	switch {
	case cfg.Secret != "":
		if cfg.TenantID == "" || cfg.ClientID == "" {
			return nil, errors.New("client secret authentication requires --tenant and --client")
		}
		return azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.Secret, nil)

	case cfg.PfxPath != "":
		if cfg.TenantID == "" || cfg.ClientID == "" {
			return nil, errors.New("certificate authentication requires --tenant and --client")
		}
		pfxData, err := os.ReadFile(cfg.PfxPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read PFX file: %w", err)
		}
		return newCertCredential(cfg.TenantID, cfg.ClientID, pfxData, cfg.PfxPassword)

	case cfg.CertPath != "":
		if cfg.TenantID == "" || cfg.ClientID == "" {
			return nil, errors.New("certificate authentication requires --tenant and --client")
		}
		pemData, err := os.ReadFile(cfg.CertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read PEM file: %w", err)
		}
		certs, key, err := azidentity.ParseCertificates(pemData, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PEM certificate: %w", err)
		}
		return azidentity.NewClientCertificateCredential(cfg.TenantID, cfg.ClientID, certs, key,
			&azidentity.ClientCertificateCredentialOptions{SendCertificateChain: true})
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get Azure credentials: %w", err)
	}
	return cred, nil
}

// newCertCredential decodes a PFX bundle and builds a client certificate
// credential with the full chain attached.
func newCertCredential(tenantID, clientID string, pfxData []byte, password string) (*azidentity.ClientCertificateCredential, error) {
	key, cert, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decode PFX: %w", err)
	}

	privKey, ok := key.(crypto.PrivateKey)
	if !ok {
		return nil, errors.New("decoded key is not a valid crypto.PrivateKey")
	}

	// azidentity expects the leaf certificate first.
	certs := []*x509.Certificate{cert}
	certs = append(certs, caCerts...)

	opts := &azidentity.ClientCertificateCredentialOptions{
		SendCertificateChain: true,
	}

	return azidentity.NewClientCertificateCredential(tenantID, clientID, certs, privKey, opts)
}

// NewGraphClient returns a Graph client authenticated as the configured
// service principal.
func NewGraphClient(cfg CredentialConfig) (*msgraphsdk.GraphServiceClient, azcore.TokenCredential, error) {
	cred, err := NewTokenCredential(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, []string{GraphDefaultScope})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	return client, cred, nil
}

// ResolveTenantID returns the configured tenant ID, or extracts the "tid"
// claim from a freshly issued Graph token when the config left it empty.
// ParseUnverified is fine here: the token came straight from the identity
// endpoint and is only mined for its tenant claim, never used to authenticate
// an inbound request.
func ResolveTenantID(ctx context.Context, cfg CredentialConfig, cred azcore.TokenCredential) (string, error) {
	if cfg.TenantID != "" {
		return cfg.TenantID, nil
	}

	token, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{GraphDefaultScope}})
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	parser := new(jwt.Parser)
	claims := jwt.MapClaims{}
	_, _, err = parser.ParseUnverified(token.Token, claims)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	tid, ok := claims["tid"].(string)
	if !ok {
		return "", errors.New("could not find 'tid' claim in token")
	}
	return tid, nil
}

// GetTenantDetails reads the organization resource for the tenant display
// name and ID.
func GetTenantDetails(ctx context.Context, client *msgraphsdk.GraphServiceClient) (string, string, error) {
	org, err := client.Organization().Get(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to get organization details: %w", err)
	}

	tenantName := "Unknown"
	tenantID := "Unknown"

	if orgValue := org.GetValue(); len(orgValue) > 0 {
		if displayName := orgValue[0].GetDisplayName(); displayName != nil {
			tenantName = *displayName
		}
		if id := orgValue[0].GetId(); id != nil {
			tenantID = *id
		}
	}

	return tenantName, tenantID, nil
}

// GraphErrorDetail extracts the OData code and message from a Graph API
// error. The SDK's default error text is a generic "error status code
// received from the API", so without this the actual failure is invisible.
func GraphErrorDetail(err error) string {
	var oDataErr *odataerrors.ODataError
	if errors.As(err, &oDataErr) {
		if main := oDataErr.GetErrorEscaped(); main != nil {
			return fmt.Sprintf("%s: %s", StringValue(main.GetCode()), StringValue(main.GetMessage()))
		}
	}
	return err.Error()
}

// IsRetryable reports whether an error is transient: Graph throttling,
// service unavailability, or common network failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Graph SDK calls surface throttling as ODataError, not ResponseError.
	var oDataErr *odataerrors.ODataError
	if errors.As(err, &oDataErr) {
		switch oDataErr.ResponseStatusCode {
		case 429, 503, 504:
			return true
		}
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case 429, 503, 504:
			return true
		}
	}

	errMsg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure",
		"try again",
		"i/o timeout",
		"no such host",
		"network is unreachable",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}

// RetryTransient runs op with exponential backoff, retrying only errors
// classified transient by IsRetryable.
func RetryTransient(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.NewExponential(2 * time.Second)
	backoff = retry.WithCappedDuration(30*time.Second, backoff)
	backoff = retry.WithMaxRetries(3, backoff)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if IsRetryable(err) {
			logs.FileLogger().Warn("transient failure, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
