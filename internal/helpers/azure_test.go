package helpers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/microsoftgraph/msgraph-sdk-go/models/odataerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

func TestCredentialConfigFromOptions(t *testing.T) {
	tenant := o.TenantOpt
	tenant.Value = "11111111-2222-3333-4444-555555555555"
	client := o.ClientOpt
	client.Value = "66666666-7777-8888-9999-000000000000"
	secret := o.SecretOpt
	secret.Value = "s3cret"

	cfg := CredentialConfigFromOptions([]*types.Option{&tenant, &client, &secret})

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", cfg.TenantID)
	assert.Equal(t, "66666666-7777-8888-9999-000000000000", cfg.ClientID)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Empty(t, cfg.PfxPath)
}

func TestNewTokenCredentialSecretRequiresTenantAndClient(t *testing.T) {
	_, err := NewTokenCredential(CredentialConfig{Secret: "s3cret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--tenant")
}

func TestNewTokenCredentialMissingPfxFile(t *testing.T) {
	_, err := NewTokenCredential(CredentialConfig{
		TenantID: "11111111-2222-3333-4444-555555555555",
		ClientID: "66666666-7777-8888-9999-000000000000",
		PfxPath:  "/nonexistent/app.pfx",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read PFX file")
}

func TestNewTokenCredentialSecretWins(t *testing.T) {
	// Secret takes precedence even when a certificate path is also set, so
	// a bad cert path must not surface an error.
	cred, err := NewTokenCredential(CredentialConfig{
		TenantID: "11111111-2222-3333-4444-555555555555",
		ClientID: "66666666-7777-8888-9999-000000000000",
		Secret:   "s3cret",
		PfxPath:  "/nonexistent/app.pfx",
	})
	require.NoError(t, err)
	assert.NotNil(t, cred)
}

func throttledODataError() *odataerrors.ODataError {
	oerr := odataerrors.NewODataError()
	oerr.ResponseStatusCode = 429
	return oerr
}

func TestGraphErrorDetail(t *testing.T) {
	code := "Request_BadRequest"
	msg := "Invalid object identifier"

	main := odataerrors.NewMainError()
	main.SetCode(&code)
	main.SetMessage(&msg)
	oerr := odataerrors.NewODataError()
	oerr.SetErrorEscaped(main)

	assert.Equal(t, "Request_BadRequest: Invalid object identifier", GraphErrorDetail(oerr))
	assert.Equal(t, "plain failure", GraphErrorDetail(errors.New("plain failure")))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"throttled", &azcore.ResponseError{StatusCode: http.StatusTooManyRequests}, true},
		{"unavailable", &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}, true},
		{"gateway timeout", &azcore.ResponseError{StatusCode: http.StatusGatewayTimeout}, true},
		{"graph throttled", throttledODataError(), true},
		{"graph bad request", odataerrors.NewODataError(), false},
		{"forbidden", &azcore.ResponseError{StatusCode: http.StatusForbidden}, false},
		{"not found", &azcore.ResponseError{StatusCode: http.StatusNotFound}, false},
		{"network timeout", errors.New("dial tcp: i/o timeout"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("invalid filter clause"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}

func TestRetryTransientStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := RetryTransient(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("invalid filter clause")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestSharePointClientRequiresCertificate(t *testing.T) {
	_, _, err := NewSharePointClient(CredentialConfig{
		TenantID: "11111111-2222-3333-4444-555555555555",
		ClientID: "66666666-7777-8888-9999-000000000000",
		Secret:   "s3cret",
	}, "https://contoso.sharepoint.com/sites/hr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "certificate")
}

func TestSharePointClientRejectsRelativeURL(t *testing.T) {
	_, _, err := NewSharePointClient(CredentialConfig{
		TenantID:    "11111111-2222-3333-4444-555555555555",
		ClientID:    "66666666-7777-8888-9999-000000000000",
		PfxPath:     "app.pfx",
		PfxPassword: "pass",
	}, "/sites/hr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute")
}
