package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

func TestEnvOverridesMapDashesToUnderscores(t *testing.T) {
	t.Setenv("TENANTCTL_PFX_PASSWORD", "from-env")
	initConfig()

	assert.Equal(t, "from-env", viper.GetString("pfx-password"))
}

func TestPickAuthOptsValidatesGuidFormats(t *testing.T) {
	tenant := o.TenantOpt
	tenant.Value = "not-a-guid"
	secret := o.SecretOpt
	secret.Value = "s3cret"
	opts := []*types.Option{&tenant, &secret}

	auth := pickAuthOpts(opts)
	require.Len(t, auth, 2)
	assert.Error(t, o.ValidateOptions(auth, auth))

	tenant.Value = "11111111-2222-3333-4444-555555555555"
	assert.NoError(t, o.ValidateOptions(auth, auth))
}

func TestPickAuthOptsSkipsAbsentOptions(t *testing.T) {
	tenant := o.TenantOpt
	auth := pickAuthOpts([]*types.Option{&tenant})

	require.Len(t, auth, 1)
	assert.NoError(t, o.ValidateOptions(auth, auth))
}
