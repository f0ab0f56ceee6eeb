package options

import (
	"regexp"

	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

var guidFormat = regexp.MustCompile("^[0-9A-Fa-f]{8}-([0-9A-Fa-f]{4}-){3}[0-9A-Fa-f]{12}$")

var TenantOpt = types.Option{
	Name:        "tenant",
	Short:       "t",
	Description: "Entra ID tenant ID (discovered from the token when omitted)",
	Required:    false,
	Type:        types.String,
	Value:       "",
	ValueFormat: guidFormat,
}

var ClientOpt = types.Option{
	Name:        "client",
	Short:       "c",
	Description: "application (client) ID of the service principal",
	Required:    false,
	Type:        types.String,
	Value:       "",
	ValueFormat: guidFormat,
}

var SecretOpt = types.Option{
	Name:        "secret",
	Description: "client secret for app-only authentication",
	Required:    false,
	Type:        types.String,
	Value:       "",
	Sensitive:   true,
}

var PfxOpt = types.Option{
	Name:        "pfx",
	Description: "path to a PFX certificate for app-only authentication",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var PfxPasswordOpt = types.Option{
	Name:        "pfx-password",
	Description: "password of the PFX certificate",
	Required:    false,
	Type:        types.String,
	Value:       "",
	Sensitive:   true,
}

var CertOpt = types.Option{
	Name:        "cert",
	Description: "path to a PEM certificate and key for app-only authentication",
	Required:    false,
	Type:        types.String,
	Value:       "",
}
