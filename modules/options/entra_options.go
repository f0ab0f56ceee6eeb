package options

import "github.com/zer0grav1tas/tenantctl/pkg/types"

var AppNameOpt = types.Option{
	Name:        "name",
	Short:       "n",
	Description: "display name of the app registration",
	Required:    true,
	Type:        types.String,
	Value:       "",
}

var GraphRolesOpt = types.Option{
	Name:        "graph-roles",
	Description: "comma-separated Graph application role IDs to request for the app",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var AppCertOpt = types.Option{
	Name:        "key-cert",
	Description: "PEM certificate to attach as the app's key credential",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var MaxAgeMonthsOpt = types.Option{
	Name:        "max-age-months",
	Description: "app registrations older than this many months are cleanup candidates",
	Required:    false,
	Type:        types.Int,
	Value:       "3",
}

var DeleteOpt = types.Option{
	Name:        "delete",
	Description: "delete stale app registrations instead of only reporting them",
	Required:    false,
	Type:        types.Bool,
	Value:       "false",
}

var ManagerOpt = types.Option{
	Name:        "manager",
	Short:       "m",
	Description: "user principal name of the top-level manager",
	Required:    true,
	Type:        types.String,
	Value:       "",
}

var GroupOpt = types.Option{
	Name:        "group",
	Short:       "g",
	Description: "group ID restricting which users appear in the chain",
	Required:    true,
	Type:        types.String,
	Value:       "",
	ValueFormat: guidFormat,
}
