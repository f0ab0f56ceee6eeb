package options

import "github.com/zer0grav1tas/tenantctl/pkg/types"

var SiteURLOpt = types.Option{
	Name:        "site",
	Short:       "s",
	Description: "SharePoint site URL (e.g. https://contoso.sharepoint.com/sites/hr)",
	Required:    true,
	Type:        types.String,
	Value:       "",
}

var IncludeHiddenOpt = types.Option{
	Name:        "include-hidden",
	Description: "include hidden lists in the audit",
	Required:    false,
	Type:        types.Bool,
	Value:       "false",
}

var BatchSizeOpt = types.Option{
	Name:        "batch-size",
	Description: "page size for SharePoint list queries",
	Required:    false,
	Type:        types.Int,
	Value:       "1000",
}
