package options

import "github.com/zer0grav1tas/tenantctl/pkg/types"

var ContentTypesOpt = types.Option{
	Name:        "content-types",
	Description: "comma-separated Management Activity content types",
	Required:    false,
	Type:        types.String,
	Value:       "Audit.AzureActiveDirectory,Audit.Exchange,Audit.SharePoint,Audit.General",
}

var StartTimeOpt = types.Option{
	Name:        "start",
	Description: "start of the query window (RFC3339, max 7 days back)",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var EndTimeOpt = types.Option{
	Name:        "end",
	Description: "end of the query window (RFC3339)",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var CloudOpt = types.Option{
	Name:        "cloud",
	Description: "Management Activity API cloud instance",
	Required:    false,
	Type:        types.String,
	Value:       "enterprise",
	ValueList:   []string{"enterprise", "gcc-gov", "gcc-high-gov", "dod-gov"},
}

var PublisherOpt = types.Option{
	Name:        "publisher",
	Description: "publisher GUID for Management Activity subscriptions (defaults to tenant ID)",
	Required:    false,
	Type:        types.String,
	Value:       "",
}
