package options

import "github.com/zer0grav1tas/tenantctl/pkg/types"

var OutputOpt = types.Option{
	Name:        "output",
	Short:       "o",
	Description: "output directory",
	Required:    false,
	Type:        types.String,
	Value:       "output",
}

var FileNameOpt = types.Option{
	Name:        "filename",
	Description: "base name for output files",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var JqOpt = types.Option{
	Name:        "jq",
	Description: "jq expression applied to console output",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var WorkerCountOpt = types.Option{
	Name:        "workers",
	Short:       "w",
	Description: "number of concurrent workers",
	Required:    false,
	Type:        types.Int,
	Value:       "5",
}
