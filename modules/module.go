package modules

import (
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

const (
	Entra      types.Platform = "entra"
	Exchange   types.Platform = "exchange"
	SharePoint types.Platform = "sharepoint"
	Audit      types.Platform = "audit"
)

func GetPlatformFromString(platform string) types.Platform {
	switch platform {
	case "entra":
		return Entra
	case "exchange":
		return Exchange
	case "sharepoint":
		return SharePoint
	case "audit":
		return Audit
	default:
		return ""
	}
}

type Metadata struct {
	Id          string
	Name        string
	Description string
	Platform    types.Platform
	Authors     []string
	References  []string
}

type Module interface {
	Invoke() error
	GetOutputProviders() []types.OutputProvider
}

type BaseModule struct {
	Metadata
	Options         []*types.Option
	OutputProviders []types.OutputProvider
	Run             types.Run
}

func (m *BaseModule) GetOptionByName(name string) *types.Option {
	return o.GetOptionByName(name, m.Options)
}

func (m *BaseModule) AddOption(option types.Option) {
	m.Options = append(m.Options, &option)
}

func (m *BaseModule) MakeResult(data interface{}, opts ...types.ResultOption) types.Result {
	return types.NewResult(m.Platform, m.Name, data, opts...)
}

func (m *BaseModule) GetOutputProviders() []types.OutputProvider {
	return m.OutputProviders
}

func RenderOutputProviders(providers []func(options []*types.Option) types.OutputProvider, opts []*types.Option) []types.OutputProvider {
	op := []types.OutputProvider{}
	for _, p := range providers {
		op = append(op, p(opts))
	}

	return op
}
