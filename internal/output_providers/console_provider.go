package outputproviders

import (
	"fmt"

	"github.com/zer0grav1tas/tenantctl/internal/jq"
	"github.com/zer0grav1tas/tenantctl/internal/message"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type ConsoleProvider struct {
	types.OutputProvider
	JqQuery string
}

func NewConsoleProvider(opts []*types.Option) types.OutputProvider {
	query := ""
	if opt := o.GetOptionByName(o.JqOpt.Name, opts); opt != nil {
		query = opt.Value
	}
	return &ConsoleProvider{JqQuery: query}
}

// Write prints the `data` field of the result to the console, optionally
// narrowed through a jq expression.
func (cp *ConsoleProvider) Write(result types.Result) error {
	if cp.JqQuery != "" {
		filtered, err := jq.PerformJqQuery(result.DataJson(), cp.JqQuery)
		if err != nil {
			message.Warning("jq filter failed: %v", err)
			fmt.Println(result.String())
			return nil
		}
		fmt.Println(string(filtered))
		return nil
	}

	fmt.Println(result.String())
	return nil
}
