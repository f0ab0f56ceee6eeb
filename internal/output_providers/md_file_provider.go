package outputproviders

import (
	"os"

	"github.com/zer0grav1tas/tenantctl/internal/message"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type MarkdownFileProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
}

func NewMarkdownFileProvider(opts []*types.Option) types.OutputProvider {
	return &MarkdownFileProvider{
		OutputPath: o.GetOptionByName(o.OutputOpt.Name, opts).Value,
		FileName:   optionValue(o.FileNameOpt.Name, opts),
	}
}

func (fp *MarkdownFileProvider) Write(result types.Result) error {
	// Result.Data needs to be of type MarkdownTable for this provider to work.
	// Other result shapes belong to their own providers.
	table, ok := result.Data.(types.MarkdownTable)
	if !ok {
		return nil
	}
	filename := ResolveFileName(result.Filename, fp.FileName, result.Module, "md")
	fullpath := GetFullPath(filename, fp.OutputPath)
	if err := ensureDir(fullpath); err != nil {
		return err
	}

	file, err := os.OpenFile(fullpath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(table.ToString()); err != nil {
		return err
	}
	if _, err := file.WriteString("\n"); err != nil {
		return err
	}

	message.Success("Markdown table written to %s", fullpath)
	return nil
}
