package outputproviders

import (
	"os"

	"github.com/zer0grav1tas/tenantctl/internal/message"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type HtmlFileProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
}

func NewHtmlFileProvider(opts []*types.Option) types.OutputProvider {
	return &HtmlFileProvider{
		OutputPath: o.GetOptionByName(o.OutputOpt.Name, opts).Value,
		FileName:   optionValue(o.FileNameOpt.Name, opts),
	}
}

func (fp *HtmlFileProvider) Write(result types.Result) error {
	doc, ok := result.Data.(types.HTMLDocument)
	if !ok {
		return nil
	}

	filename := ResolveFileName(result.Filename, fp.FileName, result.Module, "html")
	fullpath := GetFullPath(filename, fp.OutputPath)
	if err := ensureDir(fullpath); err != nil {
		return err
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(doc.Body); err != nil {
		return err
	}

	message.Success("HTML report written to %s", fullpath)
	return nil
}
