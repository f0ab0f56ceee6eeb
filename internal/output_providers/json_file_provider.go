package outputproviders

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/zer0grav1tas/tenantctl/internal/message"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type JsonFileProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
}

func NewJsonFileProvider(opts []*types.Option) types.OutputProvider {
	return &JsonFileProvider{
		OutputPath: o.GetOptionByName(o.OutputOpt.Name, opts).Value,
		FileName:   optionValue(o.FileNameOpt.Name, opts),
	}
}

func (fp *JsonFileProvider) Write(result types.Result) error {
	switch result.Data.(type) {
	case types.MarkdownTable, types.CSVDocument, types.HTMLDocument:
		// These belong to their dedicated providers.
		slog.Debug("JSON provider is skipping non-JSON result")
		return nil
	}

	filename := ResolveFileName(result.Filename, fp.FileName, result.Module, "json")
	fullpath := GetFullPath(filename, fp.OutputPath)
	if err := ensureDir(fullpath); err != nil {
		return err
	}

	file, err := os.Create(fullpath)
	if err != nil {
		return err
	}
	defer file.Close()
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	err = encoder.Encode(result.Data)
	if err != nil {
		return err
	}

	message.Success("Output written to %s", fullpath)

	return nil
}
