package outputproviders

import (
	"encoding/csv"
	"os"

	"github.com/zer0grav1tas/tenantctl/internal/message"
	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

type CsvFileProvider struct {
	types.OutputProvider
	OutputPath string
	FileName   string
}

func NewCsvFileProvider(opts []*types.Option) types.OutputProvider {
	return &CsvFileProvider{
		OutputPath: o.GetOptionByName(o.OutputOpt.Name, opts).Value,
		FileName:   optionValue(o.FileNameOpt.Name, opts),
	}
}

func (fp *CsvFileProvider) Write(result types.Result) error {
	doc, ok := result.Data.(types.CSVDocument)
	if !ok {
		return nil
	}

	filename := ResolveFileName(result.Filename, fp.FileName, result.Module, "csv")
	fullpath := GetFullPath(filename, fp.OutputPath)
	if err := ensureDir(fullpath); err != nil {
		return err
	}

	// Append so repeated runs of the same module accumulate, headers written
	// only for a fresh file.
	file, err := os.OpenFile(fullpath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	writeHeader := false
	if info, err := file.Stat(); err == nil && info.Size() == 0 {
		writeHeader = true
	}

	writer := csv.NewWriter(file)
	if writeHeader && len(doc.Headers) > 0 {
		if err := writer.Write(doc.Headers); err != nil {
			return err
		}
	}
	for _, row := range doc.Rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	message.Success("CSV written to %s", fullpath)
	return nil
}
