package outputproviders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	o "github.com/zer0grav1tas/tenantctl/modules/options"
	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

// GetFullPath constructs the full file path from filename and output path
func GetFullPath(filename string, outputPath string) string {
	return outputPath + string(os.PathSeparator) + filename
}

// DefaultFileName builds "<prefix>-<shortid>.<ext>" for results that did not
// ask for a specific file name.
func DefaultFileName(prefix, ext string) string {
	short := uuid.NewString()[:8]
	return fmt.Sprintf("%s-%s.%s", prefix, short, ext)
}

// ResolveFileName picks the name for an output file: an explicit --filename
// base wins over the result's own file name, which wins over a generated
// default.
func ResolveFileName(requested, base, prefix, ext string) string {
	if base != "" {
		return base + "." + ext
	}
	if requested != "" {
		return requested
	}
	return DefaultFileName(prefix, ext)
}

func optionValue(name string, opts []*types.Option) string {
	if opt := o.GetOptionByName(name, opts); opt != nil {
		return opt.Value
	}
	return ""
}

// ensureDir creates the directory holding fullpath if it does not exist yet.
func ensureDir(fullpath string) error {
	dir := filepath.Dir(fullpath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, os.ModePerm)
	}
	return nil
}
