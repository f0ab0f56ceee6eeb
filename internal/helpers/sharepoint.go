package helpers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/api"
	strategy "github.com/koltyakov/gosip/auth/azurecert"
)

// NewSharePointClient builds a SharePoint REST client bound to a single site.
// SharePoint app-only access refuses client secrets, so a PFX certificate is
// mandatory here even though the Graph modules accept one.
func NewSharePointClient(cfg CredentialConfig, siteURL string) (*api.SP, *gosip.SPClient, error) {
	if cfg.PfxPath == "" {
		return nil, nil, errors.New("SharePoint app-only authentication requires a certificate (--pfx); client secrets are not accepted")
	}
	if cfg.TenantID == "" || cfg.ClientID == "" {
		return nil, nil, errors.New("SharePoint authentication requires --tenant and --client")
	}
	if !strings.HasPrefix(siteURL, "https://") {
		return nil, nil, fmt.Errorf("site URL must be absolute: %q", siteURL)
	}

	authCnfg := &strategy.AuthCnfg{
		SiteURL:  siteURL,
		TenantID: cfg.TenantID,
		ClientID: cfg.ClientID,
		CertPath: cfg.PfxPath,
		CertPass: cfg.PfxPassword,
	}

	client := &gosip.SPClient{AuthCnfg: authCnfg}
	return api.NewSP(client), client, nil
}
