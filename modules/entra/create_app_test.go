package entra

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCert(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "tenantctl-test"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.pem")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, pem.Encode(f, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	return path
}

func TestLoadCertificate(t *testing.T) {
	path := writeTestCert(t)

	cert, err := loadCertificate(path)
	require.NoError(t, err)
	assert.Equal(t, "tenantctl-test", cert.Subject.CommonName)
}

func TestLoadCertificateNoBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0644))

	_, err := loadCertificate(path)
	assert.Error(t, err)
}

func TestLoadCertificateMissingFile(t *testing.T) {
	_, err := loadCertificate("/nonexistent/cert.pem")
	assert.Error(t, err)
}

func TestSplitRoleIDs(t *testing.T) {
	assert.Equal(t,
		[]string{"df021288-bdef-4463-88db-98f22de89214", "19dbc75e-c2e2-444c-a770-ec69d8559fc7"},
		splitRoleIDs("df021288-bdef-4463-88db-98f22de89214, 19dbc75e-c2e2-444c-a770-ec69d8559fc7"))
	assert.Nil(t, splitRoleIDs(""))
}

func TestGraphResourceAccess(t *testing.T) {
	rra, err := graphResourceAccess([]string{"df021288-bdef-4463-88db-98f22de89214"})
	require.NoError(t, err)
	require.Len(t, rra, 1)

	assert.Equal(t, "00000003-0000-0000-c000-000000000000", *rra[0].GetResourceAppId())
	access := rra[0].GetResourceAccess()
	require.Len(t, access, 1)
	assert.Equal(t, "df021288-bdef-4463-88db-98f22de89214", access[0].GetId().String())
	assert.Equal(t, "Role", *access[0].GetTypeEscaped())
}

func TestGraphResourceAccessRejectsBadID(t *testing.T) {
	_, err := graphResourceAccess([]string{"User.Read.All"})
	assert.Error(t, err)
}

func TestEscapeODataString(t *testing.T) {
	assert.Equal(t, "Contoso App", escapeODataString("Contoso App"))
	assert.Equal(t, "O''Brien''s App", escapeODataString("O'Brien's App"))
}
