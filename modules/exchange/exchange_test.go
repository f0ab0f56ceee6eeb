package exchange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "alice@contoso.com", []string{"alice@contoso.com"}},
		{"trims and lowercases", " Alice@contoso.com , bob@contoso.com ", []string{"alice@contoso.com", "bob@contoso.com"}},
		{"dedupes", "alice@contoso.com,ALICE@contoso.com", []string{"alice@contoso.com"}},
		{"drops invalid entries", "alice@contoso.com,,not-an-address", []string{"alice@contoso.com"}},
		{"empty", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseRecipients(tc.raw))
		})
	}
}

func TestSplitPaths(t *testing.T) {
	assert.Equal(t, []string{"a.pdf", "b.txt"}, splitPaths("a.pdf, b.txt"))
	assert.Nil(t, splitPaths(""))
}

func TestMakeRecipients(t *testing.T) {
	recipients := makeRecipients([]string{"alice@contoso.com", "bob@contoso.com"})
	assert.Len(t, recipients, 2)
	assert.Equal(t, "alice@contoso.com", *recipients[0].GetEmailAddress().GetAddress())
	assert.Equal(t, "bob@contoso.com", *recipients[1].GetEmailAddress().GetAddress())
}

func TestMakeFileAttachmentsMissingFile(t *testing.T) {
	_, err := makeFileAttachments([]string{"/nonexistent/report.pdf"})
	assert.Error(t, err)
}

func TestTraceCsv(t *testing.T) {
	entries := []types.MessageTraceEntry{
		{
			Subject:    "Quarterly report",
			From:       "alice@contoso.com",
			To:         []string{"bob@contoso.com", "carol@contoso.com"},
			ReceivedAt: time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	doc := traceCsv(entries)
	assert.Equal(t, []string{"receivedDateTime", "from", "to", "subject"}, doc.Headers)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "2026-08-01T09:30:00Z", doc.Rows[0][0])
	assert.Equal(t, "bob@contoso.com; carol@contoso.com", doc.Rows[0][2])
	assert.Equal(t, "Quarterly report", doc.Rows[0][3])
}
