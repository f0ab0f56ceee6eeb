package entra

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zer0grav1tas/tenantctl/pkg/types"
)

func TestUsersToCsv(t *testing.T) {
	doc := usersToCsv([]types.DirectoryUser{
		{
			ID:                "u1",
			UserPrincipalName: "alice@contoso.com",
			DisplayName:       "Alice",
			Mail:              "alice@contoso.com",
			AccountEnabled:    true,
			UserType:          "Member",
		},
	})

	assert.Len(t, doc.Headers, 8)
	assert.Len(t, doc.Rows, 1)
	assert.Equal(t, "alice@contoso.com", doc.Rows[0][1])
	assert.Equal(t, "true", doc.Rows[0][4])
}
