package jq

import (
	"bytes"
	"os"
	"testing"
)

func TestPerformJqQuery(t *testing.T) {
	jsonContent := `{"displayName": "audit-app", "signInCount": 30}`
	tempFile, err := os.CreateTemp("", "test.json")
	if err != nil {
		t.Fatalf("Error creating temporary file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()
	tempFile.Write([]byte(jsonContent))

	testCases := []struct {
		filePath  string
		jqQuery   string
		expected  []byte
		expectErr bool
	}{
		{
			filePath: tempFile.Name(),
			jqQuery:  ".signInCount",
			expected: []byte("30"),
		},
		{
			filePath: tempFile.Name(),
			jqQuery:  ".displayName",
			expected: []byte(`"audit-app"`),
		},
		{
			filePath: tempFile.Name(),
			jqQuery:  ".missing",
			expected: []byte("null"),
		},
		{
			filePath:  tempFile.Name(),
			jqQuery:   "][",
			expectErr: true,
		},
		{
			filePath:  "nonexistent.json",
			jqQuery:   ".signInCount",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		result, err := PerformJqQueryOnFile(tc.filePath, tc.jqQuery)

		if tc.expectErr {
			if err == nil {
				t.Errorf("query %q: expected an error, but got none", tc.jqQuery)
			}
			continue
		}
		if err != nil {
			t.Errorf("query %q: unexpected error: %v", tc.jqQuery, err)
		} else if !bytes.Equal(result, tc.expected) {
			t.Errorf("query %q: expected %s, but got %s", tc.jqQuery, tc.expected, result)
		}
	}
}
