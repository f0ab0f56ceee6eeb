package helpers

// Pointer and dereference helpers for the Graph SDK's pointer-heavy models.

func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func BoolValue(b *bool) bool {
	if b == nil {
		return false
	}
	return *b
}

func StringPtr(s string) *string {
	return &s
}

func Int32Ptr(i int32) *int32 {
	return &i
}
