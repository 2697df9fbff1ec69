package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// EncodeMultiFieldToken creates a token with any number of string fields
// This provides flexibility for different pagination strategies
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// EncodeOffsetToken creates a token resuming a listing at offset. The
// ordering is carried along so a token cannot be replayed on another sort.
func EncodeOffsetToken(offset int, ordering string) string {
	return EncodeMultiFieldToken(strconv.Itoa(offset), ordering)
}

// DecodeOffsetToken parses a token built by EncodeOffsetToken and checks it
// was issued for ordering.
func DecodeOffsetToken(token, ordering string) (int, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return 0, err
	}
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid pagination token format (split)")
	}
	offset, err := strconv.Atoi(parts[0])
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid pagination token format (offset parse)")
	}
	if parts[1] != ordering {
		return 0, fmt.Errorf("pagination token was issued for ordering %q", parts[1])
	}
	return offset, nil
}
