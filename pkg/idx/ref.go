package idx

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidRef reports an identity reference that is not valid base64.
var ErrInvalidRef = errors.New("idx: invalid identity reference")

// EncodeRef turns a raw identity id into the value carried by the userId
// cookie. This is an obfuscation, not a signature: anyone can decode it, and
// nothing downstream trusts it without a verified token.
func EncodeRef(id string) string {
	return base64.StdEncoding.EncodeToString([]byte(id))
}

// DecodeRef reverses EncodeRef. Padding is optional so refs that went through
// a client that trims "=" still decode.
func DecodeRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidRef
	}

	raw, err := base64.StdEncoding.DecodeString(ref)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(ref, "="))
		if err != nil {
			return "", ErrInvalidRef
		}
	}

	if len(raw) == 0 {
		return "", ErrInvalidRef
	}
	return string(raw), nil
}
