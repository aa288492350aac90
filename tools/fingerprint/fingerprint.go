package fingerprint

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Placeholder signals. These are not derived from the host.
const (
	DefaultTimezone     = "UTC"
	DefaultCanvas       = "canvas_data"
	DefaultWebGL        = "webgl_data"
	DefaultTouchSupport = true
)

// Length is the size of a fingerprint in hex characters.
const Length = sha256.Size * 2

// AttributeRecord is the fixed set of attributes a fingerprint is derived from.
// Field order defines the serialized member order and must not change.
type AttributeRecord struct {
	UserAgent        string `json:"user_agent"`
	Platform         string `json:"platform"`
	Languages        string `json:"languages"`
	Timezone         string `json:"timezone"`
	ScreenResolution string `json:"screen_resolution"`
	ColorDepth       uint32 `json:"color_depth"`
	Canvas           string `json:"canvas"`
	WebGL            string `json:"webgl"`
	TouchSupport     bool   `json:"touch_support"`
}

// Canonical encodes the record as compact JSON with members in field order.
// HTML characters are left unescaped and no trailing newline is written.
func Canonical(r AttributeRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode attribute record: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Compute returns the SHA-256 of the canonical record as a lowercase hex string.
func Compute(r AttributeRecord) (string, error) {
	data, err := Canonical(r)
	if err != nil {
		return "", &Error{Kind: ErrSerializationFailed, Message: MsgSerialize, Err: err}
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// IsValid reports whether fp has the shape of a fingerprint.
func IsValid(fp string) bool {
	if len(fp) != Length {
		return false
	}
	for i := 0; i < len(fp); i++ {
		c := fp[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
