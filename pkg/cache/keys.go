package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key prefixes.
const (
	PrefixRender = "render"
	PrefixCrop   = "crop"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// RenderKeyOpts holds everything that changes a rendered annotation layer.
type RenderKeyOpts struct {
	Width, Height float64
	Style         string   // computed style string
	Selected      []string // selected annotation IDs
}

// RenderKey returns the key of a rendering of source whose annotation set
// hashes to contentHash.
func RenderKey(source, contentHash string, opts RenderKeyOpts) string {
	return hashKey(PrefixRender, source, contentHash, opts.Width, opts.Height, opts.Style, opts.Selected)
}

// CropKey returns the key of a cropped region export.
func CropKey(imageHash, selectorValue string, scale float64) string {
	return hashKey(PrefixCrop, imageHash, selectorValue, scale)
}

// Scoped prefixes key with scope, separating tenants sharing one backend.
func Scoped(scope, key string) string {
	if scope == "" {
		return key
	}
	return scope + ":" + key
}
