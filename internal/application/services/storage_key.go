package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"
)

const maxExtLen = 16

var extSafeRe = regexp.MustCompile(`[^a-z0-9]+`)

// newStorageKey: "<unix-millis>-<32 hex random>.<ext>". The 128 random bits come from
// crypto/rand, so two keys minted in the same millisecond for the same name still differ.
func newStorageKey(now time.Time, originalName, mimeType string) string {
	var rnd [16]byte
	_, _ = rand.Read(rnd[:]) // never fails since go1.24

	return fmt.Sprintf(
		"%d-%s%s",
		now.UTC().UnixMilli(),
		hex.EncodeToString(rnd[:]),
		storageExt(originalName, mimeType),
	)
}

// storageExt keeps the client's extension when it is plain ASCII, otherwise falls back
// to the mime type and finally to ".bin".
func storageExt(originalName, mimeType string) string {
	name := strings.ReplaceAll(strings.TrimSpace(originalName), "\\", "/")
	ext := strings.ToLower(path.Ext(path.Base(name)))
	ext = extSafeRe.ReplaceAllString(strings.TrimPrefix(ext, "."), "")

	if ext == "" && mimeType != "" {
		if exts, _ := mime.ExtensionsByType(mimeType); len(exts) > 0 {
			ext = extSafeRe.ReplaceAllString(strings.ToLower(strings.TrimPrefix(exts[0], ".")), "")
		}
	}
	if len(ext) > maxExtLen {
		ext = ext[:maxExtLen]
	}
	if ext == "" {
		ext = "bin"
	}

	return "." + ext
}
