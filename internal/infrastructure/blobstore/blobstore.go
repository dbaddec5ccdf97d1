// Package blobstore holds what the blob store backends share.
package blobstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrKeyExists  = errors.New("blob already exists")
	ErrInvalidKey = errors.New("invalid storage key")
)

// ValidateKey accepts flat keys only: no separators, no dot segments.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) ||
		strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
