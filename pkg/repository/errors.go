package repository

import (
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotFound     = goerr.New("not found")
	ErrInvalidInput = goerr.New("invalid input")
)

// ValidateName checks that an artifact name is a clean relative slash path
func ValidateName(name string) error {
	if name == "" {
		return goerr.Wrap(ErrInvalidInput, "artifact name is empty")
	}
	if strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return goerr.Wrap(ErrInvalidInput, "artifact name must be a relative slash path", goerr.V("name", name))
	}
	if path.Clean(name) != name || strings.HasPrefix(name, "../") || name == ".." {
		return goerr.Wrap(ErrInvalidInput, "artifact name is not clean", goerr.V("name", name))
	}
	return nil
}
