package application

import (
	"fmt"

	"github.com/layerlint/layerlint/internal/domain"
)

// FrontEnds is an ordered set of front ends. The first one that supports a
// path parses it.
type FrontEnds []domain.FrontEnd

// For returns the front end responsible for relPath.
func (fs FrontEnds) For(relPath string) (domain.FrontEnd, error) {
	for _, fe := range fs {
		if fe.Supports(relPath) {
			return fe, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", relPath, domain.ErrNoFrontEnd)
}

// Supports reports whether any front end accepts relPath. It is handed to the
// scanner as its file filter.
func (fs FrontEnds) Supports(relPath string) bool {
	_, err := fs.For(relPath)
	return err == nil
}

// Names lists the registered front ends.
func (fs FrontEnds) Names() []string {
	names := make([]string, len(fs))
	for i, fe := range fs {
		names[i] = fe.Name()
	}
	return names
}
