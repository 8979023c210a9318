package exceptions

import (
	"path"
	"strings"
	"unicode"

	"github.com/layerlint/layerlint/internal/domain/layers"
)

// FallbackPrefix is used when no feature can be derived from the path.
const FallbackPrefix = "Feature"

var layerDirs = map[string]bool{"domain": true, "data": true, "presentation": true}

var skipDirs = map[string]bool{
	"lib": true, "src": true, "app": true, "core": true, "shared": true,
	"common": true, "features": true, "modules": true, "packages": true,
}

// SuggestPrefixedName proposes a feature-scoped replacement for a generic
// exception name, e.g. NotFoundException in /lib/features/todos/domain/x.dart
// becomes TodoNotFoundException. The result is deterministic.
func (t *Taxonomy) SuggestPrefixedName(name, filePath string) string {
	name = baseName(name)
	if _, stem, ok := t.genericForm(splitWords(name)); ok && len(stem) < t.minPrefix {
		name = strings.TrimPrefix(name, stem)
	}
	return FeaturePrefix(filePath) + name
}

// FeaturePrefix derives the PascalCase, singular feature name for a path.
func FeaturePrefix(filePath string) string {
	dirs := strings.Split(strings.Trim(path.Dir(layers.Normalize(filePath)), "/"), "/")

	for i := len(dirs) - 2; i >= 0; i-- {
		if dirs[i] == "features" && dirs[i+1] != "" {
			return pascalSingular(dirs[i+1])
		}
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		if !layerDirs[dirs[i]] {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if dirs[j] == "" || skipDirs[dirs[j]] || layerDirs[dirs[j]] {
				continue
			}
			return pascalSingular(dirs[j])
		}
		break
	}
	return FallbackPrefix
}

func pascalSingular(dir string) string {
	parts := strings.FieldsFunc(dir, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	if len(parts) == 0 {
		return FallbackPrefix
	}
	parts[len(parts)-1] = singular(parts[len(parts)-1])

	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	if b.Len() == 0 {
		return FallbackPrefix
	}
	return b.String()
}

func singular(w string) string {
	lw := strings.ToLower(w)
	switch {
	case strings.HasSuffix(lw, "ies") && len(w) > 3:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(lw, "s") && !strings.HasSuffix(lw, "ss") && len(w) > 1:
		return w[:len(w)-1]
	}
	return w
}
