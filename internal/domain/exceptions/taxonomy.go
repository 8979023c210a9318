// Package exceptions categorizes exception class names and decides whether a
// name is acceptable in the layer that declares or throws it.
package exceptions

import (
	"fmt"
	"strings"

	"github.com/fatih/camelcase"

	"github.com/layerlint/layerlint/internal/domain"
)

// builtIn are language and SDK exception types. They are acceptable anywhere.
var builtIn = map[string]bool{
	"Exception": true, "Error": true,
	// Dart core and SDK
	"FormatException": true, "TimeoutException": true, "IOException": true,
	"FileSystemException": true, "HttpException": true, "SocketException": true,
	"ArgumentError": true, "RangeError": true, "StateError": true,
	"UnsupportedError": true, "UnimplementedError": true, "AssertionError": true,
	"TypeError": true, "NoSuchMethodError": true, "ConcurrentModificationError": true,
	"OutOfMemoryError": true, "StackOverflowError": true,
	"IntegerDivisionByZeroException": true,
	// JavaScript / TypeScript
	"SyntaxError": true, "ReferenceError": true, "EvalError": true,
	"URIError": true, "AggregateError": true,
}

// infrastructure are transport and storage failures. They belong in Data and
// must be mapped to domain failures before crossing into Domain.
var infrastructure = map[string]bool{
	"ServerException": true, "NetworkException": true, "CacheException": true,
	"DatabaseException": true, "ConnectionException": true, "StorageException": true,
	"ApiException": true, "RemoteException": true, "LocalStorageException": true,
	"PlatformException": true, "FirebaseException": true, "FirebaseAuthException": true,
	"NoInternetException": true, "OfflineException": true, "DioException": true,
	"DioError": true, "SqliteException": true, "HiveError": true,
}

// typedFamilies are the layer-typed base exceptions. Any prefix is allowed.
var typedFamilies = [][]string{
	{"Domain", "Exception"},
	{"Data", "Exception"},
	{"Presentation", "Exception"},
	{"Use", "Case", "Exception"},
	{"Usecase", "Exception"},
	{"Repository", "Exception"},
	{"Data", "Source", "Exception"},
	{"Datasource", "Exception"},
}

// genericStems name failures without saying which feature failed.
var genericStems = [][]string{
	{"Not", "Found"},
	{"Validation"},
	{"Invalid", "Input"},
	{"Unauthorized"},
	{"Forbidden"},
	{"Conflict"},
	{"Already", "Exists"},
	{"Duplicate"},
	{"Permission"},
	{"Invalid", "State"},
	{"Operation", "Failed"},
}

var exceptionSuffixes = []string{"Exception", "Error"}

// Verdict is the result of checking an exception name against a layer.
type Verdict struct {
	Category  domain.ExceptionCategory
	Violation bool
	Reason    string
}

// Taxonomy categorizes exception names. It is immutable once built.
type Taxonomy struct {
	minPrefix int
}

// New creates a taxonomy. A non-positive minimum uses the default.
func New(minFeaturePrefixLength int) *Taxonomy {
	if minFeaturePrefixLength <= 0 {
		minFeaturePrefixLength = domain.DefaultMinFeaturePrefixLength
	}
	return &Taxonomy{minPrefix: minFeaturePrefixLength}
}

// Categorize places an exception class name in one of the four categories.
func (t *Taxonomy) Categorize(name string) domain.ExceptionCategory {
	name = baseName(name)
	if builtIn[name] {
		return domain.ExceptionBuiltIn
	}
	if infrastructure[name] {
		return domain.ExceptionInfrastructureScoped
	}

	words := splitWords(name)
	for _, fam := range typedFamilies {
		if hasWordSuffix(words, fam) {
			return domain.ExceptionFeatureScoped
		}
	}

	if _, stem, ok := t.genericForm(words); ok && len(stem) < t.minPrefix {
		return domain.ExceptionGenericNeedsPrefix
	}

	if stem, ok := stripSuffix(name); ok && len(stem) < t.minPrefix {
		return domain.ExceptionGenericNeedsPrefix
	}
	return domain.ExceptionFeatureScoped
}

// Enforce checks a name in the context of the layer that uses it.
// Built-ins pass everywhere, infrastructure exceptions fail only in Domain,
// and generic names fail in every known layer.
func (t *Taxonomy) Enforce(name string, layer domain.Layer) Verdict {
	cat := t.Categorize(name)
	v := Verdict{Category: cat}
	switch cat {
	case domain.ExceptionInfrastructureScoped:
		if layer == domain.LayerDomain {
			v.Violation = true
			v.Reason = fmt.Sprintf("%s is an infrastructure exception and must not appear in Domain", baseName(name))
		}
	case domain.ExceptionGenericNeedsPrefix:
		if layer.Known() {
			v.Violation = true
			v.Reason = fmt.Sprintf("%s is too generic to tell which feature failed", baseName(name))
		}
	}
	return v
}

// genericForm matches words against a generic stem followed by an exception
// suffix, returning the matched suffix text and the remaining feature stem.
func (t *Taxonomy) genericForm(words []string) (generic, stem string, ok bool) {
	if len(words) == 0 || !isExceptionSuffix(words[len(words)-1]) {
		return "", "", false
	}
	body := words[:len(words)-1]
	for _, g := range genericStems {
		if hasWordSuffix(body, g) {
			n := len(body) - len(g)
			return strings.Join(words[n:], ""), strings.Join(body[:n], ""), true
		}
	}
	return "", "", false
}

// splitWords splits a CamelCase identifier into its words.
func splitWords(name string) []string {
	return camelcase.Split(name)
}

func hasWordSuffix(words, suffix []string) bool {
	if len(words) < len(suffix) {
		return false
	}
	off := len(words) - len(suffix)
	for i, s := range suffix {
		if words[off+i] != s {
			return false
		}
	}
	return true
}

func isExceptionSuffix(w string) bool {
	for _, s := range exceptionSuffixes {
		if w == s {
			return true
		}
	}
	return false
}

func stripSuffix(name string) (string, bool) {
	for _, s := range exceptionSuffixes {
		if strings.HasSuffix(name, s) {
			return strings.TrimSuffix(name, s), true
		}
	}
	return "", false
}

func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
