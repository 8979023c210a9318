// Package roles infers the architectural role of a class-like declaration
// from its name, its structure and the layer of the file declaring it.
package roles

import (
	"strings"

	"github.com/fatih/camelcase"

	"github.com/layerlint/layerlint/internal/domain"
)

// Family groups the interface and implementation roles of one concept.
type Family int

const (
	FamilyNone Family = iota
	FamilyRepository
	FamilyUseCase
	FamilyDataSource
)

func (f Family) String() string {
	switch f {
	case FamilyRepository:
		return "repository"
	case FamilyUseCase:
		return "use case"
	case FamilyDataSource:
		return "data source"
	}
	return "none"
}

// Interface returns the abstract role of the family.
func (f Family) Interface() domain.Role {
	switch f {
	case FamilyRepository:
		return domain.RoleRepositoryInterface
	case FamilyUseCase:
		return domain.RoleUseCaseInterface
	case FamilyDataSource:
		return domain.RoleDataSourceInterface
	}
	return domain.RoleUnclassified
}

// Implementation returns the concrete role of the family.
func (f Family) Implementation() domain.Role {
	switch f {
	case FamilyRepository:
		return domain.RoleRepositoryImplementation
	case FamilyUseCase:
		return domain.RoleUseCaseImplementation
	case FamilyDataSource:
		return domain.RoleDataSourceImplementation
	}
	return domain.RoleUnclassified
}

var familySuffixes = []struct {
	family Family
	words  []string
}{
	{FamilyRepository, []string{"Repository"}},
	{FamilyUseCase, []string{"Use", "Case"}},
	{FamilyUseCase, []string{"Usecase"}},
	{FamilyDataSource, []string{"Data", "Source"}},
	{FamilyDataSource, []string{"Datasource"}},
}

var implSuffixes = map[string]bool{"Impl": true, "Implementation": true}

var stateSuffixes = [][]string{
	{"State"}, {"Bloc"}, {"Cubit"}, {"Notifier"}, {"View", "Model"}, {"Viewmodel"},
	{"Store"}, {"Controller"},
}

var stateBases = map[string]bool{
	"Bloc": true, "Cubit": true, "ChangeNotifier": true, "StateNotifier": true,
	"ValueNotifier": true, "AsyncNotifier": true, "Notifier": true,
}

// Classification is the outcome of classifying one declaration. Role is the
// accepted role; Candidate is what name and structure suggest before the
// layer check. When the two disagree the declaration is Misplaced.
type Classification struct {
	Role          domain.Role  `json:"role"`
	Candidate     domain.Role  `json:"candidate"`
	Family        Family       `json:"-"`
	ExpectedLayer domain.Layer `json:"expected_layer,omitempty"`
	Misplaced     bool         `json:"misplaced,omitempty"`
	// Ambiguous is set when name and structure disagreed and structure won.
	Ambiguous bool `json:"ambiguous,omitempty"`
	// PendingInterfaceCheck marks an implementation that implements no
	// interface of its family.
	PendingInterfaceCheck bool `json:"pending_interface_check,omitempty"`
}

// Accepted returns the role if it survived the layer check.
func (c Classification) Accepted() (domain.Role, bool) {
	if c.Role == domain.RoleUnclassified || c.Role == "" {
		return domain.RoleUnclassified, false
	}
	return c.Role, true
}

// Classifier is stateless and safe for concurrent use.
type Classifier struct{}

// New creates a role classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify infers the role of decl declared in a file with the given path
// classification. Non class-like declarations are unclassified.
func (c *Classifier) Classify(decl *domain.Declaration, pc domain.PathClass) Classification {
	cand := c.candidate(decl, pc)
	if cand.Candidate == domain.RoleUnclassified {
		cand.Role = domain.RoleUnclassified
		return cand
	}

	cand.ExpectedLayer = ExpectedLayer(cand.Candidate)
	if cand.ExpectedLayer != "" && pc.Layer.Known() && pc.Layer != cand.ExpectedLayer {
		cand.Role = domain.RoleUnclassified
		cand.Misplaced = true
		return cand
	}
	cand.Role = cand.Candidate
	return cand
}

func (c *Classifier) candidate(decl *domain.Declaration, pc domain.PathClass) Classification {
	out := Classification{Candidate: domain.RoleUnclassified}
	if decl == nil || !decl.IsClassLike() || decl.Name == "" {
		return out
	}

	words := camelcase.Split(baseName(decl.Name))
	if IsExceptionName(decl.Name) || anySupertype(decl, IsExceptionName) {
		out.Candidate = domain.RoleExceptionClass
		return out
	}

	abstract := IsAbstractShape(decl)
	nameFam, nameImpl := familyOf(words)
	superFam := FamilyNone
	for _, s := range decl.Supertypes() {
		if f, _ := familyOf(camelcase.Split(baseName(s))); f != FamilyNone {
			superFam = f
			break
		}
	}

	switch {
	case nameFam != FamilyNone:
		out.Family = nameFam
		if abstract {
			out.Candidate = nameFam.Interface()
			out.Ambiguous = nameImpl
			return out
		}
		out.Candidate = nameFam.Implementation()
		if superFam != nameFam && nameFam != FamilyUseCase {
			out.PendingInterfaceCheck = true
			out.Ambiguous = !nameImpl
		}
		return out
	case superFam != FamilyNone:
		out.Family = superFam
		if abstract {
			out.Candidate = superFam.Interface()
		} else {
			out.Candidate = superFam.Implementation()
		}
		return out
	}

	if isStateHolder(words, decl) || (pc.Hint == domain.HintState && pc.Layer == domain.LayerPresentation) {
		out.Candidate = domain.RoleStateHolder
		return out
	}

	if decl.Kind != domain.DeclInterface && (hasWordSuffix(words, []string{"Entity"}) || pc.Hint == domain.HintEntity) {
		out.Candidate = domain.RoleEntity
	}
	return out
}

// ExpectedLayer returns the layer a role belongs in, or "" when the role is
// layer-agnostic.
func ExpectedLayer(r domain.Role) domain.Layer {
	switch r {
	case domain.RoleEntity, domain.RoleUseCaseInterface, domain.RoleUseCaseImplementation,
		domain.RoleRepositoryInterface:
		return domain.LayerDomain
	case domain.RoleRepositoryImplementation, domain.RoleDataSourceInterface,
		domain.RoleDataSourceImplementation:
		return domain.LayerData
	case domain.RoleStateHolder:
		return domain.LayerPresentation
	}
	return ""
}

// IsAbstractShape reports whether a declaration is abstract by declaration,
// is an interface, or has only abstract members and accessors.
func IsAbstractShape(decl *domain.Declaration) bool {
	if decl.Abstract || decl.Kind == domain.DeclInterface {
		return true
	}
	n := 0
	for _, m := range decl.Members {
		if m.Kind == domain.MemberConstructor || m.Static {
			continue
		}
		if !m.Abstract && !m.IsAccessor() {
			return false
		}
		n++
	}
	return n > 0
}

// IsExceptionName reports whether the last word of name is Exception or Error.
func IsExceptionName(name string) bool {
	words := camelcase.Split(baseName(name))
	if len(words) == 0 {
		return false
	}
	last := words[len(words)-1]
	return last == "Exception" || last == "Error"
}

// IsStateValueName reports whether name denotes a state value type such as
// TodoState, as opposed to the holder that emits it.
func IsStateValueName(name string) bool {
	return hasWordSuffix(camelcase.Split(baseName(name)), []string{"State"})
}

// FamilyOf returns the role family named by a type name, if any.
func FamilyOf(name string) Family {
	f, _ := familyOf(camelcase.Split(baseName(name)))
	return f
}

func familyOf(words []string) (Family, bool) {
	impl := false
	if len(words) > 0 && implSuffixes[words[len(words)-1]] {
		impl = true
		words = words[:len(words)-1]
	}
	for _, fs := range familySuffixes {
		if hasWordSuffix(words, fs.words) {
			return fs.family, impl
		}
	}
	return FamilyNone, false
}

func isStateHolder(words []string, decl *domain.Declaration) bool {
	for _, s := range stateSuffixes {
		if hasWordSuffix(words, s) {
			return true
		}
	}
	return anySupertype(decl, func(s string) bool { return stateBases[baseName(s)] })
}

func anySupertype(decl *domain.Declaration, pred func(string) bool) bool {
	for _, s := range decl.Supertypes() {
		if pred(s) {
			return true
		}
	}
	return false
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

// baseName strips generic arguments and a package qualifier.
func baseName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}
