package rules

import (
	"fmt"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/roles"
)

// Stable rule ids.
const (
	LayerDependency                = "layer_dependency"
	RepositoryLocation             = "repository_location"
	DataSourceLocation             = "datasource_location"
	UseCaseLocation                = "usecase_location"
	EntityLocation                 = "entity_location"
	StateHolderLocation            = "state_holder_location"
	MissingInterfaceImplementation = "missing_interface_implementation"
	RepositoryOutcomeReturn        = "repository_outcome_return"
	UseCaseOutcomeReturn           = "usecase_outcome_return"
	DataSourceNoOutcome            = "datasource_no_outcome"
	ExceptionNaming                = "exception_naming"
	ExceptionUsage                 = "exception_usage"
	EntityImmutability             = "entity_immutability"
	StateImmutability              = "state_immutability"
)

// Default returns the full rule catalogue in evaluation order.
func Default() []Rule {
	return []Rule{
		{
			ID:              LayerDependency,
			Summary:         "imports follow the allowed layer directions",
			DefaultSeverity: domain.SeverityError,
			OnImport:        checkLayerDependency,
		},
		locationRule(RepositoryLocation, "repository interfaces live in Domain, implementations in Data",
			domain.SeverityError, domain.RoleRepositoryInterface, domain.RoleRepositoryImplementation),
		locationRule(DataSourceLocation, "data sources live in Data",
			domain.SeverityError, domain.RoleDataSourceInterface, domain.RoleDataSourceImplementation),
		locationRule(UseCaseLocation, "use cases live in Domain",
			domain.SeverityError, domain.RoleUseCaseInterface, domain.RoleUseCaseImplementation),
		locationRule(EntityLocation, "entities live in Domain",
			domain.SeverityWarning, domain.RoleEntity),
		locationRule(StateHolderLocation, "state holders live in Presentation",
			domain.SeverityWarning, domain.RoleStateHolder),
		{
			ID:              MissingInterfaceImplementation,
			Summary:         "repository and data source implementations implement an interface",
			DefaultSeverity: domain.SeverityWarning,
			OnClass:         checkMissingInterface,
		},
		{
			ID:              RepositoryOutcomeReturn,
			Summary:         "repository interface methods return an outcome type",
			DefaultSeverity: domain.SeverityWarning,
			OnClass:         checkRepositoryOutcome,
		},
		{
			ID:              UseCaseOutcomeReturn,
			Summary:         "use case entry methods return an outcome type",
			DefaultSeverity: domain.SeverityWarning,
			OnClass:         checkUseCaseOutcome,
		},
		{
			ID:              DataSourceNoOutcome,
			Summary:         "data sources return plain values and throw",
			DefaultSeverity: domain.SeverityInfo,
			OnClass:         checkDataSourceNoOutcome,
		},
		{
			ID:              ExceptionNaming,
			Summary:         "exception classes are named for their feature and layer",
			DefaultSeverity: domain.SeverityWarning,
			OnClass:         checkExceptionNaming,
		},
		{
			ID:              ExceptionUsage,
			Summary:         "thrown exceptions are acceptable in the throwing layer",
			DefaultSeverity: domain.SeverityWarning,
			OnThrow:         checkExceptionUsage,
		},
		{
			ID:              EntityImmutability,
			Summary:         "entity fields are immutable",
			DefaultSeverity: domain.SeverityWarning,
			OnClass:         checkEntityImmutability,
		},
		{
			ID:              StateImmutability,
			Summary:         "state value types are immutable",
			DefaultSeverity: domain.SeverityWarning,
			OnClass:         checkStateImmutability,
		},
	}
}

func checkLayerDependency(ctx *Context, imp *domain.Import) {
	if imp == nil || imp.Path == "" {
		return
	}
	if v := ctx.Direction().CheckImport(ctx.Class, imp.Path); v != nil {
		ctx.Report(imp.Span, v.Message, v.Correction)
	}
}

func locationRule(id, summary string, sev domain.Severity, match ...domain.Role) Rule {
	return Rule{
		ID:              id,
		Summary:         summary,
		DefaultSeverity: sev,
		OnClass: func(ctx *Context, decl *domain.Declaration) {
			cls := ctx.Classify(decl)
			if !cls.Misplaced || !hasRole(match, cls.Candidate) {
				return
			}
			ctx.Reportf(decl.Span,
				fmt.Sprintf("move %s into the %s layer", decl.Name, cls.ExpectedLayer.Title()),
				"%s is a %s but is declared in the %s layer",
				decl.Name, cls.Candidate.Title(), ctx.Layer().Title())
		},
	}
}

func checkMissingInterface(ctx *Context, decl *domain.Declaration) {
	cls := ctx.Classify(decl)
	if !cls.PendingInterfaceCheck {
		return
	}
	role, ok := cls.Accepted()
	if !ok || (role != domain.RoleRepositoryImplementation && role != domain.RoleDataSourceImplementation) {
		return
	}
	where := "Domain"
	if cls.Family == roles.FamilyDataSource {
		where = "Data"
	}
	ctx.Reportf(decl.Span,
		fmt.Sprintf("declare an abstract %s in %s and implement it here", cls.Family, where),
		"%s is a concrete %s that implements no %s interface", decl.Name, cls.Family, cls.Family)
}

func checkRepositoryOutcome(ctx *Context, decl *domain.Declaration) {
	if role, ok := ctx.Classify(decl).Accepted(); !ok || role != domain.RoleRepositoryInterface {
		return
	}
	for _, m := range methods(decl) {
		if !ctx.IsOutcome(*m.Type) {
			ctx.Reportf(m.Span,
				"return an outcome type such as Either<Failure, T> so callers handle failure explicitly",
				"%s.%s returns %s, which is not an outcome type", decl.Name, m.Name, m.Type)
		}
	}
}

var useCaseEntryPoints = map[string]bool{"call": true, "execute": true, "invoke": true, "run": true}

func checkUseCaseOutcome(ctx *Context, decl *domain.Declaration) {
	role, ok := ctx.Classify(decl).Accepted()
	if !ok || (role != domain.RoleUseCaseInterface && role != domain.RoleUseCaseImplementation) {
		return
	}
	for _, m := range methods(decl) {
		if !useCaseEntryPoints[m.Name] {
			continue
		}
		if !ctx.IsOutcome(*m.Type) {
			ctx.Reportf(m.Span,
				"return the repository's outcome type so Presentation can render failures",
				"use case %s.%s returns %s, which is not an outcome type", decl.Name, m.Name, m.Type)
		}
	}
}

func checkDataSourceNoOutcome(ctx *Context, decl *domain.Declaration) {
	role, ok := ctx.Classify(decl).Accepted()
	if !ok || (role != domain.RoleDataSourceInterface && role != domain.RoleDataSourceImplementation) {
		return
	}
	for _, m := range methods(decl) {
		if ctx.IsOutcome(*m.Type) {
			ctx.Reportf(m.Span,
				"return the plain value and throw; the repository maps exceptions to outcomes",
				"data source %s.%s returns outcome type %s", decl.Name, m.Name, m.Type)
		}
	}
}

func checkExceptionNaming(ctx *Context, decl *domain.Declaration) {
	if role, ok := ctx.Classify(decl).Accepted(); !ok || role != domain.RoleExceptionClass {
		return
	}
	v := ctx.Exceptions().Enforce(decl.Name, ctx.Layer())
	if !v.Violation {
		return
	}
	ctx.Report(decl.Span, v.Reason, exceptionCorrection(ctx, decl.Name, v.Category))
}

func checkExceptionUsage(ctx *Context, site *domain.ThrowSite) {
	if site == nil || site.TypeName == "" {
		return
	}
	v := ctx.Exceptions().Enforce(site.TypeName, ctx.Layer())
	if !v.Violation {
		return
	}
	problem := v.Reason
	if site.Enclosing != "" {
		problem = fmt.Sprintf("in %s: %s", site.Enclosing, v.Reason)
	}
	ctx.Report(site.Span, problem, exceptionCorrection(ctx, site.TypeName, v.Category))
}

func exceptionCorrection(ctx *Context, name string, cat domain.ExceptionCategory) string {
	if cat == domain.ExceptionInfrastructureScoped {
		return "catch it in Data and map it to a Domain failure"
	}
	return fmt.Sprintf("rename it to %s", ctx.Exceptions().SuggestPrefixedName(name, ctx.Class.Path))
}

func checkEntityImmutability(ctx *Context, decl *domain.Declaration) {
	if role, ok := ctx.Classify(decl).Accepted(); !ok || role != domain.RoleEntity {
		return
	}
	reportMutable(ctx, decl, "entity")
}

func checkStateImmutability(ctx *Context, decl *domain.Declaration) {
	if role, ok := ctx.Classify(decl).Accepted(); !ok || role != domain.RoleStateHolder {
		return
	}
	if !roles.IsStateValueName(decl.Name) {
		return
	}
	reportMutable(ctx, decl, "state")
}

func reportMutable(ctx *Context, decl *domain.Declaration, what string) {
	for _, m := range decl.Members {
		if m.Static {
			continue
		}
		switch {
		case m.Kind == domain.MemberField && m.Mutable:
			ctx.Reportf(m.Span,
				"make the field final/readonly and return modified copies",
				"field %s of %s %s is mutable", m.Name, what, decl.Name)
		case m.Kind == domain.MemberSetter:
			ctx.Reportf(m.Span,
				"remove the setter and return modified copies",
				"%s %s exposes setter %s", what, decl.Name, m.Name)
		}
	}
}

// methods returns the non-static, non-constructor methods with a declared
// return type. Members without a type are skipped.
func methods(decl *domain.Declaration) []domain.Member {
	var out []domain.Member
	for _, m := range decl.Members {
		if m.Kind != domain.MemberMethod || m.Static || m.Private || m.Type == nil {
			continue
		}
		if len(m.Name) > 0 && (m.Name[0] == '_' || m.Name[0] == '#') {
			continue
		}
		out = append(out, m)
	}
	return out
}

func hasRole(set []domain.Role, r domain.Role) bool {
	for _, s := range set {
		if s == r {
			return true
		}
	}
	return false
}
