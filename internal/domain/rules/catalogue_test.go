package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/rules"
)

func typ(expr string) *domain.TypeRef {
	ref := domain.ParseTypeRef(expr)
	return &ref
}

func analyze(t *testing.T, unit *domain.CompilationUnit) []domain.Diagnostic {
	t.Helper()
	e := rules.NewEngine(testConfig(), rules.Default(), nil)
	fr := e.Analyze(unit)
	require.Empty(t, fr.Failures)
	return fr.Diagnostics
}

func byRule(diags []domain.Diagnostic, id string) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, d := range diags {
		if d.RuleID == id {
			out = append(out, d)
		}
	}
	return out
}

func TestRepositoryLocation(t *testing.T) {
	diags := analyze(t, &domain.CompilationUnit{
		Path: "lib/presentation/todo_repository.dart",
		Declarations: []domain.Declaration{{
			Name: "TodoRepository", Kind: domain.DeclClass, Abstract: true, Span: span(1),
			Members: []domain.Member{{Name: "getTodos", Kind: domain.MemberMethod, Abstract: true, Type: typ("Future<Either<Failure, List<Todo>>>")}},
		}},
	})

	got := byRule(diags, rules.RepositoryLocation)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Problem, "repository interface")
	assert.Contains(t, got[0].Problem, "Presentation")
	assert.Equal(t, "move TodoRepository into the Domain layer", got[0].Correction)
	assert.Empty(t, byRule(diags, rules.RepositoryOutcomeReturn), "misplaced classes get no role-specific checks")
}

func TestLocationRules(t *testing.T) {
	tests := []struct {
		path string
		decl domain.Declaration
		rule string
	}{
		{"lib/domain/todo_remote_data_source.dart",
			domain.Declaration{Name: "TodoRemoteDataSource", Kind: domain.DeclInterface}, rules.DataSourceLocation},
		{"lib/data/get_todos.dart",
			domain.Declaration{Name: "GetTodosUseCase", Kind: domain.DeclClass}, rules.UseCaseLocation},
		{"lib/data/models/todo_entity.dart",
			domain.Declaration{Name: "TodoEntity", Kind: domain.DeclClass}, rules.EntityLocation},
		{"lib/domain/todo_bloc.dart",
			domain.Declaration{Name: "TodoBloc", Kind: domain.DeclClass}, rules.StateHolderLocation},
	}
	for _, tt := range tests {
		tt.decl.Span = span(1)
		diags := analyze(t, &domain.CompilationUnit{Path: tt.path, Declarations: []domain.Declaration{tt.decl}})
		assert.Len(t, byRule(diags, tt.rule), 1, "%s in %s", tt.decl.Name, tt.path)
	}
}

func TestMissingInterfaceImplementation(t *testing.T) {
	concrete := []domain.Member{{Name: "getTodos", Kind: domain.MemberMethod, Type: typ("Future<Either<Failure, List<Todo>>>")}}

	diags := analyze(t, &domain.CompilationUnit{
		Path:         "lib/data/repositories/todo_repository_impl.dart",
		Declarations: []domain.Declaration{{Name: "TodoRepositoryImpl", Kind: domain.DeclClass, Members: concrete, Span: span(1)}},
	})
	got := byRule(diags, rules.MissingInterfaceImplementation)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Correction, "abstract repository in Domain")

	diags = analyze(t, &domain.CompilationUnit{
		Path: "lib/data/repositories/todo_repository_impl.dart",
		Declarations: []domain.Declaration{{Name: "TodoRepositoryImpl", Kind: domain.DeclClass,
			Implements: []string{"TodoRepository"}, Members: concrete, Span: span(1)}},
	})
	assert.Empty(t, byRule(diags, rules.MissingInterfaceImplementation))
}

func TestRepositoryOutcomeReturn(t *testing.T) {
	unit := &domain.CompilationUnit{
		Path: "lib/features/todos/domain/repositories/todo_repository.dart",
		Aliases: domain.NewTypeAliasTable(domain.TypeAlias{
			Name: "ResultFuture", Params: []string{"T"}, Target: domain.ParseTypeRef("Future<Either<Failure, T>>"),
		}),
		Declarations: []domain.Declaration{{
			Name: "TodoRepository", Kind: domain.DeclClass, Abstract: true, Span: span(3),
			Members: []domain.Member{
				{Name: "getTodos", Kind: domain.MemberMethod, Abstract: true, Type: typ("Future<Either<Failure, List<Todo>>>"), Span: span(4)},
				{Name: "getTodo", Kind: domain.MemberMethod, Abstract: true, Type: typ("ResultFuture<Todo>"), Span: span(5)},
				{Name: "deleteTodo", Kind: domain.MemberMethod, Abstract: true, Type: typ("Future<void>"), Span: span(6)},
				{Name: "watch", Kind: domain.MemberMethod, Abstract: true, Span: span(7)},
			},
		}},
	}

	got := byRule(analyze(t, unit), rules.RepositoryOutcomeReturn)
	require.Len(t, got, 1)
	assert.Equal(t, 6, got[0].Location.Span.StartLine)
	assert.Contains(t, got[0].Problem, "TodoRepository.deleteTodo returns Future<void>")
}

func TestUseCaseOutcomeReturn(t *testing.T) {
	unit := &domain.CompilationUnit{
		Path: "lib/domain/usecases/get_todos.dart",
		Declarations: []domain.Declaration{{
			Name: "GetTodosUseCase", Kind: domain.DeclClass, Span: span(1),
			Members: []domain.Member{
				{Name: "call", Kind: domain.MemberMethod, Type: typ("Future<List<Todo>>"), Span: span(2)},
				{Name: "helper", Kind: domain.MemberMethod, Type: typ("int"), Span: span(3)},
			},
		}},
	}

	got := byRule(analyze(t, unit), rules.UseCaseOutcomeReturn)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Location.Span.StartLine)
}

func TestDataSourceNoOutcome(t *testing.T) {
	unit := &domain.CompilationUnit{
		Path: "lib/data/datasources/todo_remote_data_source.dart",
		Declarations: []domain.Declaration{{
			Name: "TodoRemoteDataSource", Kind: domain.DeclInterface, Span: span(1),
			Members: []domain.Member{
				{Name: "fetch", Kind: domain.MemberMethod, Abstract: true, Type: typ("Future<Either<Failure, List<TodoModel>>>"), Span: span(2)},
				{Name: "fetchOne", Kind: domain.MemberMethod, Abstract: true, Type: typ("Future<TodoModel>"), Span: span(3)},
			},
		}},
	}

	got := byRule(analyze(t, unit), rules.DataSourceNoOutcome)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SeverityInfo, got[0].Severity)
	assert.Equal(t, 2, got[0].Location.Span.StartLine)
}

func TestExceptionNamingAndUsage(t *testing.T) {
	unit := &domain.CompilationUnit{
		Path: "lib/features/todos/domain/failures.dart",
		Declarations: []domain.Declaration{
			{Name: "NotFoundException", Kind: domain.DeclClass, Span: span(1)},
			{Name: "TodoValidationException", Kind: domain.DeclClass, Span: span(2)},
		},
		Throws: []domain.ThrowSite{
			{TypeName: "ServerException", Enclosing: "GetTodos.call", Span: span(10)},
			{TypeName: "FormatException", Span: span(11)},
		},
	}
	diags := analyze(t, unit)

	naming := byRule(diags, rules.ExceptionNaming)
	require.Len(t, naming, 1)
	assert.Equal(t, "rename it to TodoNotFoundException", naming[0].Correction)

	usage := byRule(diags, rules.ExceptionUsage)
	require.Len(t, usage, 1)
	assert.Contains(t, usage[0].Problem, "GetTodos.call")
	assert.Contains(t, usage[0].Correction, "map it to a Domain failure")
}

func TestExceptionUsage_InfrastructureAllowedInData(t *testing.T) {
	diags := analyze(t, &domain.CompilationUnit{
		Path:   "lib/data/datasources/todo_remote.dart",
		Throws: []domain.ThrowSite{{TypeName: "ServerException", Span: span(1)}},
	})
	assert.Empty(t, byRule(diags, rules.ExceptionUsage))
}

func TestEntityImmutability(t *testing.T) {
	diags := analyze(t, &domain.CompilationUnit{
		Path: "lib/domain/entities/todo.dart",
		Declarations: []domain.Declaration{{
			Name: "Todo", Kind: domain.DeclClass, Span: span(1),
			Members: []domain.Member{
				{Name: "id", Kind: domain.MemberField, Span: span(2)},
				{Name: "title", Kind: domain.MemberField, Mutable: true, Span: span(3)},
				{Name: "count", Kind: domain.MemberField, Mutable: true, Static: true, Span: span(4)},
				{Name: "done", Kind: domain.MemberSetter, Span: span(5)},
			},
		}},
	})

	got := byRule(diags, rules.EntityImmutability)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Location.Span.StartLine)
	assert.Equal(t, 5, got[1].Location.Span.StartLine)
}

func TestStateImmutability(t *testing.T) {
	mutable := []domain.Member{{Name: "items", Kind: domain.MemberField, Mutable: true, Span: span(2)}}
	diags := analyze(t, &domain.CompilationUnit{
		Path: "lib/presentation/bloc/todo_state.dart",
		Declarations: []domain.Declaration{
			{Name: "TodoState", Kind: domain.DeclClass, Members: mutable, Span: span(1)},
			{Name: "TodoBloc", Kind: domain.DeclClass, Members: mutable, Span: span(5)},
		},
	})

	got := byRule(diags, rules.StateImmutability)
	require.Len(t, got, 1, "only state value types are checked, not their holders")
	assert.Contains(t, got[0].Problem, "TodoState")
}
