package exceptions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/layerlint/layerlint/internal/domain/exceptions"
)

func TestSuggestPrefixedName(t *testing.T) {
	tax := exceptions.New(0)

	tests := []struct {
		name, file, want string
	}{
		{"NotFoundException", "/lib/features/todos/domain/x.dart", "TodoNotFoundException"},
		{"NotFoundException", "lib/features/categories/data/repo.dart", "CategoryNotFoundException"},
		{"ValidationException", "lib/features/user_profiles/domain/usecases/save.dart", "UserProfileValidationException"},
		{"ConflictException", "lib/features/order-items/presentation/page.dart", "OrderItemConflictException"},
		{"NotFoundException", "lib/address/domain/failures.dart", "AddressNotFoundException"},
		{"NotFoundException", "src/payments/data/api.ts", "PaymentNotFoundException"},
		{"NotFoundException", "lib/core/shared/domain/x.dart", "FeatureNotFoundException"},
		{"NotFoundException", "main.dart", "FeatureNotFoundException"},
		{"XNotFoundException", "lib/features/todos/domain/x.dart", "TodoNotFoundException"},
		{"NotFoundException", `lib\features\todos\domain\x.dart`, "TodoNotFoundException"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tax.SuggestPrefixedName(tt.name, tt.file), "%s in %s", tt.name, tt.file)
	}
}

func TestSuggestPrefixedName_Deterministic(t *testing.T) {
	tax := exceptions.New(0)
	first := tax.SuggestPrefixedName("DuplicateException", "lib/features/notes/data/x.dart")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, tax.SuggestPrefixedName("DuplicateException", "lib/features/notes/data/x.dart"))
	}
}

func TestFeaturePrefix_NearestFeatureWins(t *testing.T) {
	assert.Equal(t, "Comment", exceptions.FeaturePrefix("lib/features/posts/features/comments/domain/x.dart"))
}
