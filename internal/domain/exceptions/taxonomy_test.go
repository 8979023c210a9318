package exceptions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/layerlint/layerlint/internal/domain"
	"github.com/layerlint/layerlint/internal/domain/exceptions"
)

func TestCategorize(t *testing.T) {
	tax := exceptions.New(0)

	tests := []struct {
		name string
		want domain.ExceptionCategory
	}{
		{"Exception", domain.ExceptionBuiltIn},
		{"FormatException", domain.ExceptionBuiltIn},
		{"TimeoutException", domain.ExceptionBuiltIn},
		{"TypeError", domain.ExceptionBuiltIn},
		{"ServerException", domain.ExceptionInfrastructureScoped},
		{"CacheException", domain.ExceptionInfrastructureScoped},
		{"NetworkException", domain.ExceptionInfrastructureScoped},
		{"DomainException", domain.ExceptionFeatureScoped},
		{"TodoDomainException", domain.ExceptionFeatureScoped},
		{"RepositoryException", domain.ExceptionFeatureScoped},
		{"DataSourceException", domain.ExceptionFeatureScoped},
		{"NotFoundException", domain.ExceptionGenericNeedsPrefix},
		{"ValidationException", domain.ExceptionGenericNeedsPrefix},
		{"InvalidStateError", domain.ExceptionGenericNeedsPrefix},
		{"XNotFoundException", domain.ExceptionGenericNeedsPrefix},
		{"AbException", domain.ExceptionGenericNeedsPrefix},
		{"TodoNotFoundException", domain.ExceptionFeatureScoped},
		{"PaymentDeclinedException", domain.ExceptionFeatureScoped},
		{"core.TodoNotFoundException", domain.ExceptionFeatureScoped},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tax.Categorize(tt.name), tt.name)
	}
}

func TestCategorize_WordBoundaries(t *testing.T) {
	tax := exceptions.New(0)

	// "Metadata" is one word, so this is not the Data typed family. It is
	// still a feature-scoped name because its stem is long enough.
	assert.Equal(t, domain.ExceptionFeatureScoped, tax.Categorize("MetadataException"))
	// "Unfound" is not the generic "Not Found" form.
	assert.Equal(t, domain.ExceptionFeatureScoped, tax.Categorize("UnfoundException"))
}

func TestCategorize_MinPrefixLength(t *testing.T) {
	tax := exceptions.New(5)
	assert.Equal(t, domain.ExceptionGenericNeedsPrefix, tax.Categorize("TodoNotFoundException"))
	assert.Equal(t, domain.ExceptionFeatureScoped, tax.Categorize("OrderNotFoundException"))
}

func TestEnforce_LayerAware(t *testing.T) {
	tax := exceptions.New(0)

	for _, layer := range domain.AllLayers {
		v := tax.Enforce("FormatException", layer)
		assert.False(t, v.Violation, "built-in in %s", layer)
	}

	v := tax.Enforce("ServerException", domain.LayerDomain)
	assert.True(t, v.Violation)
	assert.Contains(t, v.Reason, "Domain")
	assert.False(t, tax.Enforce("ServerException", domain.LayerData).Violation)
	assert.False(t, tax.Enforce("ServerException", domain.LayerPresentation).Violation)

	for _, layer := range []domain.Layer{domain.LayerDomain, domain.LayerData, domain.LayerPresentation, domain.LayerInfrastructure} {
		v := tax.Enforce("NotFoundException", layer)
		assert.True(t, v.Violation, "generic in %s", layer)
		assert.Equal(t, domain.ExceptionGenericNeedsPrefix, v.Category)
	}
	assert.False(t, tax.Enforce("NotFoundException", domain.LayerUnknown).Violation)

	assert.False(t, tax.Enforce("TodoNotFoundException", domain.LayerDomain).Violation)
}
