package tracing

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsCredentials(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/kpis"),
		attribute.String("authorization", "Bearer abc"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorKeepsPrefixOnly(t *testing.T) {
	err := SafeError(errors.New("data unavailable: select * from workforce_composition_facts"))
	assert.EqualError(t, err, "data unavailable")
	assert.Nil(t, SafeError(nil))
}

func TestWrapHTTPClientDoesNotMutateInput(t *testing.T) {
	client := &http.Client{}
	wrapped := WrapHTTPClient(client)
	assert.Nil(t, client.Transport)
	assert.NotNil(t, wrapped.Transport)
}
