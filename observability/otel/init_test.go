package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeaders(t *testing.T) {
	headers := ParseHeaders(" api-key = secret ,broken, =x,tenant=care ")
	require.Equal(t, map[string]string{"api-key": "secret", "tenant": "care"}, headers)
}

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "carehoursd", Traces: true})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = Init(context.Background(), Config{})
	require.Error(t, err)
}

func TestCollectorHostStripsScheme(t *testing.T) {
	require.Equal(t, "collector:4318", collectorHost(" https://collector:4318/ "))
	require.Equal(t, "localhost:4318", collectorHost("http://localhost:4318"))
	require.Empty(t, collectorHost("   "))
}
