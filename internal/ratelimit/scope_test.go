package ratelimit_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/longmh299/mcbrother-sub000/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

var errMultipartNotSupported = errors.New("multipart not supported in mock")

// mockHumaContext implements huma.Context for testing scope resolution.
type mockHumaContext struct {
	method    string
	operation *huma.Operation
}

func (m *mockHumaContext) Operation() *huma.Operation {
	return m.operation
}
func (m *mockHumaContext) Context() context.Context          { return context.Background() }
func (m *mockHumaContext) TLS() *tls.ConnectionState         { return nil }
func (m *mockHumaContext) Version() huma.ProtoVersion        { return huma.ProtoVersion{} }
func (m *mockHumaContext) Method() string                    { return m.method }
func (m *mockHumaContext) Host() string                      { return "" }
func (m *mockHumaContext) RemoteAddr() string                { return "" }
func (m *mockHumaContext) URL() url.URL                      { return url.URL{} }
func (m *mockHumaContext) Param(_ string) string             { return "" }
func (m *mockHumaContext) Query(_ string) string             { return "" }
func (m *mockHumaContext) Header(_ string) string            { return "" }
func (m *mockHumaContext) EachHeader(_ func(string, string)) {}
func (m *mockHumaContext) BodyReader() io.Reader             { return nil }
func (m *mockHumaContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *mockHumaContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *mockHumaContext) SetStatus(_ int)                   {}
func (m *mockHumaContext) Status() int                       { return 0 }
func (m *mockHumaContext) AppendHeader(_, _ string)          {}
func (m *mockHumaContext) SetHeader(_, _ string)             {}
func (m *mockHumaContext) BodyWriter() io.Writer             { return nil }

func TestMethodScopeResolver_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		expectedScopes []ratelimit.Scope
	}{
		{
			name:           "GET is public traffic",
			method:         "GET",
			expectedScopes: []ratelimit.Scope{ratelimit.ScopePublic},
		},
		{
			name:           "HEAD is public traffic",
			method:         "HEAD",
			expectedScopes: []ratelimit.Scope{ratelimit.ScopePublic},
		},
		{
			name:           "OPTIONS is public traffic",
			method:         "OPTIONS",
			expectedScopes: []ratelimit.Scope{ratelimit.ScopePublic},
		},
		{
			name:           "POST is admin traffic",
			method:         "POST",
			expectedScopes: []ratelimit.Scope{ratelimit.ScopeAdmin},
		},
		{
			name:           "PUT is admin traffic",
			method:         "PUT",
			expectedScopes: []ratelimit.Scope{ratelimit.ScopeAdmin},
		},
		{
			name:           "DELETE is admin traffic",
			method:         "DELETE",
			expectedScopes: []ratelimit.Scope{ratelimit.ScopeAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := ratelimit.NewMethodScopeResolver()
			ctx := &mockHumaContext{method: tt.method}

			assert.Equal(t, tt.expectedScopes, resolver.Resolve(ctx))
		})
	}
}

func TestOperationScopeResolver_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("metadata scope wins over the method", func(t *testing.T) {
		t.Parallel()

		resolver := ratelimit.NewOperationScopeResolver()
		ctx := &mockHumaContext{
			method: "GET",
			operation: &huma.Operation{
				Metadata: map[string]any{
					ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeCheck},
				},
			},
		}

		assert.Equal(t, []ratelimit.Scope{ratelimit.ScopeCheck}, resolver.Resolve(ctx))
	})

	t.Run("falls back to the method without metadata", func(t *testing.T) {
		t.Parallel()

		resolver := ratelimit.NewOperationScopeResolver()
		ctx := &mockHumaContext{method: "POST"}

		assert.Equal(t, []ratelimit.Scope{ratelimit.ScopeAdmin}, resolver.Resolve(ctx))
	})

	t.Run("empty metadata scope falls back to the method", func(t *testing.T) {
		t.Parallel()

		resolver := ratelimit.NewOperationScopeResolver()
		ctx := &mockHumaContext{
			method: "GET",
			operation: &huma.Operation{
				Metadata: map[string]any{
					ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
				},
			},
		}

		assert.Equal(t, []ratelimit.Scope{ratelimit.ScopePublic}, resolver.Resolve(ctx))
	})
}

func TestGetEndpointConfig(t *testing.T) {
	t.Parallel()

	t.Run("nil without an operation", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, ratelimit.GetEndpointConfig(&mockHumaContext{}))
	})

	t.Run("nil when metadata has the wrong type", func(t *testing.T) {
		t.Parallel()

		ctx := &mockHumaContext{
			operation: &huma.Operation{
				Metadata: map[string]any{ratelimit.MetadataKey: "nope"},
			},
		}

		assert.Nil(t, ratelimit.GetEndpointConfig(ctx))
	})

	t.Run("returns the configured value", func(t *testing.T) {
		t.Parallel()

		ctx := &mockHumaContext{
			operation: &huma.Operation{
				Metadata: map[string]any{
					ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
				},
			},
		}

		cfg := ratelimit.GetEndpointConfig(ctx)

		assert.NotNil(t, cfg)
		assert.True(t, cfg.Disabled)
	})
}
