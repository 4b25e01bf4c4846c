package db

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgannotate/internal/logging"
	"github.com/vvka-141/pgannotate/pkg/pgannotate"
)

type stubTokenProvider struct {
	calls int
	err   error
}

func (s *stubTokenProvider) GetToken(context.Context) (string, time.Time, error) {
	s.calls++
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return "token", time.Now().Add(time.Hour), nil
}

func (s *stubTokenProvider) String() string { return "stub" }

func TestNewConnector_SelectsByAuthMethod(t *testing.T) {
	standard, err := NewConnector(&pgannotate.ConnectionConfig{AuthMethod: pgannotate.AuthMethodStandard}, nil)
	require.NoError(t, err)
	assert.IsType(t, &StandardConnector{}, standard)

	aws, err := NewConnector(&pgannotate.ConnectionConfig{
		Host: "db.rds.amazonaws.com", Port: 5432, Username: "app",
		AuthMethod: pgannotate.AuthMethodAWSIAM, AWSRegion: "us-east-1",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &TokenConnector{}, aws)

	google, err := NewConnector(&pgannotate.ConnectionConfig{
		Username: "app", AuthMethod: pgannotate.AuthMethodGoogleIAM, GoogleInstance: "p:r:i",
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &GoogleCloudSQLConnector{}, google)
}

func TestNewConnector_Errors(t *testing.T) {
	_, err := NewConnector(&pgannotate.ConnectionConfig{AuthMethod: pgannotate.AuthMethod(42)}, nil)
	assert.ErrorIs(t, err, pgannotate.ErrUnsupportedAuthMethod)

	_, err = NewConnector(&pgannotate.ConnectionConfig{AuthMethod: pgannotate.AuthMethodAWSIAM, Username: "app"}, nil)
	assert.ErrorIs(t, err, pgannotate.ErrInvalidConfig)

	_, err = NewConnector(&pgannotate.ConnectionConfig{AuthMethod: pgannotate.AuthMethodGoogleIAM, Username: "app"}, nil)
	assert.ErrorIs(t, err, pgannotate.ErrInvalidConfig)

	_, err = NewConnector(&pgannotate.ConnectionConfig{AuthMethod: pgannotate.AuthMethodGoogleIAM, GoogleInstance: "p:r:i"}, nil)
	assert.ErrorIs(t, err, pgannotate.ErrInvalidConfig)
}

func TestTokenConnector_TokenFailureIsFatal(t *testing.T) {
	provider := &stubTokenProvider{err: errors.New("credentials expired")}
	cfg := &pgannotate.ConnectionConfig{Host: "db", Port: 5432, Database: "app"}
	connector := NewTokenConnector(cfg, provider, logging.NewNullLogger())

	_, err := connector.Connect(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, pgannotate.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "credentials expired")
	assert.Equal(t, 1, provider.calls)
}

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"dial tcp 127.0.0.1:5432: connect: connection refused", "connection refused to 127.0.0.1:5432"},
		{"dial tcp: No connection could be made because the target machine actively refused it", "connection refused to 127.0.0.1:5432"},
		{"lookup nohost: no such host", `cannot resolve host "127.0.0.1"`},
		{"FATAL: password authentication failed for user \"app\"", `password authentication failed for database "shop"`},
		{"FATAL: database \"shop\" does not exist", `database "shop" does not exist`},
		{"dial tcp: i/o timeout", "connection timed out"},
		{"tls: handshake failure", "SSL/TLS negotiation failed"},
		{"FATAL: sorry, too many connections for role", `too many connections to database "shop"`},
		{"something odd", "connection failed to 127.0.0.1:5432"},
	}

	for _, tt := range tests {
		original := errors.New(tt.msg)
		err := wrapConnectionError(original, "127.0.0.1", 5432, "shop")

		assert.True(t, strings.Contains(err.Error(), tt.want), "%q should contain %q", err.Error(), tt.want)
		assert.ErrorIs(t, err, pgannotate.ErrConnectionFailed)
		assert.ErrorIs(t, err, original)
	}

	assert.NoError(t, wrapConnectionError(nil, "h", 1, "d"))
}
