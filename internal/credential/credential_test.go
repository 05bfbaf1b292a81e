// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credential

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bzerrors "bzm-mcp/cli/internal/errors"
)

func writeKeyFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestBasicAuthDecodesToPair(t *testing.T) {
	pairs := []struct{ id, secret string }{
		{"a", "b"},
		{"0f1e2d3c", "s3cr3t/with+chars="},
		{"id-with-colon", "pa:ss:word"},
		{"ünïcode", "秘密"},
	}
	for _, p := range pairs {
		t.Run(p.id, func(t *testing.T) {
			c, err := New(p.id, p.secret)
			require.NoError(t, err)

			header := c.BasicAuth()
			require.True(t, strings.HasPrefix(header, "Basic "))
			raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
			require.NoError(t, err)
			assert.Equal(t, p.id+":"+p.secret, string(raw))
		})
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	tests := []struct {
		name, id, secret string
	}{
		{"empty id", "", "secret"},
		{"empty secret", "id", ""},
		{"blank id", "   ", "secret"},
		{"both empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.id, tt.secret)
			assert.Nil(t, c)
			assert.True(t, bzerrors.Is(err, bzerrors.CredentialError), "got %v", err)
		})
	}
}

func TestFromFileMalformed(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "absent.json")},
		{"directory", dir},
		{"not json", writeKeyFile(t, dir, "garbage.json", "id=foo")},
		{"missing id", writeKeyFile(t, dir, "noid.json", `{"secret":"s"}`)},
		{"missing secret", writeKeyFile(t, dir, "nosecret.json", `{"id":"i"}`)},
		{"empty id", writeKeyFile(t, dir, "emptyid.json", `{"id":"","secret":"s"}`)},
		{"empty secret", writeKeyFile(t, dir, "emptysecret.json", `{"id":"i","secret":""}`)},
		{"wrong type", writeKeyFile(t, dir, "num.json", `{"id":1,"secret":"s"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromFile(tt.path)
			assert.Nil(t, c)
			require.Error(t, err)
			var e *bzerrors.E
			require.True(t, errors.As(err, &e))
			assert.Equal(t, bzerrors.CredentialError, e.Kind)
		})
	}
}

func TestFromFile(t *testing.T) {
	p := writeKeyFile(t, t.TempDir(), "api-key.json", `{"id":"key-id","secret":"key-secret"}`)

	c, err := FromFile(p)
	require.NoError(t, err)
	assert.Equal(t, "key-id", c.ID())
	assert.Equal(t, "key-secret", c.Secret())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvKeyID, "env-id")
	t.Setenv(EnvKeySecret, "env-secret")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env-id", c.ID())

	t.Setenv(EnvKeySecret, "")
	_, err = FromEnv()
	assert.True(t, bzerrors.Is(err, bzerrors.CredentialError))
}

func TestStringMasksSecret(t *testing.T) {
	c, err := New("visible-id", "hidden-secret")
	require.NoError(t, err)

	for _, s := range []string{c.String(), fmt.Sprintf("%v", c), fmt.Sprintf("%+v", c), fmt.Sprintf("%#v", c)} {
		assert.NotContains(t, s, "hidden-secret")
		assert.Contains(t, s, "********")
	}
}
