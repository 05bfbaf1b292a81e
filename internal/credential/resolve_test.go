// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credential

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeLoader struct {
	id, secret string
	err        error
	calls      int
}

func (f *fakeLoader) LoadAPIKey() (string, string, error) {
	f.calls++
	return f.id, f.secret, f.err
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvKeyID, "")
	t.Setenv(EnvKeySecret, "")
	t.Setenv(EnvDocker, "")
}

func TestResolveOrder(t *testing.T) {
	dir := t.TempDir()
	explicit := writeKeyFile(t, dir, "explicit.json", `{"id":"explicit","secret":"s"}`)
	exeDir := t.TempDir()
	writeKeyFile(t, exeDir, DefaultKeyFileName, `{"id":"beside-exe","secret":"s"}`)
	exe := filepath.Join(exeDir, "bzm-mcp")

	tests := []struct {
		name   string
		src    Sources
		env    bool
		wantID string
	}{
		{"explicit file wins", Sources{KeyFile: explicit, Executable: exe}, true, "explicit"},
		{"executable dir next", Sources{Executable: exe}, true, "beside-exe"},
		{"broken explicit falls through", Sources{KeyFile: filepath.Join(dir, "absent.json"), Executable: exe}, false, "beside-exe"},
		{"env pair", Sources{Executable: filepath.Join(dir, "bin")}, true, "env-id"},
		{"keychain last", Sources{Keychain: &fakeLoader{id: "stored", secret: "s"}}, false, "stored"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCredentialEnv(t)
			if tt.env {
				t.Setenv(EnvKeyID, "env-id")
				t.Setenv(EnvKeySecret, "env-secret")
			}
			tt.src.Logger = zaptest.NewLogger(t)

			c := Resolve(tt.src)
			require.NotNil(t, c)
			assert.Equal(t, tt.wantID, c.ID())
		})
	}
}

func TestResolveNone(t *testing.T) {
	clearCredentialEnv(t)
	loader := &fakeLoader{err: errors.New("item not found")}

	c := Resolve(Sources{
		Executable: filepath.Join(t.TempDir(), "bzm-mcp"),
		Keychain:   loader,
	})
	assert.Nil(t, c)
	assert.Equal(t, 1, loader.calls)
}

func TestResolveSkipsPartialEnv(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv(EnvKeyID, "only-id")

	c := Resolve(Sources{Keychain: &fakeLoader{id: "stored", secret: "s"}})
	require.NotNil(t, c)
	assert.Equal(t, "stored", c.ID())
}
