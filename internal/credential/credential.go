// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credential holds the BlazeMeter API key pair and knows how to load it
// from a key file or the environment. A Credential is immutable once built and
// is safe to share between goroutines.
package credential

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"bzm-mcp/cli/internal/errors"
)

// Environment variables carrying the key pair directly.
const (
	EnvKeyID     = "API_KEY_ID"
	EnvKeySecret = "API_KEY_SECRET"
)

// Credential is a BlazeMeter API key identifier and secret.
type Credential struct {
	id     string
	secret string
}

// New builds a Credential. Both values must be non-empty after trimming.
func New(id, secret string) (*Credential, error) {
	id = strings.TrimSpace(id)
	secret = strings.TrimSpace(secret)
	if id == "" {
		return nil, errors.New(errors.CredentialError, "API key id is empty")
	}
	if secret == "" {
		return nil, errors.New(errors.CredentialError, "API key secret is empty")
	}
	return &Credential{id: id, secret: secret}, nil
}

type keyFile struct {
	ID     *string `json:"id"`
	Secret *string `json:"secret"`
}

// FromFile reads a JSON key file of the form {"id": "...", "secret": "..."}
// as downloaded from the BlazeMeter API keys page.
func FromFile(path string) (*Credential, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.CredentialError, fmt.Sprintf("API key file %s not found", path), err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Newf(errors.CredentialError, "API key file %s is not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.CredentialError, fmt.Sprintf("cannot read API key file %s", path), err)
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, errors.Wrap(errors.CredentialError, fmt.Sprintf("API key file %s is not valid JSON", path), err)
	}
	if kf.ID == nil {
		return nil, errors.Newf(errors.CredentialError, "API key file %s has no \"id\" field", path)
	}
	if kf.Secret == nil {
		return nil, errors.Newf(errors.CredentialError, "API key file %s has no \"secret\" field", path)
	}
	return New(*kf.ID, *kf.Secret)
}

// FromEnv builds a Credential from API_KEY_ID and API_KEY_SECRET.
func FromEnv() (*Credential, error) {
	id, okID := os.LookupEnv(EnvKeyID)
	secret, okSecret := os.LookupEnv(EnvKeySecret)
	if !okID || !okSecret {
		return nil, errors.Newf(errors.CredentialError, "%s and %s must both be set", EnvKeyID, EnvKeySecret)
	}
	return New(id, secret)
}

// ID returns the key identifier.
func (c *Credential) ID() string { return c.id }

// Secret returns the key secret. Never log the returned value.
func (c *Credential) Secret() string { return c.secret }

// BasicAuth renders the Authorization header value.
func (c *Credential) BasicAuth() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.id+":"+c.secret))
}

func (c *Credential) String() string {
	if c == nil {
		return "Credential(<nil>)"
	}
	return fmt.Sprintf("Credential(id=%s, secret=********)", c.id)
}

func (c *Credential) GoString() string { return c.String() }
