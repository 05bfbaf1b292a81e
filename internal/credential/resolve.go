// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credential

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// DefaultKeyFileName is looked up next to the running executable.
const DefaultKeyFileName = "api-key.json"

// EnvDocker marks a containerised run; it only affects logging.
const EnvDocker = "MCP_DOCKER"

// Loader returns a stored key pair, typically from the OS keychain.
type Loader interface {
	LoadAPIKey() (id, secret string, err error)
}

// Sources lists where Resolve looks for a credential, in priority order.
type Sources struct {
	// KeyFile is an explicit key-file path (flag or BLAZEMETER_API_KEY).
	KeyFile string
	// Executable is the path of the running binary; api-key.json next to it is tried.
	Executable string
	// Keychain is consulted last. Nil skips it.
	Keychain Loader
	Logger   *zap.Logger
}

// Resolve returns the first usable credential, or nil when none is found.
// A broken source is logged and skipped.
func Resolve(src Sources) *Credential {
	log := src.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if src.KeyFile != "" {
		c, err := FromFile(src.KeyFile)
		if err == nil {
			log.Debug("credential loaded", zap.String("source", "key_file"))
			return c
		}
		log.Warn("skipping API key file", zap.String("path", src.KeyFile), zap.Error(err))
	}

	if src.Executable != "" {
		p := filepath.Join(filepath.Dir(src.Executable), DefaultKeyFileName)
		if _, statErr := os.Stat(p); statErr == nil {
			c, err := FromFile(p)
			if err == nil {
				log.Debug("credential loaded", zap.String("source", "executable_dir"))
				return c
			}
			log.Warn("skipping API key file", zap.String("path", p), zap.Error(err))
		}
	}

	if os.Getenv(EnvKeyID) != "" || os.Getenv(EnvKeySecret) != "" {
		c, err := FromEnv()
		if err == nil {
			log.Debug("credential loaded",
				zap.String("source", "env"),
				zap.Bool("docker", strings.EqualFold(os.Getenv(EnvDocker), "true")))
			return c
		}
		log.Warn("skipping API key environment", zap.Error(err))
	}

	if src.Keychain != nil {
		id, secret, err := src.Keychain.LoadAPIKey()
		if err != nil {
			log.Debug("no API key in keychain", zap.Error(err))
			return nil
		}
		c, err := New(id, secret)
		if err == nil {
			log.Debug("credential loaded", zap.String("source", "keychain"))
			return c
		}
		log.Warn("skipping keychain API key", zap.Error(err))
	}

	return nil
}
