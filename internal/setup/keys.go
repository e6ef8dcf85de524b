package setup

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/pkg/errors"

	"fithub/internal/config"
)

// sessionKeys returns the configured cookie signing keys, or one random key
// when none is set. Sessions signed with a random key do not survive a restart.
func sessionKeys(conf *config.Config) ([][]byte, error) {
	keyPairs := make([][]byte, 0, len(conf.HTTP.Session.Keys))
	for _, k := range conf.HTTP.Session.Keys {
		if k == "" {
			continue
		}
		keyPairs = append(keyPairs, []byte(k))
	}

	if len(keyPairs) == 0 {
		key, err := getRandomBytes(32)
		if err != nil {
			return nil, errors.Wrap(err, "could not generate cookie signing key")
		}
		slog.Warn("session_key_generated")
		keyPairs = append(keyPairs, key)
	}

	return keyPairs, nil
}

// csrfKey decodes the hex encoded CSRF key, or generates one when unset.
func csrfKey(conf *config.Config) ([]byte, error) {
	if conf.HTTP.CSRF.Key == "" {
		slog.Warn("csrf_key_generated")
		return getRandomBytes(32)
	}

	key, err := hex.DecodeString(string(conf.HTTP.CSRF.Key))
	if err != nil {
		return nil, errors.Wrap(err, "csrf key must be hex encoded")
	}
	if len(key) != 32 {
		return nil, errors.Errorf("csrf key must decode to 32 bytes, got %d", len(key))
	}

	return key, nil
}

func getRandomBytes(n int) ([]byte, error) {
	data := make([]byte, n)

	read, err := rand.Read(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if read != n {
		return nil, errors.Errorf("could not read %d bytes", n)
	}

	return data, nil
}
