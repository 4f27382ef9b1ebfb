package connection

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/yndnr/rentdash-go/internal/telemetry/logger"
	"github.com/yndnr/rentdash-go/pkg/crypto/adaptive"
)

// File names inside the session directory.
const (
	SessionJarFile = "session.jar"
	SessionKeyFile = "session.key"
)

const sessionKeyInfo = "rentdash session jar v1"

// SessionFile keeps the cookie jar between CLI invocations.
//
// The jar is sealed with a key derived from a random per-user secret and
// bound to the backend base URL, so a jar never replays against another
// backend. A jar that cannot be opened is treated as no session.
type SessionFile struct {
	dir     string
	baseURL string
}

// NewSessionFile creates a session file in dir for the backend at baseURL.
func NewSessionFile(dir, baseURL string) *SessionFile {
	return &SessionFile{dir: dir, baseURL: NormalizeBaseURL(baseURL)}
}

// Path returns the jar file path.
func (f *SessionFile) Path() string {
	return filepath.Join(f.dir, SessionJarFile)
}

// Load imports the persisted cookies into jar. A missing, corrupt or
// foreign file is not an error.
func (f *SessionFile) Load(ctx context.Context, jar *Jar) error {
	blob, err := os.ReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	key, err := f.key(false)
	if err != nil {
		logger.L(ctx).Debug("session key unavailable, ignoring saved session", "error", err)
		return nil
	}

	plain, err := adaptive.Open(key, blob, []byte(f.baseURL))
	if err != nil {
		logger.L(ctx).Debug("saved session does not open, ignoring", "path", f.Path(), "error", err)
		return nil
	}

	var cookies []StoredCookie
	if err := json.Unmarshal(plain, &cookies); err != nil {
		logger.L(ctx).Debug("saved session is corrupt, ignoring", "path", f.Path(), "error", err)
		return nil
	}

	u, err := url.Parse(f.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	jar.Import(u, cookies)
	return nil
}

// Save writes the jar. An empty jar removes the file.
func (f *SessionFile) Save(_ context.Context, jar *Jar) error {
	cookies := jar.Export()
	if len(cookies) == 0 {
		return f.Clear()
	}

	plain, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	key, err := f.key(true)
	if err != nil {
		return err
	}

	blob, err := adaptive.Seal(key, plain, []byte(f.baseURL))
	if err != nil {
		return fmt.Errorf("seal session: %w", err)
	}

	return writeFileAtomic(f.Path(), blob, 0o600)
}

// Clear removes the jar file.
func (f *SessionFile) Clear() error {
	if err := os.Remove(f.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// key loads the secret and derives the jar key, creating the secret when
// create is set.
func (f *SessionFile) key(create bool) ([]byte, error) {
	path := filepath.Join(f.dir, SessionKeyFile)

	secret, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && create {
		secret = make([]byte, adaptive.KeySize)
		if _, err := io.ReadFull(rand.Reader, secret); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
		if err := os.MkdirAll(f.dir, 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
		if err := writeFileAtomic(path, secret, 0o600); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	return adaptive.DeriveKey(secret, nil, sessionKeyInfo)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return os.Rename(tmpName, path)
}
