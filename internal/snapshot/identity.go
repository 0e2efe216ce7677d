package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ClientIDFile is the name of the file holding the anonymous client id.
const ClientIDFile = "growva-user-id"

// LoadOrCreateClientID returns the anonymous client id stored in dir, generating and saving a new
// random id when none exists or the stored one is not a UUID.
func LoadOrCreateClientID(dir string) (string, error) {
	path := filepath.Join(dir, ClientIDFile)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		id := strings.TrimSpace(string(data))
		if _, perr := uuid.Parse(id); perr == nil {
			return id, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("failed to read client id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create client id directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to write client id: %w", err)
	}
	return id, nil
}
