package pfx

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"pfxcrack/internal/core/domain"
)

// Container holds the raw bytes of one PKCS#12 bundle. It is loaded once and
// shared read-only by every worker; nothing may write to data after creation.
type Container struct {
	name        string
	data        []byte
	fingerprint string
}

func LoadContainer(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewSetupError(domain.ErrUnreadableContainer, path, err)
	}
	return NewContainer(filepath.Base(path), data)
}

func NewContainer(name string, data []byte) (*Container, error) {
	if len(data) == 0 {
		return nil, domain.NewSetupError(domain.ErrMalformedContainer, name+" is empty", nil)
	}

	owned := make([]byte, len(data))
	copy(owned, data)
	sum := sha256.Sum256(owned)

	return &Container{
		name:        name,
		data:        owned,
		fingerprint: hex.EncodeToString(sum[:]),
	}, nil
}

func (c *Container) Name() string {
	return c.name
}

func (c *Container) Size() int {
	return len(c.data)
}

// Fingerprint is the hex SHA-256 of the container bytes.
func (c *Container) Fingerprint() string {
	return c.fingerprint
}
