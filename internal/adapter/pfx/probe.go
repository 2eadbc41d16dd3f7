package pfx

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	xpkcs12 "golang.org/x/crypto/pkcs12"
	gopkcs12 "software.sslmate.com/src/go-pkcs12"

	"pfxcrack/internal/core/domain"
	"pfxcrack/internal/utils/random"
)

const sentinelLength = 24

type decodeFunc func(pfxData []byte, password string) error

// Probe tests candidate passwords against one container.
type Probe struct {
	container *Container
	backend   domain.Backend
	decode    decodeFunc
	warnOnce  sync.Once
}

// NewProbe validates the container with a throwaway password. Only a wrong
// password verdict (or an accidental success) proves the bytes are a PKCS#12
// bundle this backend understands; every other outcome is a setup error.
func NewProbe(container *Container, backend domain.Backend) (*Probe, error) {
	backend, decode, err := decoderFor(backend)
	if err != nil {
		return nil, err
	}

	p := &Probe{
		container: container,
		backend:   backend,
		decode:    decode,
	}

	sentinel := random.GenerateRandomString(domain.CharsetAlnum, sentinelLength)
	err = p.decode(container.data, sentinel)
	if err != nil && !isIncorrectPassword(err) {
		return nil, domain.NewSetupError(domain.ErrMalformedContainer,
			fmt.Sprintf("%s (backend %s)", container.name, backend), err)
	}

	slog.Debug("container validated",
		"container", container.name,
		"bytes", container.Size(),
		"sha256", container.fingerprint,
		"backend", backend)
	return p, nil
}

// decoderFor resolves backend, empty meaning sslmate.
func decoderFor(backend domain.Backend) (domain.Backend, decodeFunc, error) {
	switch domain.Backend(strings.ToUpper(string(backend))) {
	case domain.BackendSSLMate, "":
		return domain.BackendSSLMate, decodeSSLMate, nil
	case domain.BackendXCrypto:
		return domain.BackendXCrypto, decodeXCrypto, nil
	}
	return "", nil, domain.NewSetupError(domain.ErrUnsupportedBackend, string(backend), nil)
}

func decodeSSLMate(pfxData []byte, password string) error {
	_, _, _, err := gopkcs12.DecodeChain(pfxData, password)
	return err
}

func decodeXCrypto(pfxData []byte, password string) error {
	_, err := xpkcs12.ToPEM(pfxData, password)
	return err
}

func isIncorrectPassword(err error) bool {
	return errors.Is(err, gopkcs12.ErrIncorrectPassword) || errors.Is(err, xpkcs12.ErrIncorrectPassword)
}

func (p *Probe) Backend() domain.Backend {
	return p.backend
}

// Try reports whether candidate decrypts the container. A wrong password is
// (false, nil). The returned error is reserved for conditions that make the
// whole search meaningless.
func (p *Probe) Try(candidate string) (bool, error) {
	if err := encodable(candidate); err != nil {
		return false, err
	}

	err := p.decode(p.container.data, candidate)
	switch {
	case err == nil:
		return true, nil
	case isIncorrectPassword(err):
		return false, nil
	}

	// The integrity MAC is checked before any payload is decoded, so any
	// other failure means the password was accepted.
	p.warnOnce.Do(func() {
		slog.Warn("password accepted but payload could not be decoded",
			"container", p.container.name,
			"backend", p.backend,
			"error", err)
	})
	return true, nil
}

// ValidateCharset rejects symbols PKCS#12 cannot carry in its BMPString
// password encoding.
func ValidateCharset(symbols string) error {
	if err := encodable(symbols); err != nil {
		return domain.NewSetupError(domain.ErrUnencodableCharset, "", err)
	}
	return nil
}

func encodable(s string) error {
	for _, r := range s {
		if r > 0xFFFF {
			return fmt.Errorf("%w: %q is outside the basic multilingual plane", domain.ErrUnencodableCharset, r)
		}
	}
	return nil
}
