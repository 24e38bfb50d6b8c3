// Package totpx generates TOTP secrets and enrollment artifacts and verifies
// 6-digit SHA1 codes with a configurable drift window.
package totpx

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	Period        = 30
	Digits        = 6
	SecretBytes   = 20
	DefaultWindow = 1

	// DefaultQRSize is the edge length in pixels of enrollment QR codes.
	DefaultQRSize = 256
)

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

var ErrInvalidSecret = errors.New("totpx: invalid secret")

// Config tunes a Manager. The zero value uses DefaultWindow and the wall clock;
// a window of zero steps is only reachable through VerifyWindow and Match.
type Config struct {
	Window int
	Now    func() time.Time
}

// Manager is stateless apart from its clock and is safe for concurrent use.
type Manager struct {
	window int
	now    func() time.Time
}

func New(cfg Config) *Manager {
	m := &Manager{window: cfg.Window, now: cfg.Now}
	if m.window <= 0 {
		m.window = DefaultWindow
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// GenerateSecret returns 20 random bytes encoded as unpadded base32 (32 chars).
func (m *Manager) GenerateSecret() (string, error) {
	raw := make([]byte, SecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("totpx: generate secret: %w", err)
	}
	return b32NoPadding.EncodeToString(raw), nil
}

// ProvisioningURI builds the otpauth:// URI authenticator apps import.
func (m *Manager) ProvisioningURI(secret, account, issuer string) (string, error) {
	key, err := m.key(secret, account, issuer)
	if err != nil {
		return "", err
	}
	return key.URL(), nil
}

// QRCodePNG renders a provisioning URI as a square PNG of the given size.
func (m *Manager) QRCodePNG(uri string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultQRSize
	}
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return nil, fmt.Errorf("totpx: parse provisioning uri: %w", err)
	}
	img, err := key.Image(size, size)
	if err != nil {
		return nil, fmt.Errorf("totpx: render qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("totpx: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Verify checks code against the current step and DefaultWindow steps either
// side. Malformed input yields false.
func (m *Manager) Verify(secret, code string) bool {
	return m.VerifyWindow(secret, code, m.window)
}

func (m *Manager) VerifyWindow(secret, code string, window int) bool {
	_, ok := m.Match(secret, code, m.now(), window)
	return ok
}

// MatchNow is Match at the manager's current time and default window.
func (m *Manager) MatchNow(secret, code string) (int64, bool) {
	return m.Match(secret, code, m.now(), m.window)
}

// Match returns the time-step counter that code matches at instant at, if
// any. Every candidate step is computed and compared in constant time.
func (m *Manager) Match(secret, code string, at time.Time, window int) (int64, bool) {
	if !validCode(code) {
		return 0, false
	}
	normalized, valid := normalizeSecret(secret)
	if !valid {
		return 0, false
	}
	if window < 0 {
		window = 0
	}

	opts := totp.ValidateOpts{
		Period:    Period,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}

	base := at.Unix() / Period
	var (
		matched int64
		ok      bool
	)
	for step := -window; step <= window; step++ {
		counter := base + int64(step)
		if counter < 0 {
			continue
		}
		expected, err := totp.GenerateCodeCustom(normalized, time.Unix(counter*Period, 0).UTC(), opts)
		if err != nil {
			return 0, false
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(code)) == 1 && !ok {
			matched, ok = counter, true
		}
	}
	return matched, ok
}

func (m *Manager) key(secret, account, issuer string) (*otp.Key, error) {
	normalized, ok := normalizeSecret(secret)
	if !ok {
		return nil, ErrInvalidSecret
	}
	raw, err := b32NoPadding.DecodeString(normalized)
	if err != nil {
		return nil, ErrInvalidSecret
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Period:      Period,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		Secret:      raw,
	})
	if err != nil {
		return nil, fmt.Errorf("totpx: build key: %w", err)
	}
	return key, nil
}

func validCode(code string) bool {
	if len(code) != Digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// normalizeSecret upper-cases and strips padding, reporting whether the result
// is non-empty valid base32.
func normalizeSecret(secret string) (string, bool) {
	s := strings.TrimRight(strings.ToUpper(strings.TrimSpace(secret)), "=")
	if s == "" {
		return "", false
	}
	raw, err := b32NoPadding.DecodeString(s)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	return s, true
}
