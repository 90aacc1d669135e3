package hooks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/filemanager"
)

// TrustBypassEnv skips trust verification when set to "1". Meant for
// CI where the settings file is already review-gated.
const TrustBypassEnv = "HOOKRUNNER_TRUST_BYPASS"

// TrustStatus describes how the current settings relate to the
// recorded approval
type TrustStatus string

const (
	// TrustStatusTrusted means the settings match the approved hash
	TrustStatusTrusted TrustStatus = "trusted"
	// TrustStatusUntrusted means no approval has been recorded
	TrustStatusUntrusted TrustStatus = "untrusted"
	// TrustStatusDrifted means the settings changed since approval
	TrustStatusDrifted TrustStatus = "drifted"
)

// TrustRecord is the on-disk approval record
type TrustRecord struct {
	Hash      string    `yaml:"hash"`
	TrustedAt time.Time `yaml:"trusted_at"`
	TrustedBy string    `yaml:"trusted_by"`
}

// TrustStore reads and writes the trust record next to the settings.
// Settings that execute arbitrary commands are only honored after an
// explicit approval of their content hash. Access goes through the
// file manager so concurrent runner processes do not race on the
// record; its lock timeout bounds how long any call here can wait.
type TrustStore struct {
	path  string
	files *filemanager.Manager[TrustRecord]
}

// NewTrustStore creates a trust store at path
func NewTrustStore(path string) *TrustStore {
	return &TrustStore{
		path:  path,
		files: filemanager.NewManager[TrustRecord](),
	}
}

// SettingsHash computes the approval hash over the canonical
// serialized settings.
func SettingsHash(settings *config.Settings) (string, error) {
	data, err := settings.CanonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Load reads the trust record, returning nil when none exists
func (s *TrustStore) Load() (*TrustRecord, error) {
	record, err := s.files.Read(context.Background(), s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read trust record: %w", err)
	}
	return record, nil
}

// Approve records the current settings hash as trusted
func (s *TrustStore) Approve(settings *config.Settings) (*TrustRecord, error) {
	hash, err := SettingsHash(settings)
	if err != nil {
		return nil, err
	}

	record := &TrustRecord{
		Hash:      hash,
		TrustedAt: time.Now().UTC(),
		TrustedBy: currentUser(),
	}

	if err := s.files.Write(context.Background(), s.path, record); err != nil {
		return nil, fmt.Errorf("failed to write trust record: %w", err)
	}

	return record, nil
}

// Status compares the settings against the recorded approval
func (s *TrustStore) Status(settings *config.Settings) (TrustStatus, error) {
	record, err := s.Load()
	if err != nil {
		return "", err
	}
	if record == nil {
		return TrustStatusUntrusted, nil
	}

	hash, err := SettingsHash(settings)
	if err != nil {
		return "", err
	}
	if record.Hash != hash {
		return TrustStatusDrifted, nil
	}
	return TrustStatusTrusted, nil
}

// Verify returns nil when the settings may be executed: they are
// approved, configure no hooks at all, or the bypass variable is set.
func (s *TrustStore) Verify(settings *config.Settings) error {
	if len(settings.Hooks) == 0 {
		return nil
	}
	if os.Getenv(TrustBypassEnv) == "1" {
		return nil
	}

	status, err := s.Status(settings)
	if err != nil {
		return err
	}
	if status != TrustStatusTrusted {
		return ErrUntrustedSettings{Status: status}
	}
	return nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
