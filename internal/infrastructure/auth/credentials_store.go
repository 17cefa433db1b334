package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"neighbournode.dev/cli/internal/core/domain"
	authports "neighbournode.dev/cli/internal/core/ports/auth"
)

// SecureCredentialsStore persists one set of credentials to disk, encrypted
// with a machine-derived key so a copied file is useless elsewhere.
type SecureCredentialsStore struct {
	path       string
	encryptKey []byte
	mu         sync.RWMutex
}

// NewSecureCredentialsStore creates a store under the given directory
func NewSecureCredentialsStore(dir string) (*SecureCredentialsStore, error) {
	// Expand home directory if needed
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}

	return &SecureCredentialsStore{
		path:       filepath.Join(dir, "credentials"),
		encryptKey: deriveEncryptionKey(),
	}, nil
}

// Load retrieves stored credentials. A missing file means nobody is signed
// in and returns (nil, nil).
func (s *SecureCredentialsStore) Load() (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	decrypted, err := s.decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(decrypted, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	// Return the credentials even if expired - the caller decides whether
	// to refresh or demand a fresh sign-in.
	return &creds, nil
}

// Save stores credentials, replacing whatever was there
func (s *SecureCredentialsStore) Save(creds *domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	encrypted, err := s.encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}

	// Write with restricted permissions
	if err := os.WriteFile(s.path, encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}

// Clear removes stored credentials. Clearing an empty store is fine.
func (s *SecureCredentialsStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}

	return nil
}

// Private encryption methods

func (s *SecureCredentialsStore) encrypt(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, data, nil)

	// Encode to base64 for storage
	return []byte(base64.StdEncoding.EncodeToString(ciphertext)), nil
}

func (s *SecureCredentialsStore) decrypt(data []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	return gcm.Open(nil, nonce, ciphertext, nil)
}

// deriveEncryptionKey generates a machine-specific encryption key from
// hostname and user
func deriveEncryptionKey() []byte {
	hostname, _ := os.Hostname()
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME") // Windows
	}

	keyMaterial := fmt.Sprintf("neighbournode-cli:%s:%s", hostname, user)

	// Generate 32-byte key using SHA256
	hash := sha256.Sum256([]byte(keyMaterial))
	return hash[:]
}

// MemoryCredentialsStore keeps credentials in memory (for testing)
type MemoryCredentialsStore struct {
	creds *domain.Credentials
	mu    sync.RWMutex
}

// NewMemoryCredentialsStore creates an empty in-memory store
func NewMemoryCredentialsStore() *MemoryCredentialsStore {
	return &MemoryCredentialsStore{}
}

// Load retrieves stored credentials, (nil, nil) when empty
func (s *MemoryCredentialsStore) Load() (*domain.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.creds, nil
}

// Save stores credentials
func (s *MemoryCredentialsStore) Save(creds *domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
	return nil
}

// Clear removes stored credentials
func (s *MemoryCredentialsStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
	return nil
}

var (
	_ authports.CredentialsStore = (*SecureCredentialsStore)(nil)
	_ authports.CredentialsStore = (*MemoryCredentialsStore)(nil)
)
