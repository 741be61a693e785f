package auth

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	serviceName   = "imgtrans"
	geminiAccount = "gemini-api-key"
)

// EnvVars are checked in order when the keychain holds no key.
var EnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

const (
	SourceKeychain = "Keychain"
	SourceEnv      = "Environment Variable"
)

// GetKey returns the Gemini API key from the OS keychain, falling back to
// the environment when allowEnv is set. An empty key means no key was
// found; callers then use Vertex AI application default credentials.
func GetKey(allowEnv bool) (key string, source string) {
	if k, err := keyring.Get(serviceName, geminiAccount); err == nil && strings.TrimSpace(k) != "" {
		return strings.TrimSpace(k), SourceKeychain
	}
	if allowEnv {
		if k, ok := GetEnvKey(); ok {
			return k, SourceEnv
		}
	}
	return "", ""
}

// GetEnvKey retrieves the key from environment variables only.
func GetEnvKey() (string, bool) {
	for _, name := range EnvVars {
		if k := strings.TrimSpace(os.Getenv(name)); k != "" {
			return k, true
		}
	}
	return "", false
}

// SaveKey stores the key in the OS keychain.
func SaveKey(key string) error {
	return keyring.Set(serviceName, geminiAccount, strings.TrimSpace(key))
}

// DeleteKey removes the key from the OS keychain.
func DeleteKey() error {
	return keyring.Delete(serviceName, geminiAccount)
}

// GetStatus reports whether the keychain holds a key.
func GetStatus() bool {
	key, err := keyring.Get(serviceName, geminiAccount)
	return err == nil && key != ""
}

// PromptForAPIKey reads a key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(raw)), nil
}
