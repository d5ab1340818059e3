package settings

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"log"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

var Settings *AppSettings

func NewSettings() *AppSettings {
	settings := AppSettings{
		SessionExpires:  time.Duration(30 * 24 * time.Hour),
		Domain:          getEnvOrDefault("GITCRON_DOMAIN", "localhost"),
		Port:            getEnvOrDefault("GITCRON_PORT", ":8080"),
		SQLiteDatabase:  getEnvOrDefault("GITCRON_DB_PATH", "file:.///db.sqlite"),
		GitHubAPIBase:   getEnvOrDefault("GITCRON_GITHUB_API", "https://api.github.com"),
		EncryptionKey:   os.Getenv("GITCRON_ENCRYPTION_KEY"),
		CronSecret:      os.Getenv("GITCRON_CRON_SECRET"),
		DispatchTimeout: getEnvSeconds("GITCRON_DISPATCH_TIMEOUT_SECONDS", 30),
		PollInterval:    getEnvSeconds("GITCRON_POLL_INTERVAL_SECONDS", 60),
		DispatchWorkers: 4,
	}
	if !strings.HasPrefix(settings.Port, ":") {
		settings.Port = ":" + settings.Port
	}
	return &settings
}

func getEnvOrDefault(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

func getEnvSeconds(key string, defaultSeconds int64) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return time.Duration(defaultSeconds) * time.Second
	}
	var seconds int64
	if _, err := fmt.Sscanf(value, "%d", &seconds); err != nil || seconds <= 0 {
		log.Fatalf("invalid %s: %q", key, value)
	}
	return time.Duration(seconds) * time.Second
}

type AppSettings struct {
	SQLiteDatabase  string
	Domain          string
	Port            string
	GitHubAPIBase   string
	EncryptionKey   string
	CronSecret      string
	SessionExpires  time.Duration
	DispatchTimeout time.Duration
	PollInterval    time.Duration
	DispatchWorkers int
}

func (as *AppSettings) BaseURL() string {
	if as.Domain == "localhost" {
		return fmt.Sprintf("http://%s%s", as.Domain, as.Port)
	} else {
		return fmt.Sprintf("https://%s", as.Domain)
	}
}

// DecodeEncryptionKey returns the 32-byte AES key for the credential
// encrypter. A missing or malformed key is a startup misconfiguration, so
// callers are expected to treat an error here as fatal.
func (as *AppSettings) DecodeEncryptionKey() ([]byte, error) {
	if as.EncryptionKey == "" {
		return nil, fmt.Errorf("GITCRON_ENCRYPTION_KEY is not set")
	}
	key, err := base64.StdEncoding.DecodeString(as.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("GITCRON_ENCRYPTION_KEY is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("GITCRON_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func (as *AppSettings) SQLiteDbString(readonly bool) string {
	params := make(url.Values)
	params.Add("_journal_mode", "WAL")
	params.Add("_busy_timeout", "5000")
	params.Add("_synchronous", "NORMAL")
	params.Add("_cache_size", "-20000")
	params.Add("_foreign_keys", "ON")
	if readonly {
		params.Add("mode", "ro")
	} else {
		params.Add("_txlock", "IMMEDIATE")
		params.Add("mode", "rwc")
	}

	return as.SQLiteDatabase + "?" + params.Encode()
}

func ReadDotenv(path string) {
	re := regexp.MustCompile(`^[^0-9][A-Z0-9_]+=.+$`)
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) > 0 && line[0] != '#' && re.Match(line) {
			split := strings.Split(string(line), "=")
			name := strings.TrimSpace(split[0])
			value := strings.TrimSpace(split[1])
			value = strings.Trim(value, `"`)
			os.Setenv(name, value)
		}
	}
}
