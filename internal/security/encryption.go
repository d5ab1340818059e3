package security

import (
	"crypto/aes"
	"crypto/cipher"
	crand "crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"
)

var charset = "qwertyuiopasdfghjklzxcvbnmQWERTYUIOPASDFGHJKLZXCVBNM1234567890-_|!/"
var seededRand *rand.Rand = rand.New(
	rand.NewSource(time.Now().UnixNano()))

func stringWithCharset(length int64, charset string) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}

// GitHub issues tokens with these prefixes. Credentials stored before
// encryption-at-rest was introduced are raw tokens, so Decrypt passes them
// through untouched instead of failing on an unparseable envelope.
var legacyTokenPrefixes = []string{"ghp_", "gho_", "github_pat_"}

type AuthenticationError struct {
	Message string
}

func (e AuthenticationError) Error() string {
	return e.Message
}

type Encrypter interface {
	Encrypt(string) string
	Decrypt(string) (string, error)
}

// AESEncrypter seals credentials with AES-256-GCM. The envelope is
// "nonce:tag:ciphertext", each segment base64, so a stored value carries
// everything Decrypt needs.
type AESEncrypter struct {
	key []byte
}

func NewAESEncrypter(key []byte) (*AESEncrypter, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	return &AESEncrypter{key: key}, nil
}

func (e *AESEncrypter) Encrypt(text string) string {
	c, err := aes.NewCipher(e.key)
	if err != nil {
		log.Fatal(err)
	}

	gcm, err := cipher.NewGCM(c)
	if err != nil {
		log.Fatal(err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := crand.Read(nonce); err != nil {
		log.Fatal(err)
	}

	sealed := gcm.Seal(nil, nonce, []byte(text), nil)
	cipherText := sealed[:len(sealed)-gcm.Overhead()]
	tag := sealed[len(sealed)-gcm.Overhead():]

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(cipherText),
	}, ":")
}

func (e *AESEncrypter) Decrypt(envelope string) (string, error) {
	for _, prefix := range legacyTokenPrefixes {
		if strings.HasPrefix(envelope, prefix) {
			return envelope, nil
		}
	}

	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", AuthenticationError{Message: "malformed credential envelope"}
	}
	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", AuthenticationError{Message: "malformed credential envelope"}
	}
	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", AuthenticationError{Message: "malformed credential envelope"}
	}
	cipherText, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", AuthenticationError{Message: "malformed credential envelope"}
	}

	c, err := aes.NewCipher(e.key)
	if err != nil {
		return "", AuthenticationError{Message: "invalid encryption key"}
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return "", AuthenticationError{Message: "invalid encryption key"}
	}
	if len(nonce) != gcm.NonceSize() || len(tag) != gcm.Overhead() {
		return "", AuthenticationError{Message: "malformed credential envelope"}
	}

	plaintext, err := gcm.Open(nil, nonce, append(cipherText, tag...), nil)
	if err != nil {
		return "", AuthenticationError{Message: "credential authentication failed"}
	}
	return string(plaintext), nil
}

// NewKeys loads or generates the securecookie hash and block keys used for
// session cookies.
func NewKeys() ([]byte, []byte) {
	var hashKey []byte
	var blockKey []byte

	// check if keys are stored in env variables
	hk, hkOk := os.LookupEnv("GITCRON_HASH_KEY")
	bk, bkOk := os.LookupEnv("GITCRON_BLOCK_KEY")

	if hkOk {
		// use key from env
		hashKey = []byte(hk)
	} else {
		// generate key and store in .env
		hashKey = []byte(GenerateRandomKey(32))
		writeToDotenv("GITCRON_HASH_KEY", string(hashKey))
	}
	if bkOk {
		// use key from env
		blockKey = []byte(bk)
	} else {
		// generate key and store in .env
		blockKey = []byte(GenerateRandomKey(24))
		writeToDotenv("GITCRON_BLOCK_KEY", string(blockKey))
	}
	return hashKey, blockKey
}

func writeToDotenv(name, value string) {
	f, err := os.OpenFile(".env", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Write([]byte(name + "=" + value + "\n")); err != nil {
		log.Fatal(err)
	}
}

func GenerateRandomKey(length int64) string {
	return stringWithCharset(length, charset)
}
