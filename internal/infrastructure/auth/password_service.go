package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/you/credsvc/domain"
)

const algorithmID = "argon2id"

// Argon2Config holds the argon2id cost parameters. MaxConcurrent bounds how
// many hash or verify operations may run at once; hashing is the only
// CPU-heavy step in the service and must not starve the request path.
type Argon2Config struct {
	MemoryKB      uint32
	Time          uint32
	Parallelism   uint8
	SaltLength    uint32
	KeyLength     uint32
	MaxConcurrent int
}

// PasswordServiceImpl implements domain.PasswordService using argon2id with
// a self-describing PHC-format hash string.
type PasswordServiceImpl struct {
	config Argon2Config
	sem    chan struct{}
}

// NewPasswordService creates a new password service
func NewPasswordService(config Argon2Config) domain.PasswordService {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 8
	}
	return &PasswordServiceImpl{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(ctx context.Context, password string) (string, error) {
	if err := p.acquire(ctx); err != nil {
		return "", err
	}
	defer p.release()

	salt := make([]byte, p.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		p.config.Time,
		p.config.MemoryKB,
		p.config.Parallelism,
		p.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		p.config.MemoryKB,
		p.config.Time,
		p.config.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify implements domain.PasswordService. Malformed hash input is treated
// as a non-match, never an error.
func (p *PasswordServiceImpl) Verify(ctx context.Context, hashedPassword, password string) bool {
	parsed, err := parsePHC(hashedPassword)
	if err != nil {
		return false
	}

	if err := p.acquire(ctx); err != nil {
		return false
	}
	defer p.release()

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		uint32(len(parsed.hash)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1
}

func (p *PasswordServiceImpl) acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PasswordServiceImpl) release() { <-p.sem }

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parsePHC(encodedHash string) (*parsedPHC, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	var parsed parsedPHC
	for _, pair := range strings.Split(parts[3], ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, errors.New("invalid parameter entry")
		}
		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, errors.New("invalid memory parameter")
			}
			parsed.memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil {
				return nil, errors.New("invalid time parameter")
			}
			parsed.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil {
				return nil, errors.New("invalid parallelism parameter")
			}
			parsed.parallelism = uint8(v)
		default:
			return nil, errors.New("unsupported parameter")
		}
	}
	if parsed.memory == 0 || parsed.time == 0 || parsed.parallelism == 0 {
		return nil, errors.New("missing parameters")
	}

	parsed.salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(parsed.salt) == 0 {
		return nil, errors.New("invalid salt encoding")
	}

	parsed.hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(parsed.hash) == 0 {
		return nil, errors.New("invalid hash encoding")
	}

	return &parsed, nil
}
