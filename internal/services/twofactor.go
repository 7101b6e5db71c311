package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeTTL is how long a stored verification code stays valid.
const CodeTTL = 10 * time.Minute

// CodeStore holds at most one live verification code per owner.
// Put overwrites any previous code. Validate consumes the code on
// success (single use) and purges expired records on access.
type CodeStore interface {
	Put(ctx context.Context, ownerID, code string) error
	Validate(ctx context.Context, ownerID, submitted string) (bool, error)
}

// GenerateLoginCode returns a uniformly random 6-digit code in the
// range 100000-999999 from a cryptographically secure source.
func GenerateLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

type storedCode struct {
	code      string
	expiresAt time.Time
}

// MemoryCodeStore is a mutex-guarded in-process store. It is the
// fallback when Redis is not configured; codes do not survive restarts
// and are not shared across instances.
type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]storedCode
	now   func() time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{
		codes: make(map[string]storedCode),
		now:   time.Now,
	}
}

func (s *MemoryCodeStore) Put(_ context.Context, ownerID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[ownerID] = storedCode{code: code, expiresAt: s.now().Add(CodeTTL)}
	return nil
}

func (s *MemoryCodeStore) Validate(_ context.Context, ownerID, submitted string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.codes[ownerID]
	if !ok {
		return false, nil
	}

	if !s.now().Before(stored.expiresAt) {
		delete(s.codes, ownerID)
		return false, nil
	}

	if stored.code != submitted {
		return false, nil
	}

	delete(s.codes, ownerID)
	return true, nil
}

// RedisCodeStore keeps codes in Redis with a native TTL, so expiry
// holds across restarts and multiple API instances.
type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(ownerID string) string {
	return "2fa:code:" + ownerID
}

// validateScript atomically compares and deletes, so two concurrent
// submissions of the same code cannot both succeed.
var validateScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	redis.call('DEL', KEYS[1])
	return 1
end
return 0
`)

func (s *RedisCodeStore) Put(ctx context.Context, ownerID, code string) error {
	return s.client.Set(ctx, codeKey(ownerID), code, CodeTTL).Err()
}

func (s *RedisCodeStore) Validate(ctx context.Context, ownerID, submitted string) (bool, error) {
	result, err := validateScript.Run(ctx, s.client, []string{codeKey(ownerID)}, submitted).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}
