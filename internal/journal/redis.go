package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	operationPrefix = "mint:op:v1:"
	leasePrefix     = "mint:lease:v1:"

	// DefaultLeaseTTL bounds how long a crashed request can block its key.
	DefaultLeaseTTL = 5 * time.Minute
)

// releaseScript deletes the lease only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only if it still carries our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// saveScript writes the operation only while the lease carries our token.
// KEYS: lease, operation. ARGV: token, payload, ttl in ms (0 keeps it forever).
var saveScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[2], ARGV[2])
end
return 1
`)

// RedisStore keeps operations in Redis so they survive restarts and are shared between replicas.
type RedisStore struct {
	client   *redis.Client
	ttl      time.Duration
	leaseTTL time.Duration
}

// NewRedisClient configures a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// NewRedisStore creates a store that expires operations after ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, leaseTTL: DefaultLeaseTTL}
}

// WithLeaseTTL overrides DefaultLeaseTTL.
func (s *RedisStore) WithLeaseTTL(d time.Duration) *RedisStore {
	s.leaseTTL = d
	return s
}

func (s *RedisStore) Acquire(ctx context.Context, key, buyer string, quantity int) (*Operation, func(), error) {
	leaseKey := leasePrefix + key
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, leaseKey, token, s.leaseTTL).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if !ok {
		return nil, nil, ErrInFlight
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go s.heartbeat(leaseKey, token, stop, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done
			// the request context may already be gone
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			releaseScript.Run(ctx, s.client, []string{leaseKey}, token)
		})
	}

	op, err := s.load(ctx, key)
	if err != nil {
		release()
		return nil, nil, err
	}

	if op == nil {
		op = newOperation(key, buyer, quantity, time.Now().UTC())
		op.lease = token
		if err := s.Save(ctx, op); err != nil {
			release()
			return nil, nil, err
		}
	} else if !op.Matches(buyer, quantity) {
		release()
		return nil, nil, ErrKeyMismatch
	}
	op.lease = token

	return op, release, nil
}

// heartbeat keeps the lease alive while the request runs. It exits on stop or once the lease is gone.
func (s *RedisStore) heartbeat(leaseKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := s.leaseTTL / 3
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			n, err := renewScript.Run(ctx, s.client, []string{leaseKey}, token, s.leaseTTL.Milliseconds()).Int()
			cancel()
			if err == nil && n == 0 {
				return
			}
		}
	}
}

func (s *RedisStore) Save(ctx context.Context, op *Operation) error {
	op.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to encode operation: %w", err)
	}

	keys := []string{leasePrefix + op.Key, operationPrefix + op.Key}
	n, err := saveScript.Run(ctx, s.client, keys, op.lease, payload, s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("failed to persist operation: %w", err)
	}
	if n == 0 {
		return ErrLeaseLost
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, key string) (*Operation, error) {
	raw, err := s.client.Get(ctx, operationPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load operation: %w", err)
	}

	var op Operation
	if err := json.Unmarshal(raw, &op); err != nil {
		return nil, fmt.Errorf("failed to decode operation: %w", err)
	}
	return &op, nil
}
