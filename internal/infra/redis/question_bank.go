package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
)

// QuestionLoader fetches the question pool of one level from a backing store.
type QuestionLoader interface {
	LoadLevel(ctx context.Context, level int) ([]domain.Question, error)
}

// QuestionBank caches level pools in Redis (hash per level) and falls back
// to a loader on cache miss.
// Pools are stored as: HSET questions:level:{level} {questionID} {question JSON}
type QuestionBank struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewQuestionBank(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionBank {
	return NewQuestionBankWithRand(client, loader, ttl, rand.NewSource(time.Now().UnixNano()))
}

// NewQuestionBankWithRand makes sampling deterministic in tests.
func NewQuestionBankWithRand(client *redis.Client, loader QuestionLoader, ttl time.Duration, src rand.Source) *QuestionBank {
	return &QuestionBank{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(src),
	}
}

// SampleGame picks one random question for each level 1..15.
func (b *QuestionBank) SampleGame(ctx context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, 0, game.Levels)
	for level := 1; level <= game.Levels; level++ {
		pool, err := b.pool(ctx, level)
		if err != nil {
			return nil, err
		}
		if len(pool) == 0 {
			return nil, fmt.Errorf("%w for level %d", domain.ErrQuestionNotFound, level)
		}
		b.rndMu.Lock()
		pick := pool[b.rnd.Intn(len(pool))]
		b.rndMu.Unlock()
		out = append(out, pick)
	}
	return out, nil
}

func (b *QuestionBank) pool(ctx context.Context, level int) ([]domain.Question, error) {
	key := b.levelKey(level)

	cached, err := b.client.HGetAll(ctx, key).Result()
	if err == nil && len(cached) > 0 {
		return decodePool(cached)
	}

	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		cached, err := b.client.HGetAll(ctx, key).Result()
		if err == nil && len(cached) > 0 {
			return decodePool(cached)
		}

		questions, err := b.loader.LoadLevel(ctx, level)
		if err != nil {
			return nil, err
		}
		if len(questions) == 0 {
			return questions, nil
		}

		ttl := b.ttlWithJitter()
		pipe := b.client.Pipeline()
		for _, q := range questions {
			data, err := json.Marshal(q)
			if err != nil {
				return nil, fmt.Errorf("marshal question %s: %w", q.ID, err)
			}
			pipe.HSet(ctx, key, q.ID, data)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		// cache fill is best effort
		_, _ = pipe.Exec(ctx)

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *QuestionBank) levelKey(level int) string {
	return "questions:level:" + strconv.Itoa(level)
}

// decodePool returns the cached questions ordered by ID so sampling is
// reproducible for a given seed.
func decodePool(cached map[string]string) ([]domain.Question, error) {
	ids := make([]string, 0, len(cached))
	for id := range cached {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		var q domain.Question
		if err := json.Unmarshal([]byte(cached[id]), &q); err != nil {
			return nil, fmt.Errorf("unmarshal cached question %s: %w", id, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}
