package memory

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
)

// QuestionLoader fetches the question pool of one level from a backing store.
type QuestionLoader interface {
	LoadLevel(ctx context.Context, level int) ([]domain.Question, error)
}

// QuestionBank caches level pools with TTL and samples one question per level.
type QuestionBank struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu    sync.RWMutex
	cache map[int]cachedPool
}

type cachedPool struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionBank(loader QuestionLoader, ttl time.Duration) *QuestionBank {
	return NewQuestionBankWithRand(loader, ttl, rand.NewSource(time.Now().UnixNano()))
}

// NewQuestionBankWithRand makes sampling deterministic in tests.
func NewQuestionBankWithRand(loader QuestionLoader, ttl time.Duration, src rand.Source) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(src),
		cache:  make(map[int]cachedPool),
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
	now := b.clock()

	b.mu.RLock()
	if entry, ok := b.cache[level]; ok && entry.expiresAt.After(now) {
		b.mu.RUnlock()
		return entry.questions, nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do(strconv.Itoa(level), func() (interface{}, error) {
		now := b.clock()
		b.mu.RLock()
		if entry, ok := b.cache[level]; ok && entry.expiresAt.After(now) {
			b.mu.RUnlock()
			return entry.questions, nil
		}
		b.mu.RUnlock()

		questions, err := b.loader.LoadLevel(ctx, level)
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		b.cache[level] = cachedPool{
			questions: questions,
			expiresAt: now.Add(b.ttlWithJitter()),
		}
		b.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader serves a fixed question set (useful for tests/demos).
type StaticQuestionLoader struct {
	byLevel map[int][]domain.Question
}

func NewStaticQuestionLoader(questions []domain.Question) *StaticQuestionLoader {
	byLevel := make(map[int][]domain.Question)
	for _, q := range questions {
		byLevel[q.Level] = append(byLevel[q.Level], q)
	}
	return &StaticQuestionLoader{byLevel: byLevel}
}

func (l *StaticQuestionLoader) LoadLevel(_ context.Context, level int) ([]domain.Question, error) {
	return l.byLevel[level], nil
}
