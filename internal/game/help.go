package game

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"millionaire-service/internal/domain"
)

const (
	DefaultFriendAccuracy   = 0.8
	DefaultAudienceAccuracy = 0.85
)

var defaultFriends = []string{"Alex", "Maria", "Viktor", "Olga", "Sam"}

// HelpEngine produces help content for a question and records it in the
// question's help state. It is safe for concurrent use; the random source
// is guarded by a mutex.
type HelpEngine struct {
	mu  sync.Mutex
	rnd *rand.Rand

	friendAccuracy   float64
	audienceAccuracy float64
	friends          []string
}

// HelpOption customizes a HelpEngine.
type HelpOption func(*HelpEngine)

// WithFriendAccuracy sets the probability that a friend names the correct letter.
func WithFriendAccuracy(p float64) HelpOption {
	return func(e *HelpEngine) { e.friendAccuracy = clampProbability(p) }
}

// WithAudienceAccuracy sets the probability that the audience favours the correct letter.
func WithAudienceAccuracy(p float64) HelpOption {
	return func(e *HelpEngine) { e.audienceAccuracy = clampProbability(p) }
}

// WithFriends replaces the names used in friend-call hints.
func WithFriends(names ...string) HelpOption {
	return func(e *HelpEngine) {
		if len(names) > 0 {
			e.friends = append([]string(nil), names...)
		}
	}
}

// NewHelpEngine returns an engine drawing from src with the default accuracies.
func NewHelpEngine(src rand.Source, opts ...HelpOption) *HelpEngine {
	e := &HelpEngine{
		rnd:              rand.New(src),
		friendAccuracy:   DefaultFriendAccuracy,
		audienceAccuracy: DefaultAudienceAccuracy,
		friends:          defaultFriends,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply dispatches to the help of the given kind.
func (e *HelpEngine) Apply(q *QuizQuestion, kind domain.HelpKind) error {
	var err error
	switch kind {
	case domain.HelpFiftyFifty:
		_, err = e.FiftyFifty(q)
	case domain.HelpAudience:
		_, err = e.AudienceHelp(q)
	case domain.HelpFriendCall:
		_, err = e.FriendCall(q)
	default:
		err = domain.ErrUnknownHelpKind
	}
	return err
}

// FiftyFifty keeps the correct letter and one random wrong letter.
func (e *HelpEngine) FiftyFifty(q *QuizQuestion) ([]domain.Letter, error) {
	if q.Help.Has(domain.HelpFiftyFifty) {
		return nil, domain.ErrHelpAlreadyUsed
	}
	correct := q.CorrectKey()
	wrong := make([]domain.Letter, 0, len(domain.Letters)-1)
	for _, l := range domain.Letters {
		if l != correct {
			wrong = append(wrong, l)
		}
	}

	e.mu.Lock()
	other := wrong[e.rnd.Intn(len(wrong))]
	e.mu.Unlock()

	pair := []domain.Letter{correct, other}
	q.Help.FiftyFifty = pair
	return append([]domain.Letter(nil), pair...), nil
}

// AudienceHelp simulates a vote over the letters still in play. The
// percentages sum to 100; the correct letter usually leads.
func (e *HelpEngine) AudienceHelp(q *QuizQuestion) (map[domain.Letter]int, error) {
	if q.Help.Has(domain.HelpAudience) {
		return nil, domain.ErrHelpAlreadyUsed
	}
	keys := q.KeysInPlay()
	correct := q.CorrectKey()

	e.mu.Lock()
	weights := make(map[domain.Letter]int, len(keys))
	for _, k := range keys {
		weights[k] = 1 + e.rnd.Intn(30)
	}
	favourite := correct
	if e.rnd.Float64() >= e.audienceAccuracy {
		favourite = keys[e.rnd.Intn(len(keys))]
	}
	weights[favourite] += 40 + e.rnd.Intn(40)
	e.mu.Unlock()

	votes := toPercentages(keys, weights)
	q.Help.AudienceHelp = votes

	out := make(map[domain.Letter]int, len(votes))
	for k, v := range votes {
		out[k] = v
	}
	return out, nil
}

// FriendCall names one letter still in play, the correct one with
// friendAccuracy probability.
func (e *HelpEngine) FriendCall(q *QuizQuestion) (string, error) {
	if q.Help.Has(domain.HelpFriendCall) {
		return "", domain.ErrHelpAlreadyUsed
	}
	keys := q.KeysInPlay()
	correct := q.CorrectKey()

	e.mu.Lock()
	pick := correct
	if e.rnd.Float64() >= e.friendAccuracy {
		others := make([]domain.Letter, 0, len(keys))
		for _, k := range keys {
			if k != correct {
				others = append(others, k)
			}
		}
		if len(others) > 0 {
			pick = others[e.rnd.Intn(len(others))]
		}
	}
	friend := e.friends[e.rnd.Intn(len(e.friends))]
	e.mu.Unlock()

	hint := fmt.Sprintf("%s thinks the right answer is %s", friend, pick.Upper())
	q.Help.FriendCall = hint
	return hint, nil
}

// toPercentages scales weights to integers summing to 100 using the
// largest remainder method; ties go to the earlier letter.
func toPercentages(keys []domain.Letter, weights map[domain.Letter]int) map[domain.Letter]int {
	total := 0
	for _, k := range keys {
		total += weights[k]
	}
	out := make(map[domain.Letter]int, len(keys))
	if total == 0 {
		return out
	}

	type remainder struct {
		key  domain.Letter
		frac int
		pos  int
	}
	rems := make([]remainder, 0, len(keys))
	assigned := 0
	for i, k := range keys {
		scaled := weights[k] * 100
		out[k] = scaled / total
		assigned += out[k]
		rems = append(rems, remainder{key: k, frac: scaled % total, pos: i})
	}
	sort.Slice(rems, func(i, j int) bool {
		if rems[i].frac != rems[j].frac {
			return rems[i].frac > rems[j].frac
		}
		return rems[i].pos < rems[j].pos
	})
	for i := 0; assigned < 100; i++ {
		out[rems[i%len(rems)].key]++
		assigned++
	}
	return out
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
