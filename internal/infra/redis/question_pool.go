package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"dailyquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// cachedQuestion carries every field across the cache, including the correct
// answer that domain.Question deliberately keeps out of client-facing JSON.
type cachedQuestion struct {
	ID            string            `json:"id"`
	VerseRef      string            `json:"verseRef"`
	Prompt        string            `json:"prompt"`
	Choices       []string          `json:"choices"`
	CorrectAnswer string            `json:"correctAnswer"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	ApprovedAt    time.Time         `json:"approvedAt"`
}

func toCached(q domain.Question) cachedQuestion {
	return cachedQuestion{
		ID:            q.ID,
		VerseRef:      q.VerseRef,
		Prompt:        q.Prompt,
		Choices:       q.Choices,
		CorrectAnswer: q.CorrectAnswer,
		Difficulty:    q.Difficulty,
		ApprovedAt:    q.ApprovedAt,
	}
}

func (c cachedQuestion) toDomain() domain.Question {
	return domain.Question{
		ID:            c.ID,
		VerseRef:      c.VerseRef,
		Prompt:        c.Prompt,
		Choices:       c.Choices,
		CorrectAnswer: c.CorrectAnswer,
		Difficulty:    c.Difficulty,
		ApprovedAt:    c.ApprovedAt,
	}
}

func toCachedList(questions []domain.Question) []cachedQuestion {
	out := make([]cachedQuestion, len(questions))
	for i, q := range questions {
		out[i] = toCached(q)
	}
	return out
}

func toDomainList(cached []cachedQuestion) []domain.Question {
	out := make([]domain.Question, len(cached))
	for i, c := range cached {
		out[i] = c.toDomain()
	}
	return out
}

// PoolLoader fetches questions from the backing store on cache miss.
type PoolLoader interface {
	ListApproved(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Question, error)
}

// QuestionPool caches the approved-question lists in Redis so daily
// composition does not hammer the backing store. Keys:
//
//	SET questions:approved:{difficulty} -> JSON array
//	SET question:{id}                   -> JSON object
//
// The per-question keys are filled as a side effect of list caching and
// serve GetByIDs via MGET.
type QuestionPool struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionPool(client *redis.Client, loader PoolLoader, ttl time.Duration) *QuestionPool {
	return &QuestionPool{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *QuestionPool) ListApproved(ctx context.Context, difficulty domain.Difficulty) ([]domain.Question, error) {
	key := p.listKey(difficulty)

	if raw, err := p.client.Get(ctx, key).Bytes(); err == nil {
		var cached []cachedQuestion
		if err := json.Unmarshal(raw, &cached); err == nil {
			return toDomainList(cached), nil
		}
	}

	result, err, _ := p.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the cache.
		if raw, err := p.client.Get(ctx, key).Bytes(); err == nil {
			var cached []cachedQuestion
			if err := json.Unmarshal(raw, &cached); err == nil {
				return toDomainList(cached), nil
			}
		}

		questions, err := p.loader.ListApproved(ctx, difficulty)
		if err != nil {
			return nil, err
		}

		ttl := p.ttlWithJitter()
		pipe := p.client.Pipeline()
		if raw, err := json.Marshal(toCachedList(questions)); err == nil {
			pipe.Set(ctx, key, raw, ttl)
		}
		for _, q := range questions {
			if raw, err := json.Marshal(toCached(q)); err == nil {
				pipe.Set(ctx, p.questionKey(q.ID), raw, ttl)
			}
		}
		_, _ = pipe.Exec(ctx)

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (p *QuestionPool) GetByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = p.questionKey(id)
	}

	questions := make([]domain.Question, 0, len(ids))
	var missing []string
	values, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		values = make([]interface{}, len(ids))
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var cached cachedQuestion
		if err := json.Unmarshal([]byte(raw), &cached); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		questions = append(questions, cached.toDomain())
	}

	if len(missing) > 0 {
		loaded, err := p.loader.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		ttl := p.ttlWithJitter()
		pipe := p.client.Pipeline()
		for _, q := range loaded {
			if raw, err := json.Marshal(toCached(q)); err == nil {
				pipe.Set(ctx, p.questionKey(q.ID), raw, ttl)
			}
		}
		_, _ = pipe.Exec(ctx)
		questions = append(questions, loaded...)
	}
	return questions, nil
}

func (p *QuestionPool) listKey(difficulty domain.Difficulty) string {
	return "questions:approved:" + string(difficulty)
}

func (p *QuestionPool) questionKey(id string) string {
	return "question:" + id
}

func (p *QuestionPool) ttlWithJitter() time.Duration {
	if p.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(p.ttl) / 10
	return p.ttl + time.Duration(p.rnd.Int63n(jitterMax+1))
}
