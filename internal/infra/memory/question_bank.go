package memory

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"resident-lockdown/internal/domain"
)

// QuestionLoader fetches a level's question sequence from a backing store (e.g., Postgres).
type QuestionLoader interface {
	LoadQuestions(ctx context.Context, level int) ([]domain.Question, error)
}

// QuestionBank holds the editable question sequence of each level. A level is loaded from the
// loader on first use and kept in memory from then on; admin edits are not written back.
type QuestionBank struct {
	loader QuestionLoader
	sf     singleflight.Group

	mu     sync.RWMutex
	levels map[int][]domain.Question
}

func NewQuestionBank(loader QuestionLoader) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		levels: make(map[int][]domain.Question),
	}
}

// Questions returns a copy of the level's current sequence.
func (b *QuestionBank) Questions(ctx context.Context, level int) ([]domain.Question, error) {
	if err := b.ensure(ctx, level); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]domain.Question{}, b.levels[level]...), nil
}

func (b *QuestionBank) Add(ctx context.Context, level int, q domain.Question) (domain.Question, error) {
	if err := b.ensure(ctx, level); err != nil {
		return domain.Question{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.levels[level] = append(b.levels[level], q)
	return q, nil
}

func (b *QuestionBank) Delete(ctx context.Context, level int, id string) error {
	if err := b.ensure(ctx, level); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	qs := b.levels[level]
	for i := range qs {
		if qs[i].ID == id {
			// copy so snapshots handed out earlier keep their contents
			next := make([]domain.Question, 0, len(qs)-1)
			next = append(next, qs[:i]...)
			b.levels[level] = append(next, qs[i+1:]...)
			return nil
		}
	}
	return domain.ErrQuestionNotFound
}

func (b *QuestionBank) ensure(ctx context.Context, level int) error {
	if level != 1 && level != 2 {
		return domain.ErrInvalidLevel
	}
	b.mu.RLock()
	_, ok := b.levels[level]
	b.mu.RUnlock()
	if ok {
		return nil
	}

	_, err, _ := b.sf.Do(strconv.Itoa(level), func() (interface{}, error) {
		b.mu.RLock()
		_, ok := b.levels[level]
		b.mu.RUnlock()
		if ok {
			return nil, nil
		}

		qs, err := b.loader.LoadQuestions(ctx, level)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		if _, ok := b.levels[level]; !ok {
			b.levels[level] = append([]domain.Question{}, qs...)
		}
		b.mu.Unlock()
		return nil, nil
	})
	return err
}

// StaticQuestionLoader serves fixed per-level sequences (useful for tests/demos).
type StaticQuestionLoader struct {
	levels map[int][]domain.Question
}

func NewStaticQuestionLoader(levels map[int][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{levels: levels}
}

// NewDefaultQuestionLoader serves the built-in riddles.
func NewDefaultQuestionLoader() *StaticQuestionLoader {
	return NewStaticQuestionLoader(map[int][]domain.Question{
		1: DefaultLevel1Questions(),
		2: DefaultLevel2Questions(),
	})
}

func (l *StaticQuestionLoader) LoadQuestions(_ context.Context, level int) ([]domain.Question, error) {
	return append([]domain.Question{}, l.levels[level]...), nil
}
