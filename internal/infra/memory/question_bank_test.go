package memory

import (
	"context"
	"errors"
	"testing"

	"resident-lockdown/internal/domain"
)

func TestQuestionBankLoadsOnce(t *testing.T) {
	loader := &countingLoader{QuestionLoader: NewDefaultQuestionLoader()}
	bank := NewQuestionBank(loader)

	qs, err := bank.Questions(context.Background(), 1)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(qs) != 10 {
		t.Fatalf("expected 10 level 1 questions, got %d", len(qs))
	}
	if _, err := bank.Questions(context.Background(), 1); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}
}

func TestQuestionBankAddDelete(t *testing.T) {
	ctx := context.Background()
	bank := NewQuestionBank(NewDefaultQuestionLoader())

	before, _ := bank.Questions(ctx, 2)
	q := domain.Question{ID: "x1", Prompt: "2+2?", Options: []string{"3", "4"}, Correct: 1}
	if _, err := bank.Add(ctx, 2, q); err != nil {
		t.Fatalf("add: %v", err)
	}
	after, _ := bank.Questions(ctx, 2)
	if len(after) != len(before)+1 || after[len(after)-1].ID != "x1" {
		t.Fatalf("expected x1 appended, got %+v", after)
	}

	if err := bank.Delete(ctx, 2, "x1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := bank.Delete(ctx, 2, "x1"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	// the earlier copy is not affected by edits
	if len(after) != len(before)+1 {
		t.Fatalf("snapshot changed under edit: %d", len(after))
	}
}

func TestQuestionBankRejectsUnknownLevel(t *testing.T) {
	bank := NewQuestionBank(NewDefaultQuestionLoader())
	if _, err := bank.Questions(context.Background(), 3); !errors.Is(err, domain.ErrInvalidLevel) {
		t.Fatalf("expected invalid level, got %v", err)
	}
}

func TestDefaultQuestionsAreValid(t *testing.T) {
	for _, q := range append(DefaultLevel1Questions(), DefaultLevel2Questions()...) {
		if !q.Valid() {
			t.Fatalf("question %s is not valid", q.ID)
		}
	}
}

type countingLoader struct {
	QuestionLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context, level int) ([]domain.Question, error) {
	l.calls++
	return l.QuestionLoader.LoadQuestions(ctx, level)
}
