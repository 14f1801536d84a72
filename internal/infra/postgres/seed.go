package postgres

import (
	"context"

	"github.com/uptrace/bun"

	"millionaire-service/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID          string `bun:"id,pk"`
	Level       int    `bun:"level,notnull"`
	Text        string `bun:"text,notnull"`
	Answer1     string `bun:"answer1,notnull"`
	Answer2     string `bun:"answer2,notnull"`
	Answer3     string `bun:"answer3,notnull"`
	Answer4     string `bun:"answer4,notnull"`
	CorrectSlot int    `bun:"correct_slot,notnull"`
}

// SeedQuestions upserts questions into the bank and returns how many rows were written.
func SeedQuestions(ctx context.Context, db *bun.DB, questions []domain.Question) (int64, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, questionRow{
			ID:          q.ID,
			Level:       q.Level,
			Text:        q.Text,
			Answer1:     q.Answers[0],
			Answer2:     q.Answers[1],
			Answer3:     q.Answers[2],
			Answer4:     q.Answers[3],
			CorrectSlot: q.ResolvedCorrectSlot(),
		})
	}
	res, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("level = EXCLUDED.level").
		Set("text = EXCLUDED.text").
		Set("answer1 = EXCLUDED.answer1").
		Set("answer2 = EXCLUDED.answer2").
		Set("answer3 = EXCLUDED.answer3").
		Set("answer4 = EXCLUDED.answer4").
		Set("correct_slot = EXCLUDED.correct_slot").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
