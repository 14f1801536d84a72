package http

import (
	"time"

	"millionaire-service/internal/domain"
	"millionaire-service/internal/game"
)

// gameView is what clients see of a game. The letter-to-slot mapping and
// the correct answer of the open question are never sent.
type gameView struct {
	ID             string        `json:"id"`
	PlayerID       string        `json:"playerId"`
	Status         domain.Status `json:"status"`
	CurrentLevel   int           `json:"currentLevel"`
	Prize          int           `json:"prize"`
	NextPrize      int           `json:"nextPrize,omitempty"`
	FireproofPrize int           `json:"fireproofPrize"`
	HelpsUsed      helpsUsedView `json:"helpsUsed"`
	Question       *questionView `json:"question,omitempty"`
	CorrectAnswer  string        `json:"correctAnswer,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	FinishedAt     *time.Time    `json:"finishedAt,omitempty"`
}

type helpsUsedView struct {
	FiftyFifty   bool `json:"fiftyFifty"`
	AudienceHelp bool `json:"audienceHelp"`
	FriendCall   bool `json:"friendCall"`
}

type questionView struct {
	Level    int                      `json:"level"`
	Text     string                   `json:"text"`
	Variants map[domain.Letter]string `json:"variants"`
	Help     domain.HelpState         `json:"help"`
}

func newGameView(s *game.Session, ladder game.Ladder) gameView {
	view := gameView{
		ID:             s.ID,
		PlayerID:       s.PlayerID,
		Status:         s.Status,
		CurrentLevel:   s.CurrentLevel,
		Prize:          s.Prize,
		FireproofPrize: ladder.FireproofPrize(s.CurrentLevel),
		HelpsUsed: helpsUsedView{
			FiftyFifty:   s.FiftyFiftyUsed,
			AudienceHelp: s.AudienceHelpUsed,
			FriendCall:   s.FriendCallUsed,
		},
		CreatedAt:  s.CreatedAt,
		FinishedAt: s.FinishedAt,
	}

	if q := s.CurrentQuestion(); q != nil {
		view.NextPrize = ladder.Prize(s.CurrentLevel + 1)
		variants := q.Variants()
		visible := make(map[domain.Letter]string, len(variants))
		for _, k := range q.KeysInPlay() {
			visible[k] = variants[k]
		}
		view.Question = &questionView{
			Level:    q.Level,
			Text:     q.Text,
			Variants: visible,
			Help:     q.Help,
		}
	} else if s.Status == domain.StatusLost && s.CurrentLevel < len(s.Questions) {
		view.CorrectAnswer = s.Questions[s.CurrentLevel].CorrectAnswer()
	}
	return view
}

type ladderView struct {
	Prizes          []int `json:"prizes"`
	FireproofLevels []int `json:"fireproofLevels"`
}
