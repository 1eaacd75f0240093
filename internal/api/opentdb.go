package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"trivia-app/internal/opentdb"
	"trivia-app/internal/trivia"
)

// questionNamespace scopes the name-based ids derived for OpenTDB questions,
// which carry no id of their own.
var questionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(opentdb.DefaultBaseURL))

type openTDBFetcher struct {
	client *opentdb.Client
}

func (f *openTDBFetcher) fetch(ctx context.Context, amount int) ([]trivia.QuestionRecord, error) {
	raw, err := f.client.FetchQuestions(ctx, amount)
	if err != nil {
		return nil, err
	}
	return RecordsFromOpenTDB(raw), nil
}

// RecordsFromOpenTDB converts raw OpenTDB questions into records, keeping the
// text as delivered (HTML entities included) and assigning stable ids.
func RecordsFromOpenTDB(raw []opentdb.RawQuestion) []trivia.QuestionRecord {
	records := make([]trivia.QuestionRecord, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for idx, item := range raw {
		id := questionID(item, "")
		if _, dup := seen[id]; dup {
			id = questionID(item, strconv.Itoa(idx))
		}
		seen[id] = struct{}{}

		incorrect := make([]string, len(item.IncorrectAnswers))
		copy(incorrect, item.IncorrectAnswers)

		records = append(records, trivia.QuestionRecord{
			ID:               id,
			Question:         item.Question,
			CorrectAnswer:    item.CorrectAnswer,
			IncorrectAnswers: incorrect,
			Category:         item.Category,
			Difficulty:       item.Difficulty,
			Type:             item.Type,
		})
	}
	return records
}

func questionID(item opentdb.RawQuestion, salt string) string {
	var key strings.Builder
	key.WriteString(item.Question)
	key.WriteString("|")
	key.WriteString(item.CorrectAnswer)
	for _, answer := range item.IncorrectAnswers {
		key.WriteString("|")
		key.WriteString(answer)
	}
	if salt != "" {
		key.WriteString("#")
		key.WriteString(salt)
	}
	return uuid.NewSHA1(questionNamespace, []byte(key.String())).String()
}
