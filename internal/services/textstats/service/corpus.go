package service

import (
	"strconv"

	"surveylens/internal/services/textstats/domain"
	survey "surveylens/internal/services/survey/domain"

	"github.com/google/uuid"
)

// DocumentNamespace scopes document ids
var DocumentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:surveylens:document"))

// Corpus implements domain.CorpusPort
type Corpus struct{}

// Documents keeps every response as its own document, in input order
func (Corpus) Documents(rs []survey.Response) []domain.Document {
	out := make([]domain.Document, 0, len(rs))
	for _, r := range rs {
		out = append(out, domain.Document{
			ID:           DocumentID(r.RespondentID, r.Topic, r.Ordinal),
			RespondentID: r.RespondentID,
			District:     r.District,
			Topic:        r.Topic,
			Text:         r.Text,
		})
	}
	return out
}

// DocumentID is a UUIDv5 over respondent, topic and ordinal
func DocumentID(respondent, topic string, ordinal int) string {
	name := respondent + "\x1f" + topic + "\x1f" + strconv.Itoa(ordinal)
	return uuid.NewSHA1(DocumentNamespace, []byte(name)).String()
}
