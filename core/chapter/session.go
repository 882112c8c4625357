package chapter

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

var ErrInvalidSession = errors.New("invalid session file")

// Session is the portable form of a chapter, as exported to and imported from JSON files.
type Session struct {
	Chapter    ChapterDocument `json:"chapter"`
	ExportedAt time.Time       `json:"exported_at"`
}

// MarshalSession encodes doc as an indented session file. The export time is the chapter's
// last update so the same chapter always gives the same bytes.
func MarshalSession(doc ChapterDocument) ([]byte, error) {
	data, err := json.MarshalIndent(Session{Chapter: doc, ExportedAt: doc.UpdatedAt}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding session")
	}
	return data, nil
}

// UnmarshalSession decodes a session file. A bare chapter document (no "chapter" envelope) is
// accepted as well.
func UnmarshalSession(data []byte) (Session, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Session{}, errors.Wrap(ErrInvalidSession, err.Error())
	}

	var sess Session
	if raw, ok := probe["chapter"]; ok && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		if err := json.Unmarshal(data, &sess); err != nil {
			return Session{}, errors.Wrap(ErrInvalidSession, err.Error())
		}
	} else if err := json.Unmarshal(data, &sess.Chapter); err != nil {
		return Session{}, errors.Wrap(ErrInvalidSession, err.Error())
	}
	if !IsSubject(sess.Chapter.Subject) && sess.Chapter.ClassNum == 0 {
		return Session{}, ErrInvalidSession
	}
	sess.Chapter.Parts.Normalize()
	return sess, nil
}
