package recording

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prossm/basic-web-tts/pkg/voice"

	"github.com/google/uuid"
)

var (
	ErrUnavailable = errors.New("recording store unavailable")
	ErrNotFound    = errors.New("recording not found")
)

// Recording is the stored metadata of one synthesis event. Owned records are
// keyed by output identity so repeated identical requests overwrite one
// document; anonymous records get a random key.
type Recording struct {
	ID string `bson:"id" json:"id"`

	Voice      string   `bson:"voice" json:"voice"`
	VoiceLower string   `bson:"voiceLower" json:"-"`
	Text       string   `bson:"text" json:"text"`
	TextWords  []string `bson:"textWords" json:"-"`

	Created  int64    `bson:"created" json:"created"`
	AudioURL string   `bson:"audioUrl" json:"audioUrl"`
	Duration *float64 `bson:"duration" json:"duration"`

	Owner     string `bson:"owner,omitempty" json:"-"`
	Anonymous bool   `bson:"anonymous,omitempty" json:"-"`
	Deleted   bool   `bson:"deleted" json:"-"`
}

func New(owner, voiceName, text, audioURL string, duration *float64) Recording {
	rec := Recording{
		Voice:      voiceName,
		VoiceLower: strings.ToLower(voiceName),
		Text:       text,
		TextWords:  voice.Tokens(text),

		Created:  time.Now().Unix(),
		AudioURL: audioURL,
		Duration: duration,

		Owner:     owner,
		Anonymous: owner == "",
	}

	if owner != "" {
		rec.ID = voice.OutputIdentity(voiceName, text)
	} else {
		rec.ID = uuid.NewString()
	}

	return rec
}

// Profile is an owner's account document.
type Profile struct {
	Subject string `bson:"_id" json:"subject"`
	Email   string `bson:"email" json:"email"`

	Superuser bool `bson:"superuser" json:"superuser"`
}

type Store interface {
	Put(ctx context.Context, rec Recording) error
	List(ctx context.Context, owner string) ([]Recording, error)
	SoftDelete(ctx context.Context, owner, id string) error

	ListAnonymous(ctx context.Context) ([]Recording, error)

	Profiles(ctx context.Context) ([]Profile, error)
	Profile(ctx context.Context, subject string) (*Profile, error)
	EnsureProfile(ctx context.Context, subject, email string) error
}
