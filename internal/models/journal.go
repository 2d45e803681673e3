package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mood is the feeling a journal entry is tagged with.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodNeutral Mood = "neutral"
	MoodExcited Mood = "excited"
	MoodAnxious Mood = "anxious"
	MoodTired   Mood = "tired"
	MoodCalm    Mood = "calm"
)

// Moods lists every accepted mood in display order.
var Moods = []Mood{MoodHappy, MoodSad, MoodAngry, MoodNeutral, MoodExcited, MoodAnxious, MoodTired, MoodCalm}

// Valid reports whether m is one of the fixed moods.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if m == v {
			return true
		}
	}
	return false
}

// PlaceholderOwnerID is stored as the owner of entries created without an identity.
const PlaceholderOwnerID = "temp-user-id"

// Entry is a single journal entry as stored in the "journal_entries" collection.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title" validate:"required,min=3,max=100"`
	Content   string             `bson:"content" json:"content" validate:"required,min=10"`
	Mood      Mood               `bson:"mood" json:"mood" validate:"required,mood"`
	Date      time.Time          `bson:"date" json:"date" validate:"required"`
	Tags      []string           `bson:"tags" json:"tags" validate:"dive,required,max=50"`
	IsPrivate bool               `bson:"is_private" json:"isPrivate"`
	OwnerID   string             `bson:"owner_id" json:"ownerId" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// EntryDraft is the payload of a create request. Absent optional fields get
// their defaults in Build.
type EntryDraft struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Mood      Mood       `json:"mood,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	IsPrivate *bool      `json:"isPrivate,omitempty"`

	// OwnerID is attached by the service, never decoded from a body.
	OwnerID string `json:"-"`
}

// Build turns the draft into an entry, applying the create defaults:
// mood neutral, date now, no tags, private.
func (d EntryDraft) Build(now time.Time) Entry {
	now = StoreTime(now)
	e := Entry{
		Title:     d.Title,
		Content:   d.Content,
		Mood:      d.Mood,
		Date:      now,
		Tags:      []string{},
		IsPrivate: true,
		OwnerID:   d.OwnerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if e.Mood == "" {
		e.Mood = MoodNeutral
	}
	if d.Date != nil && !d.Date.IsZero() {
		e.Date = StoreTime(*d.Date)
	}
	if d.Tags != nil {
		e.Tags = append([]string{}, d.Tags...)
	}
	if d.IsPrivate != nil {
		e.IsPrivate = *d.IsPrivate
	}
	return e
}

// EntryPatch is the payload of an update request. A nil field means
// "leave unchanged"; id, owner and creation time cannot be patched.
type EntryPatch struct {
	Title     *string    `json:"title,omitempty"`
	Content   *string    `json:"content,omitempty"`
	Mood      *Mood      `json:"mood,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
	Tags      *[]string  `json:"tags,omitempty"`
	IsPrivate *bool      `json:"isPrivate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Mood == nil &&
		p.Date == nil && p.Tags == nil && p.IsPrivate == nil
}

// ApplyTo returns a copy of e with the supplied fields replaced.
func (p EntryPatch) ApplyTo(e Entry) Entry {
	out := e
	out.Tags = append([]string{}, e.Tags...)
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Mood != nil {
		out.Mood = *p.Mood
	}
	if p.Date != nil {
		out.Date = StoreTime(*p.Date)
	}
	if p.Tags != nil {
		out.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.IsPrivate != nil {
		out.IsPrivate = *p.IsPrivate
	}
	return out
}

// StoreTime normalizes t to what MongoDB keeps: UTC, millisecond precision.
func StoreTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
