// Package catalog holds the radio station's content domain: artists, shows,
// genres, recordings, blog posts and projects, together with the shared
// validate-transform-persist-index pipeline their write routes run through.
package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Artist is a performer referenced by recordings.
type Artist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	ObjectID  string             `bson:"objectID,omitempty" json:"objectID,omitempty"`
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Show is a recurring program. Every recording belongs to exactly one show.
type Show struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	ObjectID    string             `bson:"objectID,omitempty" json:"objectID,omitempty"`
	Slug        string             `bson:"slug" json:"slug"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Genre is a music style tag with a display color. Genres are the only
// entity type not mirrored into the search index.
type Genre struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Color     string             `bson:"color" json:"color"`
	Slug      string             `bson:"slug" json:"slug"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Recording is an archived broadcast with its audio and cover image.
type Recording struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Show        primitive.ObjectID   `bson:"show" json:"show"`
	Artists     []primitive.ObjectID `bson:"artists" json:"artists"`
	Genres      []primitive.ObjectID `bson:"genres" json:"genres"`
	Audio       string               `bson:"audio" json:"audio"`
	Image       string               `bson:"image" json:"image"`
	ObjectID    string               `bson:"objectID,omitempty" json:"objectID,omitempty"`
	TimeStart   time.Time            `bson:"timeStart" json:"timeStart"`
	TimeEnd     time.Time            `bson:"timeEnd" json:"timeEnd"`
	Slug        string               `bson:"slug" json:"slug"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// BlogPost is a news entry.
type BlogPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	ObjectID    string             `bson:"objectID,omitempty" json:"objectID,omitempty"`
	Slug        string             `bson:"slug" json:"slug"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Project is a one-off event or collaboration with a time window.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	ObjectID    string             `bson:"objectID,omitempty" json:"objectID,omitempty"`
	TimeStart   time.Time          `bson:"timeStart" json:"timeStart"`
	TimeEnd     time.Time          `bson:"timeEnd" json:"timeEnd"`
	Slug        string             `bson:"slug" json:"slug"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecordingWithGenres is a recording whose genre references are resolved.
// It appears nested inside artist and show detail reads.
type RecordingWithGenres struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Show        primitive.ObjectID   `bson:"show" json:"show"`
	Artists     []primitive.ObjectID `bson:"artists" json:"artists"`
	Genres      []Genre              `bson:"genres" json:"genres"`
	Audio       string               `bson:"audio" json:"audio"`
	Image       string               `bson:"image" json:"image"`
	TimeStart   time.Time            `bson:"timeStart" json:"timeStart"`
	TimeEnd     time.Time            `bson:"timeEnd" json:"timeEnd"`
	Slug        string               `bson:"slug" json:"slug"`
}

// RecordingDetail is a recording with show, artists and genres resolved.
type RecordingDetail struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Show        Show               `bson:"show" json:"show"`
	Artists     []Artist           `bson:"artists" json:"artists"`
	Genres      []Genre            `bson:"genres" json:"genres"`
	Audio       string             `bson:"audio" json:"audio"`
	Image       string             `bson:"image" json:"image"`
	ObjectID    string             `bson:"objectID,omitempty" json:"objectID,omitempty"`
	TimeStart   time.Time          `bson:"timeStart" json:"timeStart"`
	TimeEnd     time.Time          `bson:"timeEnd" json:"timeEnd"`
	Slug        string             `bson:"slug" json:"slug"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ArtistSummary is the artists list shape: each artist with its raw
// recordings attached.
type ArtistSummary struct {
	Artist     `bson:",inline"`
	Recordings []Recording `bson:"recordings" json:"recordings"`
}

// ArtistDetail is a single artist with recordings sorted by window start,
// each with resolved genres.
type ArtistDetail struct {
	ID         primitive.ObjectID    `bson:"_id,omitempty" json:"_id"`
	Title      string                `bson:"title" json:"title"`
	Image      string                `bson:"image,omitempty" json:"image,omitempty"`
	Slug       string                `bson:"slug" json:"slug"`
	Recordings []RecordingWithGenres `bson:"recordings" json:"recordings"`
}

// ShowDetail mirrors ArtistDetail for shows.
type ShowDetail struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"_id"`
	Title       string                `bson:"title" json:"title"`
	Description string                `bson:"description" json:"description"`
	Image       string                `bson:"image,omitempty" json:"image,omitempty"`
	Slug        string                `bson:"slug" json:"slug"`
	Recordings  []RecordingWithGenres `bson:"recordings" json:"recordings"`
}

// GenreDetail is a genre with the recordings tagged with it.
type GenreDetail struct {
	Genre      `bson:",inline"`
	Recordings []Recording `bson:"recordings" json:"recordings"`
}

// DocumentID implements Record.
func (a *Artist) DocumentID() string { return a.ID.Hex() }

// IndexObjectID implements Record.
func (a *Artist) IndexObjectID() string { return a.ObjectID }

// DocumentID implements Record.
func (s *Show) DocumentID() string { return s.ID.Hex() }

// IndexObjectID implements Record.
func (s *Show) IndexObjectID() string { return s.ObjectID }

// DocumentID implements Record.
func (g *Genre) DocumentID() string { return g.ID.Hex() }

// IndexObjectID implements Record. Genres never carry one.
func (g *Genre) IndexObjectID() string { return "" }

// DocumentID implements Record.
func (r *Recording) DocumentID() string { return r.ID.Hex() }

// IndexObjectID implements Record.
func (r *Recording) IndexObjectID() string { return r.ObjectID }

// DocumentID implements Record.
func (b *BlogPost) DocumentID() string { return b.ID.Hex() }

// IndexObjectID implements Record.
func (b *BlogPost) IndexObjectID() string { return b.ObjectID }

// DocumentID implements Record.
func (p *Project) DocumentID() string { return p.ID.Hex() }

// IndexObjectID implements Record.
func (p *Project) IndexObjectID() string { return p.ObjectID }
