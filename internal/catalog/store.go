package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the document store for all catalog entities. Relational reads are
// expressed as aggregation pipelines over the per-entity collections.
type Store struct {
	artists    *mongo.Collection
	shows      *mongo.Collection
	genres     *mongo.Collection
	recordings *mongo.Collection
	blogPosts  *mongo.Collection
	projects   *mongo.Collection
}

// NewStore creates a Store over the given database.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		artists:    db.Collection("artists"),
		shows:      db.Collection("shows"),
		genres:     db.Collection("genres"),
		recordings: db.Collection("recordings"),
		blogPosts:  db.Collection("blogs"),
		projects:   db.Collection("projects"),
	}
}

// EnsureIndexes creates the unique title index on every entity collection.
// Duplicate-title writes must fail distinguishably, which requires the
// index to exist before the first insert.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, coll := range []*mongo.Collection{s.artists, s.shows, s.genres, s.blogPosts, s.projects} {
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("creating title index on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// matchIDOrSlug builds the single-record filter. A key that parses as an
// ObjectID is looked up by _id, anything else is treated as a slug.
func matchIDOrSlug(key string) bson.D {
	if oid, err := primitive.ObjectIDFromHex(key); err == nil {
		return bson.D{{Key: "_id", Value: oid}}
	}
	return bson.D{{Key: "slug", Value: key}}
}

func translateWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateTitle
	}
	return err
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc any) error {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return translateWriteErr(err)
	}
	return nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, sort bson.D) ([]T, error) {
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func aggregateAll[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]T, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func aggregateOne[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) (*T, error) {
	out, err := aggregateAll[T](ctx, coll, pipeline)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func findByID[T any](ctx context.Context, coll *mongo.Collection, id string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var out T
	err = coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// updateByID applies a partial field merge and returns the post-update
// document. A title change regenerates the slug; updatedAt is always
// refreshed.
func updateByID[T any](ctx context.Context, coll *mongo.Collection, id string, set bson.M) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if title, ok := set["title"].(string); ok {
		set["slug"] = Slugify(title)
	}
	set["updatedAt"] = time.Now().UTC()

	var out T
	err = coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateWriteErr(err)
	}
	return &out, nil
}

// stampObjectID writes the index objectID onto a stored document without
// touching updatedAt.
func stampObjectID[T any](ctx context.Context, coll *mongo.Collection, id, objectID string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var out T
	err = coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.M{"$set": bson.M{"objectID": objectID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func removeByID(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func lookupStage(from, localField, foreignField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}}}
}

// detailPipeline is the shared artist/show single-read shape: attach the
// entity's recordings sorted by window start, resolve each recording's
// genres, then group the rows back into one document keeping the scalar
// fields via $first.
func detailPipeline(key, foreignField string, firstFields []string) mongo.Pipeline {
	group := bson.D{{Key: "_id", Value: "$_id"}}
	for _, f := range firstFields {
		group = append(group, bson.E{Key: f, Value: bson.D{{Key: "$first", Value: "$" + f}}})
	}
	group = append(group, bson.E{Key: "recordings", Value: bson.D{{Key: "$push", Value: "$recordings"}}})

	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: matchIDOrSlug(key)}},
		lookupStage("recordings", "_id", foreignField, "recordings"),
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$recordings"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "recordings.timeStart", Value: -1}}}},
		lookupStage("genres", "recordings.genres", "_id", "recordings.genres"),
		bson.D{{Key: "$group", Value: group}},
	}
}

// pruneEmptyRecordings drops the placeholder row the preserve-empty unwind
// produces for entities without any recordings.
func pruneEmptyRecordings(recs []RecordingWithGenres) []RecordingWithGenres {
	out := recs[:0]
	for _, r := range recs {
		if !r.ID.IsZero() {
			out = append(out, r)
		}
	}
	return out
}

// --- Artists ---

// CreateArtist inserts a new artist, stamping id, slug and timestamps.
func (s *Store) CreateArtist(ctx context.Context, a *Artist) error {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Slug = Slugify(a.Title)
	a.CreatedAt, a.UpdatedAt = now, now
	return insertOne(ctx, s.artists, a)
}

// ListArtists returns all artists with their recordings attached, sorted by
// slug ascending.
func (s *Store) ListArtists(ctx context.Context) ([]ArtistSummary, error) {
	pipeline := mongo.Pipeline{
		lookupStage("recordings", "_id", "artists", "recordings"),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "slug", Value: 1}}}},
	}
	return aggregateAll[ArtistSummary](ctx, s.artists, pipeline)
}

// GetArtist returns one artist by id or slug with recordings sorted by
// window start and their genres resolved.
func (s *Store) GetArtist(ctx context.Context, key string) (*ArtistDetail, error) {
	detail, err := aggregateOne[ArtistDetail](ctx, s.artists, detailPipeline(key, "artists", []string{"title", "image", "slug"}))
	if err != nil {
		return nil, err
	}
	detail.Recordings = pruneEmptyRecordings(detail.Recordings)
	return detail, nil
}

// FindArtistByID returns the raw artist document.
func (s *Store) FindArtistByID(ctx context.Context, id string) (*Artist, error) {
	return findByID[Artist](ctx, s.artists, id)
}

// UpdateArtist merges the given fields and returns the updated artist.
func (s *Store) UpdateArtist(ctx context.Context, id string, set bson.M) (*Artist, error) {
	return updateByID[Artist](ctx, s.artists, id, set)
}

// StampArtistObjectID persists the search index objectID.
func (s *Store) StampArtistObjectID(ctx context.Context, id, objectID string) (*Artist, error) {
	return stampObjectID[Artist](ctx, s.artists, id, objectID)
}

// DeleteArtist removes the artist document.
func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	return removeByID(ctx, s.artists, id)
}

// --- Shows ---

// CreateShow inserts a new show.
func (s *Store) CreateShow(ctx context.Context, sh *Show) error {
	now := time.Now().UTC()
	sh.ID = primitive.NewObjectID()
	sh.Slug = Slugify(sh.Title)
	sh.CreatedAt, sh.UpdatedAt = now, now
	return insertOne(ctx, s.shows, sh)
}

// ListShows returns all shows sorted by slug ascending.
func (s *Store) ListShows(ctx context.Context) ([]Show, error) {
	return findAll[Show](ctx, s.shows, bson.D{{Key: "slug", Value: 1}})
}

// RecentlyUpdatedShows returns the shows behind the four most recent
// recordings, newest first.
func (s *Store) RecentlyUpdatedShows(ctx context.Context) ([]Show, error) {
	pipeline := mongo.Pipeline{
		lookupStage("shows", "show", "_id", "show"),
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$show"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "timeStart", Value: -1}}}},
		bson.D{{Key: "$limit", Value: 4}},
	}
	rows, err := aggregateAll[struct {
		Show Show `bson:"show"`
	}](ctx, s.recordings, pipeline)
	if err != nil {
		return nil, err
	}
	shows := make([]Show, 0, len(rows))
	for _, row := range rows {
		shows = append(shows, row.Show)
	}
	return shows, nil
}

// GetShow returns one show by id or slug with its recordings resolved.
func (s *Store) GetShow(ctx context.Context, key string) (*ShowDetail, error) {
	detail, err := aggregateOne[ShowDetail](ctx, s.shows, detailPipeline(key, "show", []string{"title", "description", "image", "slug"}))
	if err != nil {
		return nil, err
	}
	detail.Recordings = pruneEmptyRecordings(detail.Recordings)
	return detail, nil
}

// FindShowByID returns the raw show document.
func (s *Store) FindShowByID(ctx context.Context, id string) (*Show, error) {
	return findByID[Show](ctx, s.shows, id)
}

// UpdateShow merges the given fields and returns the updated show.
func (s *Store) UpdateShow(ctx context.Context, id string, set bson.M) (*Show, error) {
	return updateByID[Show](ctx, s.shows, id, set)
}

// StampShowObjectID persists the search index objectID.
func (s *Store) StampShowObjectID(ctx context.Context, id, objectID string) (*Show, error) {
	return stampObjectID[Show](ctx, s.shows, id, objectID)
}

// DeleteShow removes the show document.
func (s *Store) DeleteShow(ctx context.Context, id string) error {
	return removeByID(ctx, s.shows, id)
}

// --- Genres ---

// CreateGenre inserts a new genre.
func (s *Store) CreateGenre(ctx context.Context, g *Genre) error {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.Slug = Slugify(g.Title)
	g.CreatedAt, g.UpdatedAt = now, now
	return insertOne(ctx, s.genres, g)
}

// ListGenres returns all genres, newest id first.
func (s *Store) ListGenres(ctx context.Context) ([]Genre, error) {
	return findAll[Genre](ctx, s.genres, bson.D{{Key: "_id", Value: -1}})
}

// GetGenre returns one genre by id or slug with its recordings attached.
func (s *Store) GetGenre(ctx context.Context, key string) (*GenreDetail, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: matchIDOrSlug(key)}},
		lookupStage("recordings", "_id", "genres", "recordings"),
	}
	return aggregateOne[GenreDetail](ctx, s.genres, pipeline)
}

// FindGenreByID returns the raw genre document.
func (s *Store) FindGenreByID(ctx context.Context, id string) (*Genre, error) {
	return findByID[Genre](ctx, s.genres, id)
}

// UpdateGenre merges the given fields and returns the updated genre.
func (s *Store) UpdateGenre(ctx context.Context, id string, set bson.M) (*Genre, error) {
	return updateByID[Genre](ctx, s.genres, id, set)
}

// DeleteGenre removes the genre document.
func (s *Store) DeleteGenre(ctx context.Context, id string) error {
	return removeByID(ctx, s.genres, id)
}

// --- Recordings ---

// CreateRecording inserts a new recording.
func (s *Store) CreateRecording(ctx context.Context, r *Recording) error {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Slug = Slugify(r.Title)
	r.CreatedAt, r.UpdatedAt = now, now
	return insertOne(ctx, s.recordings, r)
}

// ListRecordings returns all recordings with show, artists and genres
// resolved, sorted by window start descending.
func (s *Store) ListRecordings(ctx context.Context) ([]RecordingDetail, error) {
	return aggregateAll[RecordingDetail](ctx, s.recordings, s.recordingPipeline(nil))
}

// GetRecording returns one recording by id or slug with its references
// resolved.
func (s *Store) GetRecording(ctx context.Context, key string) (*RecordingDetail, error) {
	match := matchIDOrSlug(key)
	return aggregateOne[RecordingDetail](ctx, s.recordings, s.recordingPipeline(&match))
}

func (s *Store) recordingPipeline(match *bson.D) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: *match}})
	}
	pipeline = append(pipeline,
		lookupStage("artists", "artists", "_id", "artists"),
		lookupStage("genres", "genres", "_id", "genres"),
		lookupStage("shows", "show", "_id", "show"),
		bson.D{{Key: "$unwind", Value: "$show"}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "timeStart", Value: -1}}}},
	)
	return pipeline
}

// FindRecordingByID returns the raw recording document.
func (s *Store) FindRecordingByID(ctx context.Context, id string) (*Recording, error) {
	return findByID[Recording](ctx, s.recordings, id)
}

// UpdateRecording merges the given fields and returns the updated recording.
func (s *Store) UpdateRecording(ctx context.Context, id string, set bson.M) (*Recording, error) {
	return updateByID[Recording](ctx, s.recordings, id, set)
}

// StampRecordingObjectID persists the search index objectID.
func (s *Store) StampRecordingObjectID(ctx context.Context, id, objectID string) (*Recording, error) {
	return stampObjectID[Recording](ctx, s.recordings, id, objectID)
}

// DeleteRecording removes the recording document.
func (s *Store) DeleteRecording(ctx context.Context, id string) error {
	return removeByID(ctx, s.recordings, id)
}

// --- Blog posts ---

// CreateBlogPost inserts a new blog post.
func (s *Store) CreateBlogPost(ctx context.Context, b *BlogPost) error {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.Slug = Slugify(b.Title)
	b.CreatedAt, b.UpdatedAt = now, now
	return insertOne(ctx, s.blogPosts, b)
}

// ListBlogPosts returns all blog posts, newest first.
func (s *Store) ListBlogPosts(ctx context.Context) ([]BlogPost, error) {
	return findAll[BlogPost](ctx, s.blogPosts, bson.D{{Key: "createdAt", Value: -1}})
}

// GetBlogPost returns one blog post by id or slug.
func (s *Store) GetBlogPost(ctx context.Context, key string) (*BlogPost, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: matchIDOrSlug(key)}}}
	return aggregateOne[BlogPost](ctx, s.blogPosts, pipeline)
}

// FindBlogPostByID returns the raw blog post document.
func (s *Store) FindBlogPostByID(ctx context.Context, id string) (*BlogPost, error) {
	return findByID[BlogPost](ctx, s.blogPosts, id)
}

// UpdateBlogPost merges the given fields and returns the updated post.
func (s *Store) UpdateBlogPost(ctx context.Context, id string, set bson.M) (*BlogPost, error) {
	return updateByID[BlogPost](ctx, s.blogPosts, id, set)
}

// StampBlogPostObjectID persists the search index objectID.
func (s *Store) StampBlogPostObjectID(ctx context.Context, id, objectID string) (*BlogPost, error) {
	return stampObjectID[BlogPost](ctx, s.blogPosts, id, objectID)
}

// DeleteBlogPost removes the blog post document.
func (s *Store) DeleteBlogPost(ctx context.Context, id string) error {
	return removeByID(ctx, s.blogPosts, id)
}

// --- Projects ---

// CreateProject inserts a new project.
func (s *Store) CreateProject(ctx context.Context, p *Project) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Slug = Slugify(p.Title)
	p.CreatedAt, p.UpdatedAt = now, now
	return insertOne(ctx, s.projects, p)
}

// ListProjects returns all projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	return findAll[Project](ctx, s.projects, bson.D{{Key: "createdAt", Value: -1}})
}

// GetProject returns one project by id or slug.
func (s *Store) GetProject(ctx context.Context, key string) (*Project, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: matchIDOrSlug(key)}}}
	return aggregateOne[Project](ctx, s.projects, pipeline)
}

// FindProjectByID returns the raw project document.
func (s *Store) FindProjectByID(ctx context.Context, id string) (*Project, error) {
	return findByID[Project](ctx, s.projects, id)
}

// UpdateProject merges the given fields and returns the updated project.
func (s *Store) UpdateProject(ctx context.Context, id string, set bson.M) (*Project, error) {
	return updateByID[Project](ctx, s.projects, id, set)
}

// StampProjectObjectID persists the search index objectID.
func (s *Store) StampProjectObjectID(ctx context.Context, id, objectID string) (*Project, error) {
	return stampObjectID[Project](ctx, s.projects, id, objectID)
}

// DeleteProject removes the project document.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return removeByID(ctx, s.projects, id)
}
