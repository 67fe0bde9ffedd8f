package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/radiorasclat/api/internal/auth"
	"github.com/radiorasclat/api/internal/catalog"
	"github.com/radiorasclat/api/internal/radio"
	"github.com/radiorasclat/api/internal/tokenstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStore satisfies Store through optional per-method hooks. A nil hook
// answers with the zero value and no error, except the Find hooks which
// default to not-found so delete paths fail loudly when unconfigured.
type fakeStore struct {
	listArtists  func(ctx context.Context) ([]catalog.ArtistSummary, error)
	getArtist    func(ctx context.Context, key string) (*catalog.ArtistDetail, error)
	createArtist func(ctx context.Context, a *catalog.Artist) error
	findArtist   func(ctx context.Context, id string) (*catalog.Artist, error)
	updateArtist func(ctx context.Context, id string, set bson.M) (*catalog.Artist, error)
	stampArtist  func(ctx context.Context, id, objectID string) (*catalog.Artist, error)
	deleteArtist func(ctx context.Context, id string) error

	listShows      func(ctx context.Context) ([]catalog.Show, error)
	recentShows    func(ctx context.Context) ([]catalog.Show, error)
	getGenre       func(ctx context.Context, key string) (*catalog.GenreDetail, error)
	createGenre    func(ctx context.Context, g *catalog.Genre) error
	listRecordings func(ctx context.Context) ([]catalog.RecordingDetail, error)
}

func (f *fakeStore) CreateArtist(ctx context.Context, a *catalog.Artist) error {
	if f.createArtist != nil {
		return f.createArtist(ctx, a)
	}
	return nil
}

func (f *fakeStore) ListArtists(ctx context.Context) ([]catalog.ArtistSummary, error) {
	if f.listArtists != nil {
		return f.listArtists(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetArtist(ctx context.Context, key string) (*catalog.ArtistDetail, error) {
	if f.getArtist != nil {
		return f.getArtist(ctx, key)
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) FindArtistByID(ctx context.Context, id string) (*catalog.Artist, error) {
	if f.findArtist != nil {
		return f.findArtist(ctx, id)
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) UpdateArtist(ctx context.Context, id string, set bson.M) (*catalog.Artist, error) {
	if f.updateArtist != nil {
		return f.updateArtist(ctx, id, set)
	}
	return &catalog.Artist{}, nil
}

func (f *fakeStore) StampArtistObjectID(ctx context.Context, id, objectID string) (*catalog.Artist, error) {
	if f.stampArtist != nil {
		return f.stampArtist(ctx, id, objectID)
	}
	return &catalog.Artist{ObjectID: objectID}, nil
}

func (f *fakeStore) DeleteArtist(ctx context.Context, id string) error {
	if f.deleteArtist != nil {
		return f.deleteArtist(ctx, id)
	}
	return nil
}

func (f *fakeStore) CreateShow(context.Context, *catalog.Show) error { return nil }

func (f *fakeStore) ListShows(ctx context.Context) ([]catalog.Show, error) {
	if f.listShows != nil {
		return f.listShows(ctx)
	}
	return nil, nil
}

func (f *fakeStore) RecentlyUpdatedShows(ctx context.Context) ([]catalog.Show, error) {
	if f.recentShows != nil {
		return f.recentShows(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetShow(context.Context, string) (*catalog.ShowDetail, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) FindShowByID(context.Context, string) (*catalog.Show, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) UpdateShow(context.Context, string, bson.M) (*catalog.Show, error) {
	return &catalog.Show{}, nil
}

func (f *fakeStore) StampShowObjectID(_ context.Context, _, objectID string) (*catalog.Show, error) {
	return &catalog.Show{ObjectID: objectID}, nil
}

func (f *fakeStore) DeleteShow(context.Context, string) error { return nil }

func (f *fakeStore) CreateGenre(ctx context.Context, g *catalog.Genre) error {
	if f.createGenre != nil {
		return f.createGenre(ctx, g)
	}
	return nil
}

func (f *fakeStore) ListGenres(context.Context) ([]catalog.Genre, error) { return nil, nil }

func (f *fakeStore) GetGenre(ctx context.Context, key string) (*catalog.GenreDetail, error) {
	if f.getGenre != nil {
		return f.getGenre(ctx, key)
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) FindGenreByID(context.Context, string) (*catalog.Genre, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) UpdateGenre(context.Context, string, bson.M) (*catalog.Genre, error) {
	return &catalog.Genre{}, nil
}

func (f *fakeStore) DeleteGenre(context.Context, string) error { return nil }

func (f *fakeStore) CreateRecording(context.Context, *catalog.Recording) error { return nil }

func (f *fakeStore) ListRecordings(ctx context.Context) ([]catalog.RecordingDetail, error) {
	if f.listRecordings != nil {
		return f.listRecordings(ctx)
	}
	return nil, nil
}

func (f *fakeStore) GetRecording(context.Context, string) (*catalog.RecordingDetail, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) FindRecordingByID(context.Context, string) (*catalog.Recording, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) UpdateRecording(context.Context, string, bson.M) (*catalog.Recording, error) {
	return &catalog.Recording{}, nil
}

func (f *fakeStore) StampRecordingObjectID(_ context.Context, _, objectID string) (*catalog.Recording, error) {
	return &catalog.Recording{ObjectID: objectID}, nil
}

func (f *fakeStore) DeleteRecording(context.Context, string) error { return nil }

func (f *fakeStore) CreateBlogPost(context.Context, *catalog.BlogPost) error { return nil }

func (f *fakeStore) ListBlogPosts(context.Context) ([]catalog.BlogPost, error) { return nil, nil }

func (f *fakeStore) GetBlogPost(context.Context, string) (*catalog.BlogPost, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) FindBlogPostByID(context.Context, string) (*catalog.BlogPost, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) UpdateBlogPost(context.Context, string, bson.M) (*catalog.BlogPost, error) {
	return &catalog.BlogPost{}, nil
}

func (f *fakeStore) StampBlogPostObjectID(_ context.Context, _, objectID string) (*catalog.BlogPost, error) {
	return &catalog.BlogPost{ObjectID: objectID}, nil
}

func (f *fakeStore) DeleteBlogPost(context.Context, string) error { return nil }

func (f *fakeStore) CreateProject(context.Context, *catalog.Project) error { return nil }

func (f *fakeStore) ListProjects(context.Context) ([]catalog.Project, error) { return nil, nil }

func (f *fakeStore) GetProject(context.Context, string) (*catalog.Project, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) FindProjectByID(context.Context, string) (*catalog.Project, error) {
	return nil, catalog.ErrNotFound
}

func (f *fakeStore) UpdateProject(context.Context, string, bson.M) (*catalog.Project, error) {
	return &catalog.Project{}, nil
}

func (f *fakeStore) StampProjectObjectID(_ context.Context, _, objectID string) (*catalog.Project, error) {
	return &catalog.Project{ObjectID: objectID}, nil
}

func (f *fakeStore) DeleteProject(context.Context, string) error { return nil }

type fakeBlob struct {
	puts []string
	fail bool
}

func (f *fakeBlob) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	if f.fail {
		return "", context.DeadlineExceeded
	}
	f.puts = append(f.puts, key)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeBlob) Delete(context.Context, string) error { return nil }

type fakeIndex struct {
	added   int
	deleted []string
}

func (f *fakeIndex) Add(context.Context, any) (string, error) {
	f.added++
	return "obj-1", nil
}

func (f *fakeIndex) Save(context.Context, any) error { return nil }

func (f *fakeIndex) Delete(_ context.Context, objectID string) error {
	f.deleted = append(f.deleted, objectID)
	return nil
}

func (f *fakeIndex) Clear(context.Context) error { return nil }

type fakeRadio struct {
	info *radio.LiveInfo
	week json.RawMessage
	err  error
}

func (f *fakeRadio) LiveInfo(context.Context) (*radio.LiveInfo, error) {
	return f.info, f.err
}

func (f *fakeRadio) Schedule(context.Context) (json.RawMessage, error) {
	return f.week, f.err
}

type fakeReleases struct {
	body json.RawMessage
	repo string
}

func (f *fakeReleases) Releases(_ context.Context, repo string) (json.RawMessage, error) {
	f.repo = repo
	return f.body, nil
}

type fakeRaw struct {
	body json.RawMessage
	err  error
}

func (f *fakeRaw) Languages(context.Context) (json.RawMessage, error) { return f.body, f.err }

func (f *fakeRaw) Monitors(context.Context) (json.RawMessage, error) { return f.body, f.err }

type routerFixture struct {
	handler http.Handler
	token   string
	store   *fakeStore
	blob    *fakeBlob
	index   *fakeIndex
	radio   *fakeRadio
	rels    *fakeReleases
}

func newTestRouter(t *testing.T, store *fakeStore) *routerFixture {
	t.Helper()
	if store == nil {
		store = &fakeStore{}
	}
	signer, err := auth.NewSigner([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	token, err := signer.Sign("admin")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	blob := &fakeBlob{}
	index := &fakeIndex{}
	fr := &fakeRadio{}
	rels := &fakeReleases{body: json.RawMessage(`[]`)}

	rt := NewRouter(RouterDeps{
		Store:       store,
		AuthService: auth.NewService(nil, tokenstore.NewMemory(), signer),
		Verifier:    signer,
		Radio:       fr,
		Changelog:   rels,
		Translate:   &fakeRaw{body: json.RawMessage(`{"success":true}`)},
		Uptime:      &fakeRaw{body: json.RawMessage(`{"stat":"ok"}`)},
		Blob:        blob,
		Indexes: Indexes{
			Artists:    index,
			Shows:      index,
			Recordings: index,
			BlogPosts:  index,
			Projects:   index,
		},
		UploadKey: func(category, filename string) string {
			return "20190401/" + category + "/" + filename
		},
		Logger: testLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &routerFixture{
		handler: rt.Handler(ctx),
		token:   token,
		store:   store,
		blob:    blob,
		index:   index,
		radio:   fr,
		rels:    rels,
	}
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decoding response %q: %v", body, err)
	}
	return v
}
