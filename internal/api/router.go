package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/radiorasclat/api/internal/api/middleware"
	"github.com/radiorasclat/api/internal/auth"
	"github.com/radiorasclat/api/internal/catalog"
	"github.com/radiorasclat/api/internal/changelog"
	"github.com/radiorasclat/api/internal/errtrack"
	"github.com/radiorasclat/api/internal/radio"
)

// Store is the catalog persistence surface the handlers work against.
type Store interface {
	CreateArtist(ctx context.Context, a *catalog.Artist) error
	ListArtists(ctx context.Context) ([]catalog.ArtistSummary, error)
	GetArtist(ctx context.Context, key string) (*catalog.ArtistDetail, error)
	FindArtistByID(ctx context.Context, id string) (*catalog.Artist, error)
	UpdateArtist(ctx context.Context, id string, set bson.M) (*catalog.Artist, error)
	StampArtistObjectID(ctx context.Context, id, objectID string) (*catalog.Artist, error)
	DeleteArtist(ctx context.Context, id string) error

	CreateShow(ctx context.Context, s *catalog.Show) error
	ListShows(ctx context.Context) ([]catalog.Show, error)
	RecentlyUpdatedShows(ctx context.Context) ([]catalog.Show, error)
	GetShow(ctx context.Context, key string) (*catalog.ShowDetail, error)
	FindShowByID(ctx context.Context, id string) (*catalog.Show, error)
	UpdateShow(ctx context.Context, id string, set bson.M) (*catalog.Show, error)
	StampShowObjectID(ctx context.Context, id, objectID string) (*catalog.Show, error)
	DeleteShow(ctx context.Context, id string) error

	CreateGenre(ctx context.Context, g *catalog.Genre) error
	ListGenres(ctx context.Context) ([]catalog.Genre, error)
	GetGenre(ctx context.Context, key string) (*catalog.GenreDetail, error)
	FindGenreByID(ctx context.Context, id string) (*catalog.Genre, error)
	UpdateGenre(ctx context.Context, id string, set bson.M) (*catalog.Genre, error)
	DeleteGenre(ctx context.Context, id string) error

	CreateRecording(ctx context.Context, r *catalog.Recording) error
	ListRecordings(ctx context.Context) ([]catalog.RecordingDetail, error)
	GetRecording(ctx context.Context, key string) (*catalog.RecordingDetail, error)
	FindRecordingByID(ctx context.Context, id string) (*catalog.Recording, error)
	UpdateRecording(ctx context.Context, id string, set bson.M) (*catalog.Recording, error)
	StampRecordingObjectID(ctx context.Context, id, objectID string) (*catalog.Recording, error)
	DeleteRecording(ctx context.Context, id string) error

	CreateBlogPost(ctx context.Context, b *catalog.BlogPost) error
	ListBlogPosts(ctx context.Context) ([]catalog.BlogPost, error)
	GetBlogPost(ctx context.Context, key string) (*catalog.BlogPost, error)
	FindBlogPostByID(ctx context.Context, id string) (*catalog.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, set bson.M) (*catalog.BlogPost, error)
	StampBlogPostObjectID(ctx context.Context, id, objectID string) (*catalog.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error

	CreateProject(ctx context.Context, p *catalog.Project) error
	ListProjects(ctx context.Context) ([]catalog.Project, error)
	GetProject(ctx context.Context, key string) (*catalog.Project, error)
	FindProjectByID(ctx context.Context, id string) (*catalog.Project, error)
	UpdateProject(ctx context.Context, id string, set bson.M) (*catalog.Project, error)
	StampProjectObjectID(ctx context.Context, id, objectID string) (*catalog.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// RadioSource reads live playout metadata.
type RadioSource interface {
	LiveInfo(ctx context.Context) (*radio.LiveInfo, error)
	Schedule(ctx context.Context) (json.RawMessage, error)
}

// ReleaseSource reads repository release lists.
type ReleaseSource interface {
	Releases(ctx context.Context, repo string) (json.RawMessage, error)
}

// LanguageSource reads translation progress.
type LanguageSource interface {
	Languages(ctx context.Context) (json.RawMessage, error)
}

// StatusSource reads uptime monitor states.
type StatusSource interface {
	Monitors(ctx context.Context) (json.RawMessage, error)
}

// Indexes bundles the per-entity search indexes. Genres are deliberately
// not indexed.
type Indexes struct {
	Artists    catalog.Index
	Shows      catalog.Index
	Recordings catalog.Index
	BlogPosts  catalog.Index
	Projects   catalog.Index
}

// RouterDeps bundles all dependencies needed by the HTTP router.
type RouterDeps struct {
	Store       Store
	AuthService *auth.Service
	Verifier    middleware.Verifier
	Radio       RadioSource
	Changelog   ReleaseSource
	Translate   LanguageSource
	Uptime      StatusSource
	Blob        catalog.BlobStore
	Indexes     Indexes
	Transformer catalog.ImageTransformer
	Sink        errtrack.Sink
	UploadKey   func(category, filename string) string
	Logger      *slog.Logger
	BasePath    string
}

// Router sets up all HTTP routes for the application.
type Router struct {
	store       Store
	authService *auth.Service
	verifier    middleware.Verifier
	radio       RadioSource
	changelog   ReleaseSource
	translate   LanguageSource
	uptime      StatusSource
	sink        errtrack.Sink
	logger      *slog.Logger
	basePath    string

	artists    *catalog.Pipeline
	shows      *catalog.Pipeline
	genres     *catalog.Pipeline
	recordings *catalog.Pipeline
	blogPosts  *catalog.Pipeline
	projects   *catalog.Pipeline
}

// NewRouter creates a new Router with the per-entity write pipelines wired.
func NewRouter(deps RouterDeps) *Router {
	sink := deps.Sink
	if sink == nil {
		sink = errtrack.Nop{}
	}
	return &Router{
		store:       deps.Store,
		authService: deps.AuthService,
		verifier:    deps.Verifier,
		radio:       deps.Radio,
		changelog:   deps.Changelog,
		translate:   deps.Translate,
		uptime:      deps.Uptime,
		sink:        sink,
		logger:      deps.Logger,
		basePath:    deps.BasePath,

		artists:    catalog.NewPipeline(catalog.ArtistRules, deps.Transformer, deps.Blob, deps.Indexes.Artists, sink, deps.UploadKey),
		shows:      catalog.NewPipeline(catalog.ShowRules, deps.Transformer, deps.Blob, deps.Indexes.Shows, sink, deps.UploadKey),
		genres:     catalog.NewPipeline(catalog.GenreRules, nil, nil, nil, sink, deps.UploadKey),
		recordings: catalog.NewPipeline(catalog.RecordingRules, deps.Transformer, deps.Blob, deps.Indexes.Recordings, sink, deps.UploadKey),
		// Blog and project images upload unresized, matching the legacy
		// write path, but the filename still turns into .jpg.
		blogPosts: catalog.NewPipeline(catalog.BlogPostRules, nil, deps.Blob, deps.Indexes.BlogPosts, sink, deps.UploadKey),
		projects:  catalog.NewPipeline(catalog.ProjectRules, nil, deps.Blob, deps.Indexes.Projects, sink, deps.UploadKey),
	}
}

// Handler returns the fully configured HTTP handler with middleware applied.
func (rt *Router) Handler(ctx context.Context) http.Handler {
	authMw := middleware.Auth(rt.verifier)
	loginLimiter := middleware.NewLoginRateLimiter(ctx)
	recordingsCache := middleware.Cache(30 * time.Second)
	mux := http.NewServeMux()
	bp := rt.basePath

	mux.HandleFunc("GET "+bp+"/health", rt.handleHealth)

	// Auth
	mux.Handle("POST "+bp+"/auth/login", loginLimiter.Middleware(http.HandlerFunc(rt.handleLogin)))
	mux.HandleFunc("POST "+bp+"/auth/logout", rt.handleLogout)
	mux.HandleFunc("POST "+bp+"/auth/refresh-token", rt.handleRefreshToken)

	// Artists
	mux.HandleFunc("GET "+bp+"/artists", rt.handleListArtists)
	mux.HandleFunc("GET "+bp+"/artists/artist/{id}", rt.handleGetArtist)
	mux.HandleFunc("POST "+bp+"/artists", wrapAuth(rt.handleCreateArtist, authMw))
	mux.HandleFunc("PUT "+bp+"/artists/update", wrapAuth(rt.handleUpdateArtist, authMw))
	mux.HandleFunc("DELETE "+bp+"/artists/delete", wrapAuth(rt.handleDeleteArtist, authMw))

	// Shows
	mux.HandleFunc("GET "+bp+"/shows", rt.handleListShows)
	mux.HandleFunc("GET "+bp+"/shows/recently-updated", rt.handleRecentlyUpdatedShows)
	mux.HandleFunc("GET "+bp+"/shows/show/{id}", rt.handleGetShow)
	mux.HandleFunc("POST "+bp+"/shows", wrapAuth(rt.handleCreateShow, authMw))
	mux.HandleFunc("PUT "+bp+"/shows/update", wrapAuth(rt.handleUpdateShow, authMw))
	mux.HandleFunc("DELETE "+bp+"/shows/delete", wrapAuth(rt.handleDeleteShow, authMw))

	// Genres
	mux.HandleFunc("GET "+bp+"/genres", rt.handleListGenres)
	mux.HandleFunc("GET "+bp+"/genres/genre/{id}", rt.handleGetGenre)
	mux.HandleFunc("POST "+bp+"/genres", wrapAuth(rt.handleCreateGenre, authMw))
	mux.HandleFunc("PUT "+bp+"/genres/update", wrapAuth(rt.handleUpdateGenre, authMw))
	mux.HandleFunc("DELETE "+bp+"/genres/delete", wrapAuth(rt.handleDeleteGenre, authMw))

	// Recordings
	mux.Handle("GET "+bp+"/recordings", recordingsCache(http.HandlerFunc(rt.handleListRecordings)))
	mux.HandleFunc("GET "+bp+"/recordings/recording/{id}", rt.handleGetRecording)
	mux.HandleFunc("POST "+bp+"/recordings", wrapAuth(rt.handleCreateRecording, authMw))
	mux.HandleFunc("PUT "+bp+"/recordings/update", wrapAuth(rt.handleUpdateRecording, authMw))
	mux.HandleFunc("DELETE "+bp+"/recordings/delete", wrapAuth(rt.handleDeleteRecording, authMw))

	// Blog
	mux.HandleFunc("GET "+bp+"/blog/posts", rt.handleListBlogPosts)
	mux.HandleFunc("GET "+bp+"/blog/post/{id}", rt.handleGetBlogPost)
	mux.HandleFunc("POST "+bp+"/blog", wrapAuth(rt.handleCreateBlogPost, authMw))
	mux.HandleFunc("PUT "+bp+"/blog/update", wrapAuth(rt.handleUpdateBlogPost, authMw))
	mux.HandleFunc("DELETE "+bp+"/blog/delete", wrapAuth(rt.handleDeleteBlogPost, authMw))

	// Projects
	mux.HandleFunc("GET "+bp+"/projects", rt.handleListProjects)
	mux.HandleFunc("GET "+bp+"/projects/project/{id}", rt.handleGetProject)
	mux.HandleFunc("POST "+bp+"/projects", wrapAuth(rt.handleCreateProject, authMw))
	mux.HandleFunc("PUT "+bp+"/projects/update", wrapAuth(rt.handleUpdateProject, authMw))
	mux.HandleFunc("DELETE "+bp+"/projects/delete", wrapAuth(rt.handleDeleteProject, authMw))

	// Proxies
	mux.HandleFunc("GET "+bp+"/meta/live-info", rt.handleLiveInfo)
	mux.HandleFunc("GET "+bp+"/meta/track/previous", rt.handlePreviousTrack)
	mux.HandleFunc("GET "+bp+"/meta/tracks/current", rt.handleCurrentTrack)
	mux.HandleFunc("GET "+bp+"/meta/tracks/next", rt.handleNextTrack)
	mux.HandleFunc("GET "+bp+"/meta/shows/previous", rt.handlePreviousShow)
	mux.HandleFunc("GET "+bp+"/meta/shows/current", rt.handleCurrentShow)
	mux.HandleFunc("GET "+bp+"/meta/shows/next", rt.handleNextShow)
	mux.HandleFunc("GET "+bp+"/meta/schedule", rt.handleSchedule)
	mux.HandleFunc("GET "+bp+"/meta/languages", rt.handleLanguages)
	mux.HandleFunc("GET "+bp+"/languages", rt.handleLanguages)
	mux.HandleFunc("GET "+bp+"/changelog/"+changelog.RepoWeb, rt.handleChangelog(changelog.RepoWeb))
	mux.HandleFunc("GET "+bp+"/changelog/"+changelog.RepoIOS, rt.handleChangelog(changelog.RepoIOS))
	mux.HandleFunc("GET "+bp+"/changelog/"+changelog.RepoServer, rt.handleChangelog(changelog.RepoServer))
	mux.HandleFunc("GET "+bp+"/status", rt.handleStatus)

	return middleware.Logging(rt.logger)(middleware.SecurityHeaders(mux))
}

// wrapAuth wraps a handler function with auth middleware.
func wrapAuth(fn http.HandlerFunc, authMw func(http.Handler) http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authMw(fn).ServeHTTP(w, r)
	}
}
