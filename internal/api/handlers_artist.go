package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/radiorasclat/api/internal/catalog"
)

var artistMessages = entityMessages{
	added:       "Artist added.",
	updated:     "The artist has been updated.",
	removed:     "Artist has been removed.",
	duplicate:   "This artist already exists in the database.",
	dbCreate:    "An unknown error occurred while creating the artist in the database.",
	dbUpdate:    "An unknown error occurred while creating the artist in the database.",
	indexAdd:    "An unknown error occurred while creating the artist to the Algolia Search API.",
	indexStamp:  "An unknown error occurred while updating the new artist with the given Algolia objectID.",
	indexSave:   "An unknown error occurred while updating the artist to the Algolia Search API.",
	indexDelete: "An unknown error occurred while deleting the artist on Algolia.",
	notLoaded:   "Artist could not be found.",
}

func (rt *Router) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := rt.store.ListArtists(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("No artists found."))
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (rt *Router) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusOK, failMsg("No artist ID was provided."))
		return
	}
	artist, err := rt.store.GetArtist(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, failMsg("Artist not found."))
			return
		}
		writeJSON(w, http.StatusOK, failMsg("Not a valid artist ID."))
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (rt *Router) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}

	rec, err := rt.artists.Create(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			image := media.ImageURL
			if image == "" {
				image = p.field("image")
			}
			artist := &catalog.Artist{
				Title: p.field("title"),
				Image: image,
			}
			if err := rt.store.CreateArtist(ctx, artist); err != nil {
				return nil, err
			}
			return artist, nil
		},
		func(ctx context.Context, documentID, objectID string) (catalog.Record, error) {
			return rt.store.StampArtistObjectID(ctx, documentID, objectID)
		})
	if err != nil {
		writeCreateError(w, err, artistMessages)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": artistMessages.added,
		"artist":  rec,
	})
}

func (rt *Router) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}
	id := p.field("_id")

	_, err = rt.artists.Update(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			return rt.store.UpdateArtist(ctx, id, updateSet(p, media))
		})
	if err != nil {
		writeUpdateError(w, err, artistMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(artistMessages.updated))
}

func (rt *Router) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeleteBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgDeleteStore))
		return
	}

	err = rt.artists.Delete(r.Context(),
		func(ctx context.Context) (catalog.Record, error) {
			return rt.store.FindArtistByID(ctx, id)
		},
		func(ctx context.Context) error {
			return rt.store.DeleteArtist(ctx, id)
		})
	if err != nil {
		writeDeleteError(w, err, artistMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(artistMessages.removed))
}
