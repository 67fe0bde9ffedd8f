package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/radiorasclat/api/internal/catalog"
)

var showMessages = entityMessages{
	added:       "Show added.",
	updated:     "The show has been updated.",
	removed:     "Show has been removed.",
	duplicate:   "This show already exists in the database.",
	dbCreate:    "An unknown error occurred while creating the show in the database.",
	dbUpdate:    "An unknown error occurred while updating the show in the database.",
	indexAdd:    "An unknown error occurred while creating the show to the Algolia Search API.",
	indexStamp:  "An unknown error occurred while updating the new show with the given Algolia objectID.",
	indexSave:   "An unknown error occurred while updating the show to the Algolia Search API.",
	indexDelete: "An unknown error occurred while deleting the show on Algolia.",
	notLoaded:   "Show could not be found.",
}

func (rt *Router) handleListShows(w http.ResponseWriter, r *http.Request) {
	shows, err := rt.store.ListShows(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("No shows found."))
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

func (rt *Router) handleRecentlyUpdatedShows(w http.ResponseWriter, r *http.Request) {
	shows, err := rt.store.RecentlyUpdatedShows(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("No shows found."))
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

func (rt *Router) handleGetShow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusOK, failMsg("No show ID was provided."))
		return
	}
	show, err := rt.store.GetShow(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, failMsg("Show not found."))
			return
		}
		writeJSON(w, http.StatusOK, failMsg("Not a valid show ID."))
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func (rt *Router) handleCreateShow(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}

	rec, err := rt.shows.Create(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			image := media.ImageURL
			if image == "" {
				image = p.field("image")
			}
			show := &catalog.Show{
				Title:       p.field("title"),
				Description: p.field("description"),
				Image:       image,
			}
			if err := rt.store.CreateShow(ctx, show); err != nil {
				return nil, err
			}
			return show, nil
		},
		func(ctx context.Context, documentID, objectID string) (catalog.Record, error) {
			return rt.store.StampShowObjectID(ctx, documentID, objectID)
		})
	if err != nil {
		writeCreateError(w, err, showMessages)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": showMessages.added,
		"show":    rec,
	})
}

func (rt *Router) handleUpdateShow(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}
	id := p.field("_id")

	_, err = rt.shows.Update(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			return rt.store.UpdateShow(ctx, id, updateSet(p, media))
		})
	if err != nil {
		writeUpdateError(w, err, showMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(showMessages.updated))
}

func (rt *Router) handleDeleteShow(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeleteBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgDeleteStore))
		return
	}

	err = rt.shows.Delete(r.Context(),
		func(ctx context.Context) (catalog.Record, error) {
			return rt.store.FindShowByID(ctx, id)
		},
		func(ctx context.Context) error {
			return rt.store.DeleteShow(ctx, id)
		})
	if err != nil {
		writeDeleteError(w, err, showMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(showMessages.removed))
}
