package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/radiorasclat/api/internal/catalog"
)

func (rt *Router) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := rt.store.ListGenres(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("No genres found."))
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (rt *Router) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusOK, failMsg("No genre ID was provided."))
		return
	}
	genre, err := rt.store.GetGenre(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusOK, failMsg("Genre not found."))
			return
		}
		writeJSON(w, http.StatusOK, failMsg("Not a valid genre ID."))
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (rt *Router) handleCreateGenre(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg("An unknown error occurred while creating the genre in the database."))
		return
	}

	rec, err := rt.genres.Create(r.Context(), p.req,
		func(ctx context.Context, _ catalog.Media) (catalog.Record, error) {
			genre := &catalog.Genre{
				Title: p.field("title"),
				Color: p.field("color"),
			}
			if err := rt.store.CreateGenre(ctx, genre); err != nil {
				return nil, err
			}
			return genre, nil
		}, nil)
	if err != nil {
		var ve *catalog.ValidationError
		switch {
		case errors.As(err, &ve):
			writeJSON(w, http.StatusOK, failMsg(ve.Message))
		case errors.Is(err, catalog.ErrDuplicateTitle):
			writeJSON(w, http.StatusOK, failMsg("This genre already exists in the database."))
		default:
			writeJSON(w, http.StatusOK, failMsg("An unknown error occurred while creating the genre in the database."))
		}
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Genre added.",
		"genre":   rec,
	})
}

func (rt *Router) handleUpdateGenre(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg("An unknown error occurred while updating the genre in the database."))
		return
	}
	id := p.field("_id")

	_, err = rt.genres.Update(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			return rt.store.UpdateGenre(ctx, id, updateSet(p, media))
		})
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("An unknown error occurred while updating the genre in the database."))
		return
	}

	writeJSON(w, http.StatusOK, okMsg("The genre has been updated."))
}

func (rt *Router) handleDeleteGenre(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeleteBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg("Genre could not be found."))
		return
	}

	err = rt.genres.Delete(r.Context(),
		func(ctx context.Context) (catalog.Record, error) {
			return rt.store.FindGenreByID(ctx, id)
		},
		func(ctx context.Context) error {
			return rt.store.DeleteGenre(ctx, id)
		})
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("Genre could not be found."))
		return
	}

	writeJSON(w, http.StatusOK, okMsg("Genre has been removed."))
}
