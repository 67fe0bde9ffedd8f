package api

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/radiorasclat/api/internal/catalog"
)

var recordingMessages = entityMessages{
	added:       "Recording added.",
	updated:     "The recording has been updated.",
	removed:     "Recording has been removed.",
	duplicate:   "This recording already exists in the database.",
	dbCreate:    "An unknown error occurred while creating the recording in the database.",
	dbUpdate:    "An unknown error occurred while updating the recording in the database.",
	indexAdd:    "An unknown error occurred while creating the recording to the Algolia Search API.",
	indexStamp:  "An unknown error occurred while updating the new recording with the given Algolia objectID.",
	indexSave:   "An unknown error occurred while updating the recording to the Algolia Search API.",
	indexDelete: "An unknown error occurred while deleting the recording on Algolia.",
	notLoaded:   "Recording could not be found.",
}

func (rt *Router) handleListRecordings(w http.ResponseWriter, r *http.Request) {
	recordings, err := rt.store.ListRecordings(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("No recordings found."))
		return
	}
	writeJSON(w, http.StatusOK, recordings)
}

func (rt *Router) handleGetRecording(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusOK, failMsg("No recording ID was provided."))
		return
	}
	recording, err := rt.store.GetRecording(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusOK, failMsg("Recording not found."))
			return
		}
		writeJSON(w, http.StatusOK, failMsg("Not a valid recording ID."))
		return
	}
	writeJSON(w, http.StatusOK, recording)
}

func (rt *Router) handleCreateRecording(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}

	rec, err := rt.recordings.Create(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			recording := &catalog.Recording{
				Title:       p.field("title"),
				Description: p.field("description"),
				Show:        p.objectID("show"),
				Artists:     p.objectIDs("artists"),
				Genres:      p.objectIDs("genres"),
				Audio:       media.AudioURL,
				Image:       media.ImageURL,
				TimeStart:   p.timeField("timeStart"),
				TimeEnd:     p.timeField("timeEnd"),
			}
			if err := rt.store.CreateRecording(ctx, recording); err != nil {
				return nil, err
			}
			return recording, nil
		},
		func(ctx context.Context, documentID, objectID string) (catalog.Record, error) {
			return rt.store.StampRecordingObjectID(ctx, documentID, objectID)
		})
	if err != nil {
		writeCreateError(w, err, recordingMessages)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":   true,
		"message":   recordingMessages.added,
		"recording": rec,
	})
}

func (rt *Router) handleUpdateRecording(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}
	id := p.field("_id")

	_, err = rt.recordings.Update(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			return rt.store.UpdateRecording(ctx, id, recordingSet(p, media))
		})
	if err != nil {
		writeUpdateError(w, err, recordingMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(recordingMessages.updated))
}

func (rt *Router) handleDeleteRecording(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeleteBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgDeleteStore))
		return
	}

	err = rt.recordings.Delete(r.Context(),
		func(ctx context.Context) (catalog.Record, error) {
			return rt.store.FindRecordingByID(ctx, id)
		},
		func(ctx context.Context) error {
			return rt.store.DeleteRecording(ctx, id)
		})
	if err != nil {
		writeDeleteError(w, err, recordingMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(recordingMessages.removed))
}

// recordingSet builds the partial update for a recording. The reference and
// time fields arrive as strings and must be stored typed, so they replace
// the raw form values the generic set carries.
func recordingSet(p *payload, media catalog.Media) bson.M {
	set := updateSet(p, media)
	if _, ok := set["show"]; ok {
		set["show"] = p.objectID("show")
	}
	if _, ok := set["artists"]; ok {
		set["artists"] = p.objectIDs("artists")
	}
	if _, ok := set["genres"]; ok {
		set["genres"] = p.objectIDs("genres")
	}
	if _, ok := set["timeStart"]; ok {
		set["timeStart"] = p.timeField("timeStart")
	}
	if _, ok := set["timeEnd"]; ok {
		set["timeEnd"] = p.timeField("timeEnd")
	}
	return set
}
