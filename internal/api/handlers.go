package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/radiorasclat/api/internal/catalog"
	"github.com/radiorasclat/api/internal/version"
)

const maxUploadBytes = 200 << 20

// envelope is the response shape shared by every write route.
type envelope map[string]any

func okMsg(message string) envelope {
	return envelope{"success": true, "message": message}
}

func failMsg(message string) envelope {
	return envelope{"success": false, "message": message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeRaw forwards an upstream JSON payload untouched.
func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// payload is one parsed write request: the flattened field/file view the
// pipeline validates, plus the raw form values for repeated keys.
type payload struct {
	req    *catalog.Request
	values url.Values
}

// parsePayload reads a multipart or urlencoded request body into a payload.
// File parts are read fully into memory; uploads relocate to the blob store
// in one put each.
func parsePayload(r *http.Request) (*payload, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	p := &payload{
		req: &catalog.Request{
			Fields: map[string]string{},
			Files:  map[string]*catalog.Upload{},
		},
		values: url.Values{},
	}

	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, err
		}
		p.values = r.MultipartForm.Value
		for name, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			f, err := headers[0].Open()
			if err != nil {
				return nil, err
			}
			data, err := io.ReadAll(f)
			f.Close() //nolint:errcheck
			if err != nil {
				return nil, err
			}
			p.req.Files[name] = &catalog.Upload{Filename: headers[0].Filename, Data: data}
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		p.values = r.PostForm
	}

	for name, vals := range p.values {
		if len(vals) > 0 {
			p.req.Fields[name] = vals[0]
		}
	}
	return p, nil
}

// field returns the first value for a form key.
func (p *payload) field(name string) string {
	return p.req.Fields[name]
}

// objectIDs collects ObjectIDs from a repeated form key; a single value may
// carry several IDs comma-separated. Malformed IDs are dropped.
func (p *payload) objectIDs(name string) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, v := range p.values[name] {
		for _, part := range strings.Split(v, ",") {
			id, err := primitive.ObjectIDFromHex(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids
}

// objectID parses a single ObjectID form value, zero when malformed.
func (p *payload) objectID(name string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(p.field(name))
	return id
}

// timeField parses an RFC 3339 timestamp form value, zero when malformed.
func (p *payload) timeField(name string) time.Time {
	t, _ := time.Parse(time.RFC3339, p.field(name))
	return t
}

// deleteBody is the JSON body of a DELETE request.
type deleteBody struct {
	ID string `json:"_id"`
}

func parseDeleteBody(r *http.Request) (string, error) {
	var body deleteBody
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body); err != nil {
		return "", err
	}
	return body.ID, nil
}

// entityMessages holds the per-entity response strings of the write routes.
// The wording and the create/update asymmetries follow the public API
// contract verbatim.
type entityMessages struct {
	added       string
	updated     string
	removed     string
	duplicate   string
	dbCreate    string
	dbUpdate    string
	indexAdd    string
	indexStamp  string
	indexSave   string
	indexDelete string
	notLoaded   string
}

const (
	msgUploadFailed = "An unknown error occurred while uploading media. Please try again."
	msgResizeFailed = "Image resizing went wrong. please view log files!"
	msgDeleteStore  = "An error occurred."
)

// writeCreateError maps a create pipeline failure onto the contract's
// response. Every failure answers 200 with success:false.
func writeCreateError(w http.ResponseWriter, err error, m entityMessages) {
	var ve *catalog.ValidationError
	var ie *catalog.IndexError
	var de *catalog.DecodeError
	var se *catalog.StorageError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusOK, failMsg(ve.Message))
	case errors.As(err, &de):
		writeJSON(w, http.StatusOK, failMsg(msgResizeFailed))
	case errors.As(err, &se):
		writeJSON(w, http.StatusOK, failMsg(msgUploadFailed))
	case errors.As(err, &ie) && ie.Op == "add":
		writeJSON(w, http.StatusOK, failMsg(m.indexAdd))
	case errors.As(err, &ie) && ie.Op == "stamp":
		writeJSON(w, http.StatusOK, failMsg(m.indexStamp))
	case errors.Is(err, catalog.ErrDuplicateTitle):
		writeJSON(w, http.StatusOK, failMsg(m.duplicate))
	default:
		writeJSON(w, http.StatusOK, failMsg(m.dbCreate))
	}
}

// writeUpdateError maps an update pipeline failure.
func writeUpdateError(w http.ResponseWriter, err error, m entityMessages) {
	var ie *catalog.IndexError
	var de *catalog.DecodeError
	var se *catalog.StorageError
	switch {
	case errors.As(err, &de):
		writeJSON(w, http.StatusOK, failMsg(msgResizeFailed))
	case errors.As(err, &se):
		writeJSON(w, http.StatusOK, failMsg(msgUploadFailed))
	case errors.As(err, &ie):
		writeJSON(w, http.StatusOK, failMsg(m.indexSave))
	case errors.Is(err, catalog.ErrDuplicateTitle):
		writeJSON(w, http.StatusOK, failMsg(m.duplicate))
	default:
		writeJSON(w, http.StatusOK, failMsg(m.dbUpdate))
	}
}

// writeDeleteError maps a delete pipeline failure.
func writeDeleteError(w http.ResponseWriter, err error, m entityMessages) {
	var ie *catalog.IndexError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusOK, failMsg(m.notLoaded))
	case errors.As(err, &ie):
		writeJSON(w, http.StatusOK, failMsg(m.indexDelete))
	default:
		writeJSON(w, http.StatusOK, failMsg(msgDeleteStore))
	}
}

// updateSet flattens a payload into a partial-update document. Known media
// URLs from the pipeline win over form-carried values; _id never moves.
func updateSet(p *payload, media catalog.Media) bson.M {
	set := bson.M{}
	for name, v := range p.req.Fields {
		if name == "_id" {
			continue
		}
		set[name] = v
	}
	if media.ImageURL != "" {
		set["image"] = media.ImageURL
	}
	if media.AudioURL != "" {
		set["audio"] = media.AudioURL
	}
	return set
}

func (rt *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
