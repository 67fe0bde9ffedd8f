package api

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/radiorasclat/api/internal/catalog"
)

var projectMessages = entityMessages{
	added:       "Project added.",
	updated:     "The project has been updated.",
	removed:     "Project has been removed.",
	duplicate:   "This project already exists in the database.",
	dbCreate:    "An unknown error occurred while creating the project in the database.",
	dbUpdate:    "An unknown error occurred while creating the project in the database.",
	indexAdd:    "An unknown error occurred while creating the project to the Algolia Search API.",
	indexStamp:  "An unknown error occurred while updating the new project with the given Algolia objectID.",
	indexSave:   "An unknown error occurred while updating the project to the Algolia Search API.",
	indexDelete: "An unknown error occurred while deleting the project on Algolia.",
	notLoaded:   "Project could not be found.",
}

func (rt *Router) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := rt.store.ListProjects(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("No projects found."))
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (rt *Router) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusOK, failMsg("No project ID was provided."))
		return
	}
	project, err := rt.store.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusOK, failMsg("Project not found."))
			return
		}
		writeJSON(w, http.StatusOK, failMsg("Not a valid project ID."))
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (rt *Router) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}

	rec, err := rt.projects.Create(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			image := media.ImageURL
			if image == "" {
				image = p.field("image")
			}
			project := &catalog.Project{
				Title:       p.field("title"),
				Description: p.field("description"),
				Image:       image,
				TimeStart:   p.timeField("timeStart"),
				TimeEnd:     p.timeField("timeEnd"),
			}
			if err := rt.store.CreateProject(ctx, project); err != nil {
				return nil, err
			}
			return project, nil
		},
		func(ctx context.Context, documentID, objectID string) (catalog.Record, error) {
			return rt.store.StampProjectObjectID(ctx, documentID, objectID)
		})
	if err != nil {
		writeCreateError(w, err, projectMessages)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": projectMessages.added,
		"project": rec,
	})
}

func (rt *Router) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}
	id := p.field("_id")

	_, err = rt.projects.Update(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			return rt.store.UpdateProject(ctx, id, projectSet(p, media))
		})
	if err != nil {
		writeUpdateError(w, err, projectMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(projectMessages.updated))
}

func (rt *Router) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeleteBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgDeleteStore))
		return
	}

	err = rt.projects.Delete(r.Context(),
		func(ctx context.Context) (catalog.Record, error) {
			return rt.store.FindProjectByID(ctx, id)
		},
		func(ctx context.Context) error {
			return rt.store.DeleteProject(ctx, id)
		})
	if err != nil {
		writeDeleteError(w, err, projectMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(projectMessages.removed))
}

// projectSet builds the partial update for a project, storing the window
// bounds typed instead of as raw form strings.
func projectSet(p *payload, media catalog.Media) bson.M {
	set := updateSet(p, media)
	if _, ok := set["timeStart"]; ok {
		set["timeStart"] = p.timeField("timeStart")
	}
	if _, ok := set["timeEnd"]; ok {
		set["timeEnd"] = p.timeField("timeEnd")
	}
	return set
}
