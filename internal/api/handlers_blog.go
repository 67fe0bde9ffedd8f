package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/radiorasclat/api/internal/catalog"
)

var blogMessages = entityMessages{
	added:       "Blog post added.",
	updated:     "The blog post has been updated.",
	removed:     "Blog post has been removed.",
	duplicate:   "This blog post already exists in the database.",
	dbCreate:    "An unknown error occurred while creating the blog post in the database.",
	dbUpdate:    "An unknown error occurred while creating the blog post in the database.",
	indexAdd:    "An unknown error occurred while creating the blog post to the Algolia Search API.",
	indexStamp:  "An unknown error occurred while updating the new blog post with the given Algolia objectID.",
	indexSave:   "An unknown error occurred while updating the blog post to the Algolia Search API.",
	indexDelete: "An unknown error occurred while deleting the blog post on Algolia.",
	notLoaded:   "Blog post could not be found.",
}

func (rt *Router) handleListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := rt.store.ListBlogPosts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, failMsg("No blog posts found."))
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (rt *Router) handleGetBlogPost(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusOK, failMsg("No blog post ID was provided."))
		return
	}
	post, err := rt.store.GetBlogPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, failMsg("Blog post not found."))
			return
		}
		writeJSON(w, http.StatusOK, failMsg("Not a valid blog post ID."))
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (rt *Router) handleCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}

	rec, err := rt.blogPosts.Create(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			image := media.ImageURL
			if image == "" {
				image = p.field("image")
			}
			post := &catalog.BlogPost{
				Title:       p.field("title"),
				Description: p.field("description"),
				Image:       image,
			}
			if err := rt.store.CreateBlogPost(ctx, post); err != nil {
				return nil, err
			}
			return post, nil
		},
		func(ctx context.Context, documentID, objectID string) (catalog.Record, error) {
			return rt.store.StampBlogPostObjectID(ctx, documentID, objectID)
		})
	if err != nil {
		writeCreateError(w, err, blogMessages)
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		"success":  true,
		"message":  blogMessages.added,
		"blogPost": rec,
	})
}

func (rt *Router) handleUpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	p, err := parsePayload(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgUploadFailed))
		return
	}
	id := p.field("_id")

	_, err = rt.blogPosts.Update(r.Context(), p.req,
		func(ctx context.Context, media catalog.Media) (catalog.Record, error) {
			return rt.store.UpdateBlogPost(ctx, id, updateSet(p, media))
		})
	if err != nil {
		writeUpdateError(w, err, blogMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(blogMessages.updated))
}

func (rt *Router) handleDeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseDeleteBody(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failMsg(msgDeleteStore))
		return
	}

	err = rt.blogPosts.Delete(r.Context(),
		func(ctx context.Context) (catalog.Record, error) {
			return rt.store.FindBlogPostByID(ctx, id)
		},
		func(ctx context.Context) error {
			return rt.store.DeleteBlogPost(ctx, id)
		})
	if err != nil {
		writeDeleteError(w, err, blogMessages)
		return
	}

	writeJSON(w, http.StatusOK, okMsg(blogMessages.removed))
}
