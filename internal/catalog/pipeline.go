package catalog

import (
	"context"
	"strings"

	"github.com/radiorasclat/api/internal/errtrack"
)

// Upload is one file part of a multipart write request.
type Upload struct {
	Filename string
	Data     []byte
}

// Request carries the parsed payload of a write request into the pipeline.
type Request struct {
	Fields map[string]string
	Files  map[string]*Upload
}

// Media holds the public URLs produced by the media stages. Zero values mean
// no file of that kind was part of the request.
type Media struct {
	ImageURL string
	AudioURL string
}

// Record is a stored document the index half of the pipeline can mirror.
type Record interface {
	DocumentID() string
	IndexObjectID() string
}

// BlobStore uploads media bytes under a key and returns a public URL.
// One attempt only; the pipeline never retries a failed upload.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// Index mirrors domain records into the search index.
type Index interface {
	Add(ctx context.Context, record any) (string, error)
	Save(ctx context.Context, record any) error
	Delete(ctx context.Context, objectID string) error
	Clear(ctx context.Context) error
}

// ImageTransformer normalizes an uploaded image before storage.
type ImageTransformer interface {
	TransformImage(data []byte) ([]byte, error)
}

// PersistFunc writes the record once media is stored and returns the saved
// document.
type PersistFunc func(ctx context.Context, media Media) (Record, error)

// StampFunc writes the search index objectID back onto the stored document
// and returns the updated record.
type StampFunc func(ctx context.Context, documentID, objectID string) (Record, error)

// LoadFunc fetches the record a delete request targets.
type LoadFunc func(ctx context.Context) (Record, error)

// RemoveFunc deletes the stored record.
type RemoveFunc func(ctx context.Context) error

// Pipeline is the shared write path of one entity type: validate the fields,
// transform and store media, persist the record, mirror it into the search
// index. Each stage either advances or aborts the request with a typed
// error; once a stage fails nothing later runs.
type Pipeline struct {
	rules     []Rule
	transform ImageTransformer // nil: entity accepts no image upload
	blob      BlobStore        // nil: entity accepts no file uploads
	index     Index            // nil: entity is not mirrored into the index
	sink      errtrack.Sink
	uploadKey func(category, filename string) string
}

// NewPipeline wires the write path for one entity type. rules is the ordered
// required-field list; transform, blob and index may be nil for entities
// without media or index mirroring.
func NewPipeline(rules []Rule, transform ImageTransformer, blob BlobStore, index Index, sink errtrack.Sink, uploadKey func(category, filename string) string) *Pipeline {
	if sink == nil {
		sink = errtrack.Nop{}
	}
	return &Pipeline{
		rules:     rules,
		transform: transform,
		blob:      blob,
		index:     index,
		sink:      sink,
		uploadKey: uploadKey,
	}
}

// Create runs the full write pipeline for a POST: validate, media, persist,
// index add, objectID stamp. It returns the stored record with its objectID
// already stamped when the entity is indexed.
func (p *Pipeline) Create(ctx context.Context, req *Request, persist PersistFunc, stamp StampFunc) (Record, error) {
	if ve := FirstMissing(req, p.rules); ve != nil {
		return nil, ve
	}

	media, err := p.storeMedia(ctx, req)
	if err != nil {
		return nil, err
	}

	rec, err := persist(ctx, media)
	if err != nil {
		return nil, err
	}

	if p.index == nil {
		return rec, nil
	}

	objectID, err := p.index.Add(ctx, rec)
	if err != nil {
		err = &IndexError{Op: "add", Err: err}
		p.sink.Capture(err)
		return nil, err
	}

	stamped, err := stamp(ctx, rec.DocumentID(), objectID)
	if err != nil {
		// The index entry exists but the stored record does not know its
		// objectID. Acknowledged inconsistency window; the periodic
		// reindex heals it.
		err = &IndexError{Op: "stamp", Err: err}
		p.sink.Capture(err)
		return nil, err
	}

	return stamped, nil
}

// Update runs the write pipeline for a PUT: media stages, partial persist,
// index save. Create-time field validation deliberately does not run here;
// the route contract predates it and persist merges fields instead of
// replacing the document.
func (p *Pipeline) Update(ctx context.Context, req *Request, persist PersistFunc) (Record, error) {
	media, err := p.storeMedia(ctx, req)
	if err != nil {
		return nil, err
	}

	rec, err := persist(ctx, media)
	if err != nil {
		return nil, err
	}

	if p.index != nil && rec.IndexObjectID() != "" {
		if err := p.index.Save(ctx, rec); err != nil {
			err = &IndexError{Op: "save", Err: err}
			p.sink.Capture(err)
			return nil, err
		}
	}

	return rec, nil
}

// Delete removes a record from the index first and only then from the
// store. A failed index delete leaves the stored record (and its saved
// objectID) in place so the delete can be retried.
func (p *Pipeline) Delete(ctx context.Context, load LoadFunc, remove RemoveFunc) error {
	rec, err := load(ctx)
	if err != nil {
		return err
	}

	if p.index != nil {
		if objectID := rec.IndexObjectID(); objectID != "" {
			if err := p.index.Delete(ctx, objectID); err != nil {
				err = &IndexError{Op: "delete", Err: err}
				p.sink.Capture(err)
				return err
			}
		}
	}

	return remove(ctx)
}

// storeMedia transforms and uploads the request's file parts. The image is
// resized and re-encoded in place so the upload stage has one code path;
// audio relocates into the blob store untouched.
func (p *Pipeline) storeMedia(ctx context.Context, req *Request) (Media, error) {
	var media Media
	if p.blob == nil {
		return media, nil
	}

	if audio, ok := req.Files["audio"]; ok && audio != nil {
		key := p.uploadKey("audio", audio.Filename)
		url, err := p.blob.Put(ctx, key, "audio/mpeg", audio.Data)
		if err != nil {
			serr := &StorageError{Err: err}
			p.sink.Capture(serr)
			return media, serr
		}
		media.AudioURL = url
	}

	if img, ok := req.Files["image"]; ok && img != nil {
		if p.transform != nil {
			data, err := p.transform.TransformImage(img.Data)
			if err != nil {
				derr := &DecodeError{Err: err}
				p.sink.Capture(derr)
				return media, derr
			}
			img.Data = data
		}
		key := p.uploadKey("images", jpegName(img.Filename))
		url, err := p.blob.Put(ctx, key, "image/jpeg", img.Data)
		if err != nil {
			serr := &StorageError{Err: err}
			p.sink.Capture(serr)
			return media, serr
		}
		media.ImageURL = url
	}

	return media, nil
}

// jpegName swaps the filename extension for .jpg, matching the re-encoded
// payload.
func jpegName(filename string) string {
	if i := strings.Index(filename, "."); i >= 0 {
		filename = filename[:i]
	}
	return filename + ".jpg"
}
