package catalog

import "github.com/gosimple/slug"

// Slugify derives the URL-safe lookup key from a title. Non-ASCII letters
// are transliterated rather than dropped, so "Küche" becomes "kuche".
// Regenerated whenever the title changes.
func Slugify(title string) string {
	return slug.Make(title)
}
