package catalog

// Rule names one required field (or file part) and the message reported when
// it is missing. Rules are evaluated in declaration order and only the first
// failure is reported.
type Rule struct {
	Field   string
	File    bool
	Message string
}

// Per-entity create rules, in the order the API reports them.
var (
	ArtistRules = []Rule{
		{Field: "title", Message: "No artist title was provided."},
	}

	ShowRules = []Rule{
		{Field: "title", Message: "No show title was provided."},
		{Field: "description", Message: "No show description was provided."},
	}

	GenreRules = []Rule{
		{Field: "title", Message: "No genre title was given."},
		{Field: "color", Message: "No genre color was provided."},
	}

	RecordingRules = []Rule{
		{Field: "title", Message: "No recording title was provided."},
		{Field: "artists", Message: "No artist was given."},
		{Field: "genres", Message: "No describing genre was given."},
		{Field: "timeStart", Message: "No starting time was provided."},
		{Field: "timeEnd", Message: "No ending time was provided."},
		{Field: "show", Message: "No show was provided."},
		{Field: "audio", File: true, Message: "No audio file was uploaded."},
		{Field: "image", File: true, Message: "No image was uploaded."},
	}

	BlogPostRules = []Rule{
		{Field: "title", Message: "No blog post title was provided."},
		{Field: "description", Message: "No blog post description was provided."},
	}

	ProjectRules = []Rule{
		{Field: "title", Message: "No project title was provided."},
		{Field: "description", Message: "No project description was provided."},
		{Field: "timeStart", Message: "No starting time was provided."},
		{Field: "timeEnd", Message: "No ending time was provided."},
	}
)

// FirstMissing checks the request against the rules in order and returns the
// first failing rule, or nil when every required field is present.
func FirstMissing(req *Request, rules []Rule) *ValidationError {
	for _, rule := range rules {
		if rule.File {
			if f, ok := req.Files[rule.Field]; !ok || f == nil || len(f.Data) == 0 {
				return &ValidationError{Field: rule.Field, Message: rule.Message}
			}
			continue
		}
		if req.Fields[rule.Field] == "" {
			return &ValidationError{Field: rule.Field, Message: rule.Message}
		}
	}
	return nil
}
