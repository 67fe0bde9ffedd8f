package catalog

import "testing"

func req(fields map[string]string, files map[string]*Upload) *Request {
	if fields == nil {
		fields = map[string]string{}
	}
	if files == nil {
		files = map[string]*Upload{}
	}
	return &Request{Fields: fields, Files: files}
}

func TestFirstMissing_ReportsFirstFailureOnly(t *testing.T) {
	ve := FirstMissing(req(nil, nil), ShowRules)
	if ve == nil {
		t.Fatal("expected a validation error")
	}
	if ve.Field != "title" {
		t.Errorf("got field %q, want %q", ve.Field, "title")
	}
	if ve.Message != "No show title was provided." {
		t.Errorf("got message %q", ve.Message)
	}
}

func TestFirstMissing_RuleOrder(t *testing.T) {
	r := req(map[string]string{"title": "Summer Special"}, nil)
	ve := FirstMissing(r, ShowRules)
	if ve == nil {
		t.Fatal("expected a validation error")
	}
	if ve.Field != "description" {
		t.Errorf("got field %q, want %q", ve.Field, "description")
	}
}

func TestFirstMissing_AllPresent(t *testing.T) {
	r := req(map[string]string{"title": "Dub Archive", "description": "Weekly selections"}, nil)
	if ve := FirstMissing(r, ShowRules); ve != nil {
		t.Errorf("unexpected validation error: %v", ve)
	}
}

func TestFirstMissing_FileRules(t *testing.T) {
	fields := map[string]string{
		"title":     "Dub Archive #12",
		"artists":   "5c9f1a2b3c4d5e6f7a8b9c0d",
		"genres":    "5c9f1a2b3c4d5e6f7a8b9c0e",
		"timeStart": "2019-04-01T20:00:00.000Z",
		"timeEnd":   "2019-04-01T22:00:00.000Z",
		"show":      "5c9f1a2b3c4d5e6f7a8b9c0f",
	}

	ve := FirstMissing(req(fields, nil), RecordingRules)
	if ve == nil || ve.Message != "No audio file was uploaded." {
		t.Fatalf("got %v, want missing audio file", ve)
	}

	files := map[string]*Upload{"audio": {Filename: "mix.mp3", Data: []byte("id3")}}
	ve = FirstMissing(req(fields, files), RecordingRules)
	if ve == nil || ve.Message != "No image was uploaded." {
		t.Fatalf("got %v, want missing image", ve)
	}

	files["image"] = &Upload{Filename: "cover.png", Data: []byte{0x89}}
	if ve := FirstMissing(req(fields, files), RecordingRules); ve != nil {
		t.Errorf("unexpected validation error: %v", ve)
	}
}

func TestFirstMissing_EmptyFileCountsAsMissing(t *testing.T) {
	r := req(map[string]string{"title": "x"}, map[string]*Upload{"audio": {Filename: "mix.mp3"}})
	rules := []Rule{{Field: "audio", File: true, Message: "No audio file was uploaded."}}
	if ve := FirstMissing(r, rules); ve == nil {
		t.Error("zero-byte upload should fail validation")
	}
}

func TestGenreRules_Messages(t *testing.T) {
	ve := FirstMissing(req(nil, nil), GenreRules)
	if ve == nil || ve.Message != "No genre title was given." {
		t.Fatalf("got %v", ve)
	}
	ve = FirstMissing(req(map[string]string{"title": "Dub"}, nil), GenreRules)
	if ve == nil || ve.Message != "No genre color was provided." {
		t.Fatalf("got %v", ve)
	}
}
