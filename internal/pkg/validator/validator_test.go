package validator

import "testing"

type sample struct {
	Title    string  `json:"title" validate:"required,max=10"`
	Rating   float64 `json:"rating" validate:"gte=0,lte=5"`
	NewsList string  `json:"news_list" validate:"yn"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	errs := Validate(&sample{Rating: 7, NewsList: "maybe"})
	if errs == nil {
		t.Fatal("expected validation errors")
	}
	if errs["title"] != "This field is required" {
		t.Errorf("title = %q", errs["title"])
	}
	if errs["rating"] != "Value must be at most 5" {
		t.Errorf("rating = %q", errs["rating"])
	}
	if errs["news_list"] != "Invalid flag. Must be: Y or N" {
		t.Errorf("news_list = %q", errs["news_list"])
	}
}

func TestValidatePasses(t *testing.T) {
	if errs := Validate(&sample{Title: "One Piece", Rating: 4.5, NewsList: "Y"}); errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
