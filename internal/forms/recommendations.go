package forms

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tunecrate/internal/catalog"
)

// Recommendation is the create-recommendation form. Its choices are keyed
// by catalog track id, since the selections seed the catalog call.
type Recommendation struct {
	Protected
	Name    string   `schema:"name" validate:"required,length=1-64"`
	Songs   []string `schema:"songs" validate:"required"`
	Choices []Choice `schema:"-" validate:"-"`
}

// ParseRecommendation decodes a posted recommendation form.
func ParseRecommendation(r *http.Request, choices []Choice) (Recommendation, error) {
	var f Recommendation
	if err := decode(r, &f); err != nil {
		return Recommendation{}, err
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Choices = markSelected(choices, f.Songs)
	return f, nil
}

// Validate requires a free name and between one and catalog.MaxSeedTracks
// offered seeds.
func (f Recommendation) Validate(ctx context.Context, csrf CSRFCheck, names NameChecker) (Errors, error) {
	errs := newErrors(CSRFField, "name", "songs")
	f.checkCSRF(csrf, &errs)
	checkTags(f, &errs)

	if !errs.Has("name") {
		if err := checkName(ctx, names, f.Name, &errs); err != nil {
			return errs, err
		}
	}
	checkChoices("songs", f.Songs, f.Choices, &errs)
	if len(f.Songs) > catalog.MaxSeedTracks {
		errs.Add("songs", fmt.Sprintf("Select at most %d songs.", catalog.MaxSeedTracks))
	}
	return errs, nil
}
