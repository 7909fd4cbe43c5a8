package forms

import (
	"context"
	"net/http"
	"strings"
)

// NameChecker reports whether a playlist or recommendation name is in use.
type NameChecker interface {
	NameTaken(ctx context.Context, name string) (bool, error)
}

// MsgNameTaken is reported for a name another row already uses.
const MsgNameTaken = "Name already taken"

// Playlist is the create-playlist form. Choices lists the songs on offer,
// keyed by song id.
type Playlist struct {
	Protected
	Name    string   `schema:"name" validate:"required,length=1-64"`
	Songs   []string `schema:"songs" validate:"required"`
	Choices []Choice `schema:"-" validate:"-"`
}

// ParsePlaylist decodes a posted playlist form offering choices.
func ParsePlaylist(r *http.Request, choices []Choice) (Playlist, error) {
	var f Playlist
	if err := decode(r, &f); err != nil {
		return Playlist{}, err
	}
	f.Name = strings.TrimSpace(f.Name)
	f.Choices = markSelected(choices, f.Songs)
	return f, nil
}

// Validate requires a free name and at least one offered song.
func (f Playlist) Validate(ctx context.Context, csrf CSRFCheck, names NameChecker) (Errors, error) {
	errs := newErrors(CSRFField, "name", "songs")
	f.checkCSRF(csrf, &errs)
	checkTags(f, &errs)

	if !errs.Has("name") {
		if err := checkName(ctx, names, f.Name, &errs); err != nil {
			return errs, err
		}
	}
	checkChoices("songs", f.Songs, f.Choices, &errs)
	return errs, nil
}

// SongIDs returns the selected song ids.
func (f Playlist) SongIDs() ([]int64, error) {
	return ParseIDs(f.Songs)
}

// UpdatePlaylist renames a playlist and edits its songs. AddChoices offers
// songs not yet in the playlist; RemoveChoices offers the ones in it.
type UpdatePlaylist struct {
	Protected
	Name          string   `schema:"name" validate:"omitempty,length=1-64"`
	AddSongs      []string `schema:"add_songs"`
	RemoveSongs   []string `schema:"remove_songs"`
	AddChoices    []Choice `schema:"-" validate:"-"`
	RemoveChoices []Choice `schema:"-" validate:"-"`
}

// ParseUpdatePlaylist decodes a posted update form.
func ParseUpdatePlaylist(r *http.Request, add, remove []Choice) (UpdatePlaylist, error) {
	var f UpdatePlaylist
	if err := decode(r, &f); err != nil {
		return UpdatePlaylist{}, err
	}
	f.Name = strings.TrimSpace(f.Name)
	f.AddChoices = markSelected(add, f.AddSongs)
	f.RemoveChoices = markSelected(remove, f.RemoveSongs)
	return f, nil
}

// Validate checks a non-empty new name is free and the selections are
// among the offered songs.
func (f UpdatePlaylist) Validate(ctx context.Context, csrf CSRFCheck, names NameChecker) (Errors, error) {
	errs := newErrors(CSRFField, "name", "add_songs", "remove_songs")
	f.checkCSRF(csrf, &errs)
	checkTags(f, &errs)

	if f.Name != "" && !errs.Has("name") {
		if err := checkName(ctx, names, f.Name, &errs); err != nil {
			return errs, err
		}
	}
	checkChoices("add_songs", f.AddSongs, f.AddChoices, &errs)
	checkChoices("remove_songs", f.RemoveSongs, f.RemoveChoices, &errs)
	return errs, nil
}

// IDs returns the ids to add and to remove.
func (f UpdatePlaylist) IDs() (add, remove []int64, err error) {
	if add, err = ParseIDs(f.AddSongs); err != nil {
		return nil, nil, err
	}
	if remove, err = ParseIDs(f.RemoveSongs); err != nil {
		return nil, nil, err
	}
	return add, remove, nil
}

func checkName(ctx context.Context, names NameChecker, name string, errs *Errors) error {
	taken, err := names.NameTaken(ctx, name)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("name", MsgNameTaken)
	}
	return nil
}

// Button is a submit-only form such as the delete button next to a
// playlist.
type Button struct {
	Protected
}

// ParseButton decodes a posted button form.
func ParseButton(r *http.Request) (Button, error) {
	var f Button
	if err := decode(r, &f); err != nil {
		return Button{}, err
	}
	return f, nil
}

// Validate only checks the CSRF token.
func (f Button) Validate(csrf CSRFCheck) Errors {
	errs := newErrors(CSRFField)
	f.checkCSRF(csrf, &errs)
	return errs
}
