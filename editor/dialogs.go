package editor

import (
	"errors"

	"github.com/sqweek/dialog"
)

// ErrDialogCancelled reports that the user dismissed a file dialog.
var ErrDialogCancelled = errors.New("dialog cancelled")

// OpenSceneDialog asks for a scene file to load.
func OpenSceneDialog() (string, error) {
	path, err := dialog.File().
		Title("Open Scene").
		Filter("Scene files", "scene", "json").
		Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrDialogCancelled
		}
		return "", err
	}
	return path, nil
}

// SaveSceneDialog asks where to save the current scene.
func SaveSceneDialog() (string, error) {
	path, err := dialog.File().
		Title("Save Scene").
		Filter("Scene files", "scene", "json").
		Save()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrDialogCancelled
		}
		return "", err
	}
	return path, nil
}

// ImportModelDialog asks for a mesh file to import.
func ImportModelDialog() (string, error) {
	path, err := dialog.File().
		Title("Import Model").
		Filter("Wavefront OBJ", "obj").
		Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrDialogCancelled
		}
		return "", err
	}
	return path, nil
}
