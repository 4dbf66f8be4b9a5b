package download

import (
	"errors"

	"github.com/sqweek/dialog"
)

// DialogSaver asks for the destination with the native save dialog.
type DialogSaver struct {
	Title string
}

// SavePath opens a save dialog preselecting suggested.
func (d DialogSaver) SavePath(suggested string) (string, error) {
	path, err := dialog.File().
		Filter("KMZ archives", "kmz").
		Filter("All Files", "*").
		Title(d.Title).
		SetStartFile(suggested).
		Save()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrCancelled
	}
	return path, err
}
