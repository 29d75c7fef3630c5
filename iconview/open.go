//go:build !flatpak || windows || android || ios || wasm || js

package iconview

import (
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
)

// openURI hands u to the desktop's default handler.
func openURI(_ fyne.Window, u fyne.URI, _ bool) error {
	link, err := url.Parse(u.String())
	if err != nil {
		return fmt.Errorf("open %s: %w", u, err)
	}
	if err := fyne.CurrentApp().OpenURL(link); err != nil {
		return fmt.Errorf("open %s: %w", u, err)
	}
	return nil
}
