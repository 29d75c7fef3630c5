//go:build flatpak && !windows && !android && !ios && !wasm && !js

package iconview

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/openuri"
)

// openURI asks the OpenURI portal to open u. Local files are passed by
// descriptor since the sandbox path means nothing to the host. alternate
// lets the user pick the application.
func openURI(win fyne.Window, u fyne.URI, alternate bool) error {
	handle := windowHandleForPortal(win)

	if u.Scheme() != "file" {
		if err := openuri.OpenURI(handle, u.String(), &openuri.OpenURIOptions{Ask: alternate}); err != nil {
			return fmt.Errorf("open %s: %w", u, err)
		}
		return nil
	}

	f, err := os.Open(u.Path())
	if err != nil {
		return fmt.Errorf("open %s: %w", u, err)
	}
	defer f.Close()
	if err := openuri.OpenFile(handle, f.Fd(), &openuri.OpenFileOptions{Ask: alternate}); err != nil {
		return fmt.Errorf("open %s: %w", u, err)
	}
	return nil
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	handle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			handle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return handle
}
