// Package static embeds the welcome page template and the prebuilt
// front-end assets.
package static

import (
	"embed"
	"io/fs"
)

// WelcomeHTML contains the embedded welcome page template.
//
//go:embed welcome.html
var WelcomeHTML string

//go:embed build
var build embed.FS

// ManifestPath is the location of the Vite manifest inside Build.
const ManifestPath = "manifest.json"

// Build returns the build directory rooted at its top level.
func Build() fs.FS {
	sub, err := fs.Sub(build, "build")
	if err != nil {
		// fs.Sub only fails on an invalid path; "build" is constant.
		panic(err)
	}
	return sub
}
