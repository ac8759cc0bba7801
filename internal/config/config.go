package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; the settings store is optional.
	DefaultDatabaseURL = ""

	// DefaultAppName is shown when no application name is configured.
	DefaultAppName = "Laravel"

	// DefaultLocale is the application locale used for the document language.
	DefaultLocale = "en"

	// AssetsBaseURL is the URL prefix the build directory is served under.
	AssetsBaseURL = "/build/"
)

// DefaultAssetEntries are the manifest entries linked from the welcome page head.
var DefaultAssetEntries = []string{"resources/css/app.css", "resources/js/app.js"}
