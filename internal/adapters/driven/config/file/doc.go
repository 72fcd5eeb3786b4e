// Package file loads the build configuration from a TOML file.
//
// A missing default file is not an error: the built-in collections and pages
// are used. Environment variables override the file for the Storyblok token
// and the content version.
package file
