package loader

import (
	"embed"
	"io/fs"
)

//go:embed samples/*
var embeddedSamples embed.FS

// SamplesFS returns the bundled example forms, one per supported format.
func SamplesFS() fs.FS {
	sub, err := fs.Sub(embeddedSamples, "samples")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}
