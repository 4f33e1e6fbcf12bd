package compiler

import "cuelang.org/go/cue"

// cueFilename sets the source filename so positions render as file:line:col.
func cueFilename(name string) cue.BuildOption {
	return cue.Filename(name)
}
