// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Viewserve serves the retaining wall 3D viewer from a directory over HTTP and
opens its debug page in a browser.

# Usage

	$ viewserve [flags...] [dir]

Dir is the document root and defaults to the current directory. Models are
expected in the gltf folder under it, one folder per model:

	gltf/
		block_wall/
			wall.gltf
			info.json

Viewserve looks for a free port starting at 8000, trying up to 100 ports in
a row, and serves the document root on all interfaces. Once started it opens
http://localhost:<port>/debug-helper.html. Press Ctrl+C to stop it.

Besides static files, two JSON endpoints describe the models:

	GET /gltf/list.json            models that have .gltf or .glb files
	GET /gltf/<folder>/files.json  model files of a single folder

The optional info.json in a model folder overrides the defaults shown in the
model picker:

	{
		"name": "Block wall",
		"icon": "🧱",
		"description": "Precast block retaining wall",
		"metadata": {"version": "1.0"}
	}
*/
package main

import (
	_ "embed"

	"github.com/wallviewer/tools/internal/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
