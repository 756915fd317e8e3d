// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package gltf inspects a directory of GLTF model folders.
//
// The expected layout is one folder per model, each holding one or more
// .gltf or .glb files and an optional info.json describing the model:
//
//	gltf/
//		block_wall/
//			wall.gltf
//			info.json
//		gabion-wall/
//			gabion.glb
//
// info.json may contain comments and trailing commas.
package gltf

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"github.com/tidwall/jsonc"
)

// Dir is the conventional name of the directory holding model folders,
// relative to the document root.
const Dir = "gltf"

// InfoFile is the name of the optional per-model description file.
const InfoFile = "info.json"

const (
	defaultIcon        = "🏗️"
	defaultDescription = "GLTF 3D model"
)

// Model describes a single model folder.
type Model struct {
	Name        string         `json:"name"`
	Folder      string         `json:"folder"`
	Icon        string         `json:"icon"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Media types of model files, see
// https://www.iana.org/assignments/media-types/model/gltf+json.
const (
	MediaTypeGLTF = "model/gltf+json"
	MediaTypeGLB  = "model/gltf-binary"
)

// RegisterMIMETypes teaches the mime package, and thus file servers, the
// media types of .gltf and .glb files. It also loads the system MIME tables,
// so it must run before filesystem access is restricted.
func RegisterMIMETypes() error {
	if err := mime.AddExtensionType(".gltf", MediaTypeGLTF); err != nil {
		return err
	}
	return mime.AddExtensionType(".glb", MediaTypeGLB)
}

// IsModelFile reports whether name has a .gltf or .glb extension.
func IsModelFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".gltf" || ext == ".glb"
}

// Subfolders returns names of the immediate subdirectories of fsys, in
// directory order.
func Subfolders(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(entries, func(e fs.DirEntry, _ int) (string, bool) {
		return e.Name(), e.IsDir()
	}), nil
}

// Files returns names of all entries in folder.
func Files(fsys fs.FS, folder string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, folder)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e fs.DirEntry, _ int) string { return e.Name() }), nil
}

// ModelFiles returns names of .gltf and .glb files in folder.
func ModelFiles(fsys fs.FS, folder string) ([]string, error) {
	files, err := Files(fsys, folder)
	if err != nil {
		return nil, err
	}
	return lo.Filter(files, func(name string, _ int) bool { return IsModelFile(name) }), nil
}

// Scan returns a Model for every subfolder of fsys that holds at least one
// model file. Folders that can't be read are skipped.
func Scan(fsys fs.FS) ([]Model, error) {
	folders, err := Subfolders(fsys)
	if err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(folders))
	for _, folder := range folders {
		files, err := ModelFiles(fsys, folder)
		if err != nil || len(files) == 0 {
			continue
		}
		models = append(models, loadModel(fsys, folder))
	}
	return models, nil
}

// loadModel builds the default description of folder and overlays info.json
// on top of it, if present and valid.
func loadModel(fsys fs.FS, folder string) Model {
	m := Model{
		Name:        DisplayName(folder),
		Folder:      folder,
		Icon:        defaultIcon,
		Description: defaultDescription,
	}

	info, err := readInfo(fsys, folder)
	if err != nil {
		return m
	}
	return info.overlay(m)
}

type modelInfo struct {
	Name        *string        `json:"name"`
	Folder      *string        `json:"folder"`
	Icon        *string        `json:"icon"`
	Description *string        `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

func (mi *modelInfo) overlay(m Model) Model {
	if mi.Name != nil {
		m.Name = *mi.Name
	}
	if mi.Folder != nil {
		m.Folder = *mi.Folder
	}
	if mi.Icon != nil {
		m.Icon = *mi.Icon
	}
	if mi.Description != nil {
		m.Description = *mi.Description
	}
	if mi.Metadata != nil {
		m.Metadata = mi.Metadata
	}
	return m
}

func readInfo(fsys fs.FS, folder string) (*modelInfo, error) {
	b, err := fs.ReadFile(fsys, path.Join(folder, InfoFile))
	if err != nil {
		return nil, err
	}
	info := new(modelInfo)
	if err := json.Unmarshal(jsonc.ToJSON(b), info); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", InfoFile, err)
	}
	return info, nil
}

// DisplayName turns a folder name into a human-readable title: underscores and
// dashes become spaces and the first letter of every word is upper-cased.
//
//	DisplayName("block_wall-v2") == "Block Wall V2"
func DisplayName(folder string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(folder)

	var (
		sb        strings.Builder
		wordStart = true
	)
	for _, r := range s {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if isWord && wordStart {
			r = unicode.ToUpper(r)
		}
		wordStart = !isWord
		sb.WriteRune(r)
	}
	return sb.String()
}
