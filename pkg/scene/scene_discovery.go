package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to the scene file (json type only)
}

type builtinScene struct {
	info   SceneInfo
	create func() *Scene
}

var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Diffuse, hollow glass and gold spheres on a ground sphere",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "diffuse",
			DisplayName: "Diffuse Spheres",
			Description: "A grey diffuse sphere on a grey ground sphere",
		},
		create: NewDiffuseScene,
	},
	{
		info: SceneInfo{
			ID:          "mirror",
			DisplayName: "Mirror Trap",
			Description: "Camera inside a perfect mirror; renders black at the depth limit",
		},
		create: NewMirrorScene,
	},
	{
		info: SceneInfo{
			ID:          "sphere-grid",
			DisplayName: "Sphere Grid",
			Description: "Grid of rainbow-colored metallic spheres",
		},
		create: NewSphereGridScene,
	},
}

// ScenesDir is where ListScenes looks for JSON scene files
var ScenesDir = "scenes"

// Names returns the ids of the built-in scenes in display order
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		names = append(names, b.info.ID)
	}
	return names
}

// Create builds a scene by built-in name, or loads it when the name is a .json path
func Create(name string) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return LoadSceneFile(name)
	}
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.create(), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
}

// ListJSONScenes scans dir for .json scene files and returns their metadata.
// A missing directory yields an empty list.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %v", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata reads the name and description of a JSON scene file.
// The file name is used when the scene has no name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	info := SceneInfo{
		ID:          filePath,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to read scene file: %w", err)
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info, fmt.Errorf("%s: %w: %v", filePath, ErrInvalidScene, err)
	}
	if header.Name != "" {
		info.DisplayName = header.Name
	}
	info.Description = header.Description

	return info, nil
}

// ListScenes returns the built-in scenes followed by the JSON scenes found in ScenesDir
func ListScenes() ([]SceneInfo, error) {
	var scenes []SceneInfo
	for _, b := range builtinScenes {
		info := b.info
		info.Type = "builtin"
		scenes = append(scenes, info)
	}

	jsonScenes, err := ListJSONScenes(ScenesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list JSON scenes: %v", err)
	}

	return append(scenes, jsonScenes...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
