package scene

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"three-spheres", "Three Spheres"},
		{"glass_bubble", "Glass Bubble"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListSceneFiles(t *testing.T) {
	dir := t.TempDir()
	twoPath := writeScene(t, dir, "two.yaml", testSceneYAML)
	plainPath := writeScene(t, dir, "plain-scene.yaml", "spheres: []\n")
	writeScene(t, dir, "broken.yaml", "spheres: [\n")
	writeScene(t, dir, "notes.txt", "not a scene")

	scenes, err := ListSceneFiles(dir)
	if err != nil {
		t.Fatalf("ListSceneFiles() error: %v", err)
	}

	want := []SceneInfo{
		{ID: "yaml:plain-scene", Name: "Plain Scene", Group: "Scene Files", Type: "yaml", FilePath: plainPath},
		{ID: "yaml:two", Name: "Two Spheres", Group: "Tests", Type: "yaml", FilePath: twoPath},
	}
	if diff := cmp.Diff(want, scenes); diff != "" {
		t.Errorf("ListSceneFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestListSceneFiles_MissingDirectory(t *testing.T) {
	scenes, err := ListSceneFiles("does-not-exist")
	if err != nil {
		t.Errorf("ListSceneFiles() error: %v", err)
	}
	if scenes == nil || len(scenes) != 0 {
		t.Errorf("Expected empty non-nil list, got %v", scenes)
	}
}

func TestListAllScenes(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "two.yaml", testSceneYAML)

	response, err := ListAllScenes(dir)
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	var names []string
	for _, group := range response.Groups {
		names = append(names, group.Name)
	}
	if diff := cmp.Diff([]string{"Built-in Scenes", "Tests"}, names); diff != "" {
		t.Errorf("group order mismatch (-want +got):\n%s", diff)
	}

	var ids []string
	for _, s := range response.Groups[0].Scenes {
		ids = append(ids, s.ID)
	}
	wantIDs := []string{DefaultSceneID, RandomSpheresSceneID, SphereGridSceneID, FlatSceneID}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("built-in scenes mismatch (-want +got):\n%s", diff)
	}
}
