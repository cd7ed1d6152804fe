// Package storyboard turns free-text scene descriptions from the
// completion service into structured, repaired scene records.
package storyboard

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/mikeoller82/youtube-shorts-generator/types"
)

var sceneNumberLine = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)

// Parse scans storyboard text line by line. A line beginning with "<n>."
// starts a new scene; any other line containing ':' is merged into the
// current scene as a lower-cased key/value pair. Unrecognized lines are
// logged and discarded. Scenes missing required fields are repaired with
// deterministic placeholders, never dropped. An empty result signals an
// unusable storyboard; the caller decides whether that aborts the run.
func Parse(text string) types.Storyboard {
	var scenes types.Storyboard
	seen := make(map[int]bool)
	fields := make(map[string]string)
	number := 0
	inScene := false

	flush := func() {
		if !inScene {
			return
		}
		if seen[number] {
			log.Printf("[storyboard] Warning: duplicate scene number %d — keeping the first", number)
			fields = make(map[string]string)
			return
		}
		seen[number] = true
		scenes = append(scenes, repairScene(fields, number))
		fields = make(map[string]string)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := sceneNumberLine.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n <= 0 {
				log.Printf("[storyboard] Warning: invalid scene number line %q — skipping", line)
				continue
			}
			flush()
			number = n
			inScene = true
			// "1. Visual: ..." puts the first field on the number line.
			if rest := strings.TrimSpace(m[2]); rest != "" && strings.Contains(rest, ":") {
				mergeField(fields, rest)
			}
			continue
		}

		if strings.Contains(line, ":") {
			if !inScene {
				log.Printf("[storyboard] Warning: field before any scene number: %q", line)
				continue
			}
			mergeField(fields, line)
			continue
		}

		log.Printf("[storyboard] Warning: unrecognized line: %q", line)
	}
	flush()

	log.Printf("[storyboard] Parsed %d scene(s)", len(scenes))
	return scenes
}

func mergeField(fields map[string]string, line string) {
	key, value, _ := strings.Cut(line, ":")
	fields[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
}

// repairScene builds a Scene from parsed fields, filling every missing
// required field with a placeholder derived from the scene number.
func repairScene(fields map[string]string, number int) types.Scene {
	scene := types.Scene{Number: number}

	visual, ok := fields["visual"]
	if !ok {
		visual = fmt.Sprintf("Visual representation of scene %d", number)
		log.Printf("[storyboard] Added missing visual for scene %d", number)
	}
	scene.Visual = visual

	text, ok := fields["text"]
	if !ok {
		log.Printf("[storyboard] Added missing text for scene %d", number)
	}
	text = stripQuotes(text)
	scene.NarrationText = text

	videoKeyword, ok := fields["video keyword"]
	if !ok {
		videoKeyword = fmt.Sprintf("video scene %d", number)
		log.Printf("[storyboard] Added missing video keyword for scene %d", number)
	}
	scene.VideoKeyword = videoKeyword

	imageKeyword, ok := fields["image keyword"]
	if !ok {
		imageKeyword = fmt.Sprintf("image scene %d", number)
		log.Printf("[storyboard] Added missing image keyword for scene %d", number)
	}
	scene.ImageKeyword = imageKeyword

	return scene
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"`)
	s = strings.Trim(s, `'`)
	return s
}
