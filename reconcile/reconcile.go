// Package reconcile rescales per-scene visual durations so their sum
// matches the measured narration duration.
package reconcile

import (
	"log"
	"math"

	"github.com/mikeoller82/youtube-shorts-generator/types"
)

// minSceneDur is the last-resort floor when both the default and floor
// durations are configured non-positive.
const minSceneDur = 0.1

// Adjust sets every scene's AdjustedDuration. A scene's nominal visual
// duration is its measured audio duration, or defaultDur when silent;
// nominal durations at or below zero get the positive floor before
// scaling so no clip can come out zero-length. When the nominal total
// differs from the audio total by more than tolerance seconds, every
// duration is scaled by audioTotal/nominalTotal.
//
// Postcondition: sum(AdjustedDuration) is within tolerance of the audio
// total and every AdjustedDuration > 0.
func Adjust(scenes types.Storyboard, defaultDur, floorDur, tolerance float64) {
	if len(scenes) == 0 {
		return
	}
	if floorDur <= 0 {
		floorDur = defaultDur
	}
	if floorDur <= 0 {
		// Both knobs misconfigured; keep the invariant anyway.
		floorDur = minSceneDur
	}

	var audioTotal, nominalTotal float64
	nominals := make([]float64, len(scenes))
	for i, scene := range scenes {
		audioTotal += scene.AudioDuration

		nominal := scene.AudioDuration
		if nominal <= 0 {
			nominal = defaultDur
		}
		if nominal <= 0 {
			nominal = floorDur
		}
		nominals[i] = nominal
		nominalTotal += nominal
	}

	log.Printf("[reconcile] audio total %.2fs, nominal visual total %.2fs", audioTotal, nominalTotal)

	if audioTotal <= 0 || math.Abs(nominalTotal-audioTotal) <= tolerance {
		for i := range scenes {
			scenes[i].AdjustedDuration = nominals[i]
		}
		return
	}

	factor := audioTotal / nominalTotal
	log.Printf("[reconcile] durations drift beyond %.2fs — scaling factor %.4f", tolerance, factor)
	for i := range scenes {
		scenes[i].AdjustedDuration = nominals[i] * factor
		log.Printf("[reconcile] scene %d: %.2fs → %.2fs", scenes[i].Number, nominals[i], scenes[i].AdjustedDuration)
	}
}
