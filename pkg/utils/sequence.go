package utils

import "math"

//FrameAt returns the frame shown at given media time (seconds), for a video playing at fps frames per second
func FrameAt(mediaTime, fps float64) int {
	if fps <= 0 || mediaTime <= 0 {
		return 0
	}

	return int(math.Round(mediaTime * fps))
}

//SeekTime returns the media time a player should seek to in order to display given frame
func SeekTime(frame int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}

	return float64(frame)/fps + SeekEpsilon
}
