package utils

import "time"

//FalseDetectionLabel is the reserved class a reviewer assigns to a model box that is not a real object
const FalseDetectionLabel = "false_detection"

//UnlabelledLabel is the reserved class of a box drawn by a reviewer that was not classified yet
const UnlabelledLabel = "unlabelled"

//ReservedLabels are always appended to a class vocabulary, in this order
var ReservedLabels = []string{FalseDetectionLabel, UnlabelledLabel}

//MinBoxWidth is the smallest width (display pixels) of a drawn box that is kept
const MinBoxWidth = 50

//MinBoxHeight is the smallest height (display pixels) of a drawn box that is kept
const MinBoxHeight = 50

//DefaultDisplayWidth is the width of the player canvas the browser client renders boxes on
const DefaultDisplayWidth = 960

//DefaultDisplayHeight is the height of the player canvas the browser client renders boxes on
const DefaultDisplayHeight = 540

//AutoSaveInterval is how often unsaved corrections are pushed to the backend
const AutoSaveInterval = 180000 * time.Millisecond

//SeekEpsilon is added to a frame's start time when seeking, so the player lands inside the frame
const SeekEpsilon = 0.0001
