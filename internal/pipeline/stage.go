package pipeline

// Stage identifies a phase of a download run, in execution order.
type Stage int

const (
	StageResolvingQuality Stage = iota
	StageFetchingSource
	StageTranscoding
	StageBuildingTagSet
	StageFetchingArtwork
	StageEmbeddingTags
	StageValidatingOutput
)

var stageNames = map[Stage]string{
	StageResolvingQuality: "resolving quality",
	StageFetchingSource:   "downloading",
	StageTranscoding:      "converting",
	StageBuildingTagSet:   "preparing tags",
	StageFetchingArtwork:  "fetching artwork",
	StageEmbeddingTags:    "tagging",
	StageValidatingOutput: "finalizing",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
