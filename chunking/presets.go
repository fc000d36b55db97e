package chunking

import "fmt"

// Preset names a tuned chunking configuration.
type Preset string

const (
	// PresetBalanced suits general meeting transcripts.
	PresetBalanced Preset = "balanced"

	// PresetSpeakerAware keeps speaker turns together in smaller chunks.
	PresetSpeakerAware Preset = "speaker_aware"

	// PresetDense maximizes context per chunk with heavy overlap.
	PresetDense Preset = "dense"
)

// presetConfigs holds the tuned parameters per preset.
var presetConfigs = map[Preset]Config{
	PresetBalanced: {
		Method:                    MethodSentence,
		ChunkSizeTokens:           800,
		OverlapTokens:             200,
		PreserveSpeakerBoundaries: true,
	},
	PresetSpeakerAware: {
		Method:                    MethodSemantic,
		ChunkSizeTokens:           600,
		OverlapTokens:             150,
		PreserveSpeakerBoundaries: true,
	},
	PresetDense: {
		Method:          MethodSlidingWindow,
		ChunkSizeTokens: 1000,
		OverlapTokens:   300,
	},
}

// PresetConfig returns the configuration of a named preset.
func PresetConfig(preset Preset) (Config, error) {
	config, ok := presetConfigs[preset]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	return config, nil
}

// NewPresetChunker creates a TokenChunker from a named preset.
func NewPresetChunker(preset Preset, opts ...TokenChunkerOption) (*TokenChunker, error) {
	config, err := PresetConfig(preset)
	if err != nil {
		return nil, err
	}
	return NewTokenChunker(config, opts...)
}
