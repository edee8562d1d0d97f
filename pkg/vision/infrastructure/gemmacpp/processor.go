package gemmacpp

import (
	"hash/fnv"
	"strings"
)

// Processor the host-side companion of the model weights: it turns a formatted prompt into token
// IDs and an attention mask. The authoritative tokenization happens inside the gemma3.cpp process;
// the host-side IDs only need to be stable and to mark image placeholders correctly, since they are
// used for splicing image features and for sizing the context window.
type Processor struct {
	imageToken      string
	imageTokenIndex int32
	bosTokenID      int32
	vocabSize       int32
}

// EncodedPrompt the processor's output. AttentionMask is deliberately raw (not a *Tensor): the
// pinned binding version hands it to input preparation as-is, which is the incompatibility the
// adapter fixes.
type EncodedPrompt struct {
	InputIDs      []int32
	AttentionMask []int32
}

func newProcessor(config ModelConfig) *Processor {
	return &Processor{
		imageToken:      ImageToken,
		imageTokenIndex: config.ImageTokenIndex,
		bosTokenID:      config.BOSTokenID,
		vocabSize:       config.VocabSize,
	}
}

// Encode tokenizes `prompt`. Image placeholder tokens map to the configured image token index;
// everything else is hashed into the vocabulary range.
func (p *Processor) Encode(prompt string) *EncodedPrompt {
	inputIDs := []int32{p.bosTokenID}
	for _, piece := range strings.Fields(p.splitImageTokens(prompt)) {
		if piece == p.imageToken {
			inputIDs = append(inputIDs, p.imageTokenIndex)
			continue
		}
		inputIDs = append(inputIDs, p.tokenID(piece))
	}
	mask := make([]int32, len(inputIDs))
	for i := range mask {
		mask[i] = 1
	}
	return &EncodedPrompt{InputIDs: inputIDs, AttentionMask: mask}
}

// splitImageTokens makes sure image tokens survive whitespace splitting even when glued to text.
func (p *Processor) splitImageTokens(prompt string) string {
	return strings.ReplaceAll(prompt, p.imageToken, " "+p.imageToken+" ")
}

func (p *Processor) tokenID(piece string) int32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(piece))
	id := int32(h.Sum32() % uint32(p.vocabSize))
	if id == p.imageTokenIndex {
		id++
	}
	return id
}
