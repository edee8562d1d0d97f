package domain

import "strings"

// ResponseCleaner local runtimes tend to echo the prompt and loader noise around the actual answer,
// so we trim the output before it reaches the user. The cleaner can also have additional
// post-processing specific to the model.
type ResponseCleaner interface {
	CleanResponse(response string) string
}

type responseCleaner struct {
	startAnchor string
	stopTokens  []string
}

// NewResponseCleaner cleans output in the Gemma chat format: everything before the last model-turn
// marker is echoed prompt, and generation may stop with an explicit end-of-turn token which should
// not be shown to the user.
func NewResponseCleaner() ResponseCleaner {
	return &responseCleaner{
		startAnchor: "<start_of_turn>model",
		stopTokens:  []string{"<end_of_turn>", "<eos>"},
	}
}

func (r *responseCleaner) CleanResponse(response string) string {
	anchorIndex := strings.LastIndex(response, r.startAnchor)
	if anchorIndex != -1 {
		response = response[anchorIndex+len(r.startAnchor):]
	}
	for _, stopToken := range r.stopTokens {
		stopIndex := strings.Index(response, stopToken)
		if stopIndex != -1 {
			response = response[:stopIndex]
		}
	}
	return strings.TrimSpace(response)
}
