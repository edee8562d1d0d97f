package gemmacpp

import (
	"errors"
	"fmt"
	"sync"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
)

// Version the version of the bundled binding. Kept in sync with the gemma3.cpp snapshot we ship
// against; the compatibility adapter consults NeedsAttentionMaskPatch before wrapping anything.
const Version = "0.3.5"

// Versions whose input preparation rejects raw attention masks instead of converting them.
var brokenMaskVersions = []string{"0.3.4", "0.3.5"}

// NeedsAttentionMaskPatch reports whether this binding version still requires the attention-mask
// compatibility adapter. Once the conversion is fixed upstream this starts returning false and the
// adapter install becomes a no-op.
func NeedsAttentionMaskPatch() bool {
	return common.IsStringInSlice(Version, brokenMaskVersions)
}

// ErrMaskNotTensor the stock input preparation requires the attention mask in native tensor form
// and fails otherwise. This is the upstream defect the compatibility adapter exists to paper over.
var ErrMaskNotTensor = errors.New("expand_dims: attention mask must be a *gemmacpp.Tensor")

// PrepareParams mirrors the parameter list of the binding's multimodal input preparation
// operation. AttentionMask is declared as `any` because callers historically pass either the
// native *Tensor or the raw []int32 straight from the processor.
type PrepareParams struct {
	HiddenSize      int
	PadTokenID      int32
	ImageTokenIndex int32
	ImageFeatures   *Tensor
	InputsEmbeds    *Tensor
	InputIDs        []int32
	AttentionMask   any
}

// ModelInputs the prepared inputs handed to the generation step.
type ModelInputs struct {
	InputIDs       []int32
	AttentionMask  *Tensor
	ImagePositions []int
}

// PrepareInputsFunc the signature of the multimodal input preparation operation.
type PrepareInputsFunc func(params PrepareParams) (*ModelInputs, error)

// The operation is held in a package-level binding typed as `any` so that an adapter can replace
// it at startup without this package knowing about the adapter. This is a shared mutable binding
// by design: the alternative would be forking the binding to fix its mask handling.
var (
	prepareMutex  sync.RWMutex
	prepareInputs any = PrepareInputsFunc(prepareInputsForMultimodal)
)

// CurrentPrepareInputs returns the operation currently bound for multimodal input preparation.
func CurrentPrepareInputs() any {
	prepareMutex.RLock()
	defer prepareMutex.RUnlock()
	return prepareInputs
}

// SwapPrepareInputs replaces the shared binding and returns the previous value.
func SwapPrepareInputs(fn any) any {
	prepareMutex.Lock()
	defer prepareMutex.Unlock()
	previous := prepareInputs
	prepareInputs = fn
	return previous
}

// callPrepareInputs invokes whatever operation is currently bound. The type assertion is deferred
// to the call site so an incompatible replacement fails at first invocation with a recognizable
// error instead of failing silently at install time.
func callPrepareInputs(params PrepareParams) (*ModelInputs, error) {
	fn, ok := CurrentPrepareInputs().(PrepareInputsFunc)
	if !ok {
		return nil, fmt.Errorf("%w: bound value has type %T", domain.ErrSignatureMismatch, CurrentPrepareInputs())
	}
	return fn(params)
}

// prepareInputsForMultimodal the stock implementation: validates the mask, locates the image
// placeholder tokens and bundles everything for generation. Mirrors the strictness of the pinned
// binding version, which is exactly why the compatibility adapter is needed in front of it.
func prepareInputsForMultimodal(params PrepareParams) (*ModelInputs, error) {
	mask, ok := params.AttentionMask.(*Tensor)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrMaskNotTensor, params.AttentionMask)
	}
	if mask != nil && len(mask.Data) != len(params.InputIDs) {
		return nil, fmt.Errorf("attention mask covers %d tokens, input has %d", len(mask.Data), len(params.InputIDs))
	}
	var imagePositions []int
	for i, id := range params.InputIDs {
		if id == params.ImageTokenIndex {
			imagePositions = append(imagePositions, i)
		}
	}
	return &ModelInputs{
		InputIDs:       params.InputIDs,
		AttentionMask:  mask,
		ImagePositions: imagePositions,
	}, nil
}
