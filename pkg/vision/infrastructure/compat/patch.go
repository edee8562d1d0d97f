// Package compat adapts the gemma3.cpp binding's multimodal input preparation to the raw
// attention masks its own processor produces. The pinned binding version (see gemmacpp.Version)
// requires the mask in native tensor form but hands it over as a raw integer slice, which makes
// every multimodal call fail. Instead of forking the binding, Install replaces its shared
// input-preparation binding with a wrapper that converts the mask first -- the same trade-off the
// upstream issue tracker recommends until the conversion is fixed at the source.
package compat

import (
	"fmt"
	"sync"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/gemmacpp"
)

var (
	installMutex sync.Mutex
	installed    bool
)

// Install wraps the binding's input preparation so raw attention masks are coerced into native
// tensors. Idempotent: repeated calls are no-ops, because an unguarded second install would stack
// wrappers -- silently more expensive and one version bump away from broken. Must run before the
// first inference call; the model loader takes care of that ordering.
func Install(logger common.Logger) error {
	installMutex.Lock()
	defer installMutex.Unlock()
	if installed {
		return nil
	}
	if !gemmacpp.NeedsAttentionMaskPatch() {
		logger.Log("binding version " + gemmacpp.Version + " converts attention masks itself, adapter not installed")
		installed = true
		return nil
	}
	gemmacpp.SwapPrepareInputs(Wrap(gemmacpp.CurrentPrepareInputs()))
	installed = true
	logger.Log("attention-mask compatibility adapter installed (binding version " + gemmacpp.Version + ")")
	return nil
}

// Installed reports whether Install has already run in this process.
func Installed() bool {
	installMutex.Lock()
	defer installMutex.Unlock()
	return installed
}

// Wrap produces a replacement for the original input-preparation operation with an identical
// signature. If the attention mask is already a native tensor, all parameters are forwarded
// unchanged; otherwise the mask is converted and forwarded in its place, all other parameters
// untouched. The original's signature is checked lazily, at first invocation: if the binding
// changes under us, the call fails with domain.ErrSignatureMismatch rather than a generic
// inference failure.
func Wrap(original any) gemmacpp.PrepareInputsFunc {
	return func(params gemmacpp.PrepareParams) (*gemmacpp.ModelInputs, error) {
		fn, ok := original.(gemmacpp.PrepareInputsFunc)
		if !ok {
			return nil, &domain.PatchError{
				Cause: fmt.Errorf("%w: wrapped value has type %T", domain.ErrSignatureMismatch, original),
			}
		}
		if _, ok := params.AttentionMask.(*gemmacpp.Tensor); !ok {
			converted, err := coerceMask(params.AttentionMask)
			if err != nil {
				return nil, &domain.PatchError{Cause: err}
			}
			params.AttentionMask = converted
		}
		return fn(params)
	}
}

// coerceMask converts the raw mask representations the processor is known to produce. A nil mask
// is forwarded as a nil tensor so the original operation keeps deciding whether that is allowed.
func coerceMask(mask any) (*gemmacpp.Tensor, error) {
	switch value := mask.(type) {
	case nil:
		return nil, nil
	case []int32:
		return gemmacpp.TensorFromInts(value), nil
	case []int:
		converted := make([]int32, len(value))
		for i, v := range value {
			converted[i] = int32(v)
		}
		return gemmacpp.TensorFromInts(converted), nil
	case []float32:
		return gemmacpp.NewTensor([]int{1, len(value)}, value)
	default:
		return nil, fmt.Errorf("unsupported attention mask type %T", mask)
	}
}
