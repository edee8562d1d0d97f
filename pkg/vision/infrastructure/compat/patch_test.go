package compat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/gemmacpp"
)

// withCleanState snapshots the shared binding and the install flag so tests that call Install do
// not leak state into each other.
func withCleanState(t *testing.T) {
	t.Helper()
	original := gemmacpp.CurrentPrepareInputs()
	installMutex.Lock()
	wasInstalled := installed
	installed = false
	installMutex.Unlock()
	t.Cleanup(func() {
		gemmacpp.SwapPrepareInputs(original)
		installMutex.Lock()
		installed = wasInstalled
		installMutex.Unlock()
	})
}

func testParams(mask any) gemmacpp.PrepareParams {
	return gemmacpp.PrepareParams{
		HiddenSize:      64,
		PadTokenID:      0,
		ImageTokenIndex: 262144,
		InputIDs:        []int32{2, 10, 262144, 11},
		AttentionMask:   mask,
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	withCleanState(t)
	require.NoError(t, Install(common.NewNullLogger()))
	require.True(t, Installed())
	afterFirst := gemmacpp.CurrentPrepareInputs()

	require.NoError(t, Install(common.NewNullLogger()))
	// A second install must not stack another wrapper on top of the first.
	assert.True(t, afterFirst != nil)
	inputs, err := gemmacpp.CurrentPrepareInputs().(gemmacpp.PrepareInputsFunc)(testParams([]int32{1, 1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, inputs.ImagePositions)
}

func TestInstalledReportsFalseBeforeInstall(t *testing.T) {
	withCleanState(t)
	assert.False(t, Installed())
}

func TestWrapConvertsRawMask(t *testing.T) {
	wrapped := Wrap(gemmacpp.CurrentPrepareInputs())

	inputs, err := wrapped(testParams([]int32{1, 1, 1, 1}))
	require.NoError(t, err)
	require.NotNil(t, inputs.AttentionMask)
	assert.Equal(t, []int{1, 4}, inputs.AttentionMask.Shape)
	assert.Equal(t, []float32{1, 1, 1, 1}, inputs.AttentionMask.Data)
	assert.Equal(t, []int{2}, inputs.ImagePositions)
}

func TestWrapPassesNativeTensorThrough(t *testing.T) {
	mask := gemmacpp.TensorFromInts([]int32{1, 1, 1, 1})
	wrapped := Wrap(gemmacpp.CurrentPrepareInputs())

	inputs, err := wrapped(testParams(mask))
	require.NoError(t, err)
	assert.Same(t, mask, inputs.AttentionMask)
}

func TestWrapMatchesDirectCallOnNativeTensor(t *testing.T) {
	mask := gemmacpp.TensorFromInts([]int32{1, 1, 1, 1})
	direct := gemmacpp.CurrentPrepareInputs().(gemmacpp.PrepareInputsFunc)

	directInputs, err := direct(testParams(mask))
	require.NoError(t, err)
	wrappedInputs, err := Wrap(gemmacpp.CurrentPrepareInputs())(testParams(mask))
	require.NoError(t, err)
	assert.Equal(t, directInputs, wrappedInputs)
}

func TestWrapReportsSignatureMismatchLazily(t *testing.T) {
	// Building the wrapper around an incompatible value must not fail yet.
	wrapped := Wrap(func(n int) int { return n })

	_, err := wrapped(testParams([]int32{1, 1, 1, 1}))
	require.ErrorIs(t, err, domain.ErrSignatureMismatch)
	assert.Equal(t, domain.ErrorKindPatch, domain.KindOf(err))
}

func TestWrapRejectsUnsupportedMaskType(t *testing.T) {
	wrapped := Wrap(gemmacpp.CurrentPrepareInputs())

	_, err := wrapped(testParams("not a mask"))
	var patchError *domain.PatchError
	require.ErrorAs(t, err, &patchError)
	assert.False(t, errors.Is(err, domain.ErrSignatureMismatch))
}

func TestInstalledBindingAcceptsRawMask(t *testing.T) {
	withCleanState(t)
	// Before the adapter, the stock binding rejects the processor's raw mask.
	_, err := gemmacpp.CurrentPrepareInputs().(gemmacpp.PrepareInputsFunc)(testParams([]int32{1, 1, 1, 1}))
	require.ErrorIs(t, err, gemmacpp.ErrMaskNotTensor)

	require.NoError(t, Install(common.NewNullLogger()))
	inputs, err := gemmacpp.CurrentPrepareInputs().(gemmacpp.PrepareInputsFunc)(testParams([]int32{1, 1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, inputs.ImagePositions)
}
