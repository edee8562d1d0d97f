package gemmacpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loresico/gemma3-vision-demo/pkg/vision/domain"
)

func stockPrepareParams(mask any) PrepareParams {
	return PrepareParams{
		HiddenSize:      64,
		PadTokenID:      0,
		ImageTokenIndex: 262144,
		InputIDs:        []int32{2, 262144, 17, 23},
		AttentionMask:   mask,
	}
}

func TestStockPrepareInputsRejectsRawMask(t *testing.T) {
	_, err := prepareInputsForMultimodal(stockPrepareParams([]int32{1, 1, 1, 1}))
	require.ErrorIs(t, err, ErrMaskNotTensor)
}

func TestStockPrepareInputsAcceptsTensorMask(t *testing.T) {
	mask := TensorFromInts([]int32{1, 1, 1, 1})
	inputs, err := prepareInputsForMultimodal(stockPrepareParams(mask))
	require.NoError(t, err)
	assert.Same(t, mask, inputs.AttentionMask)
	assert.Equal(t, []int{1}, inputs.ImagePositions)
}

func TestStockPrepareInputsRejectsMaskLengthMismatch(t *testing.T) {
	_, err := prepareInputsForMultimodal(stockPrepareParams(TensorFromInts([]int32{1, 1})))
	require.Error(t, err)
}

func TestCallPrepareInputsReportsSignatureMismatch(t *testing.T) {
	previous := SwapPrepareInputs(func(count int) int { return count })
	defer SwapPrepareInputs(previous)

	_, err := callPrepareInputs(stockPrepareParams(TensorFromInts([]int32{1, 1, 1, 1})))
	require.ErrorIs(t, err, domain.ErrSignatureMismatch)
}

func TestNeedsAttentionMaskPatchForPinnedVersion(t *testing.T) {
	// The pinned binding version is one of the broken ones; if this fails after a version bump,
	// revisit the compat package before deleting it.
	assert.True(t, NeedsAttentionMaskPatch())
}
