package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	value int
}

func TestApplyRunsOptionsInOrder(t *testing.T) {
	tgt := &target{}
	err := Apply(tgt,
		NoError(func(t *target) { t.value = 1 }),
		NoError(func(t *target) { t.value += 10 }),
	)
	require.NoError(t, err)
	require.Equal(t, 11, tgt.value)
}

func TestApplyStopsAtFirstError(t *testing.T) {
	tgt := &target{}
	wantErr := errors.New("boom")
	err := Apply(tgt,
		New(func(t *target) error { t.value = 1; return nil }),
		New(func(t *target) error { return wantErr }),
		NoError(func(t *target) { t.value = 100 }),
	)
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 1, tgt.value)
}

func TestApplyNoOptionsIsNoOp(t *testing.T) {
	tgt := &target{value: 5}
	require.NoError(t, Apply(tgt))
	require.Equal(t, 5, tgt.value)
}
