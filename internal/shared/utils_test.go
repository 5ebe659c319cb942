package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWipeByteArray(t *testing.T) {
	b := []byte("hunter2")
	WipeByteArray(b)
	require.Equal(t, make([]byte, 7), b)
}

func TestWipeByteArray_Nil(t *testing.T) {
	require.NotPanics(t, func() { WipeByteArray(nil) })
}
