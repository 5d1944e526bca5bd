package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := &Error{Kind: ErrKindMalformed, Msg: "node #3 has two parents"}
	require.ErrorIs(t, err, ErrMalformedUpdate)
	require.NotErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("apply batch 4: %w", err)
	require.ErrorIs(t, wrapped, ErrMalformedUpdate)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	require.Equal(t, ErrKindMalformed, kind)
}

func TestErrorIsDistinguishesStateFromBusy(t *testing.T) {
	running := &Error{Kind: ErrKindBusy, Msg: "session already running"}
	require.NotErrorIs(t, running, ErrClosed)
	require.Equal(t, "busy", ErrKindBusy.String())
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &Error{Kind: ErrKindFormat, Msg: "decode batch", Err: cause}
	require.Equal(t, "decode batch: unexpected EOF", err.Error())
	require.ErrorIs(t, err, cause)

	var nilErr *Error
	require.Equal(t, "<nil>", nilErr.Error())
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestNodeID(t *testing.T) {
	require.False(t, NoNode.Valid())
	require.True(t, NodeID(7).Valid())
	require.Equal(t, "#7", NodeID(7).String())
	require.Equal(t, "format", ErrKindFormat.String())
}
