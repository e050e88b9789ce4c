package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebartels/banksync/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := `{"label":"PRÉLÈVEMENT EDF","amount":"-45,50"}`
	assert.Equal(t, input, decode(t, []byte(input)))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252 "OPÉRATION" (É = 0xC9).
	input := []byte{'O', 'P', 0xC9, 'R', 'A', 'T', 'I', 'O', 'N', '\n'}
	assert.Equal(t, "OPÉRATION\n", decode(t, input))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("PRÉLÈVEMENT\n")...)
	assert.Equal(t, "PRÉLÈVEMENT\n", decode(t, input))
}
