package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	enc "github.com/sversluys/walleto/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := enc.ToUTF8(bytes.NewReader(input))
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestToUTF8_PlainASCII(t *testing.T) {
	assert.Equal(t, "Date,Amount\n", decode(t, []byte("Date,Amount\n")))
}

func TestToUTF8_UTF8Passthrough(t *testing.T) {
	assert.Equal(t, "Descrição;Montante", decode(t, []byte("Descrição;Montante")))
}

func TestToUTF8_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Amount")...)
	assert.Equal(t, "Date,Amount", decode(t, input))
}

func TestToUTF8_UTF16LittleEndian(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, _, err := transform.Bytes(encoder, []byte("Data mov.;Descrição"))
	require.NoError(t, err)

	assert.Equal(t, "Data mov.;Descrição", decode(t, input))
}

func TestToUTF8_UTF16BigEndian(t *testing.T) {
	encoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	input, _, err := transform.Bytes(encoder, []byte("Saldo inicial"))
	require.NoError(t, err)

	assert.Equal(t, "Saldo inicial", decode(t, input))
}

func TestToUTF8_Latin1(t *testing.T) {
	encoder := charmap.Windows1252.NewEncoder()
	input, _, err := transform.Bytes(encoder, []byte("TRANSFERÊNCIA CRÉDITO"))
	require.NoError(t, err)
	require.False(t, bytes.Equal(input, []byte("TRANSFERÊNCIA CRÉDITO")), "input must actually be legacy-encoded")

	assert.Equal(t, "TRANSFERÊNCIA CRÉDITO", decode(t, input))
}
