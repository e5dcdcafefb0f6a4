package wallet_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sversluys/walleto/internal/wallet"
)

func TestParseYearMonth(t *testing.T) {
	got, err := wallet.ParseYearMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, wallet.YearMonth{Year: 2024, Month: time.March}, got)

	_, err = wallet.ParseYearMonth("March 2024")
	assert.Error(t, err)

	_, err = wallet.ParseYearMonth("2024-13")
	assert.Error(t, err)
}

func TestYearMonth_Contains(t *testing.T) {
	ym := wallet.YearMonth{Year: 2024, Month: time.March}

	assert.True(t, ym.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ym.Contains(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, ym.Contains(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ym.Contains(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestYearMonth_After(t *testing.T) {
	march := wallet.YearMonth{Year: 2024, Month: time.March}

	assert.True(t, march.After(wallet.YearMonth{Year: 2024, Month: time.February}))
	assert.True(t, march.After(wallet.YearMonth{Year: 2023, Month: time.December}))
	assert.False(t, march.After(march))
	assert.False(t, march.After(wallet.YearMonth{Year: 2024, Month: time.April}))
}

func TestYearMonth_String(t *testing.T) {
	assert.Equal(t, "2024-03", wallet.YearMonth{Year: 2024, Month: time.March}.String())
	assert.Equal(t, "0999-12", wallet.YearMonth{Year: 999, Month: time.December}.String())
}
