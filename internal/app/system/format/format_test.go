package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	f := Default()

	cases := []struct {
		in   int64
		want string
	}{
		{0, "-"},
		{7, "7"},
		{50, "50"},
		{900, "900"},
		{1000, "1,000"},
		{6738225, "6,738,225"},
		{676609955, "676,609,955"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, f.Count(tc.in), "Count(%d)", tc.in)
	}
}

func TestGrouped_ZeroIsShown(t *testing.T) {
	assert.Equal(t, "0", Default().Grouped(0))
}

func TestLastUpdate_NotPadded(t *testing.T) {
	f := Default()
	ts := time.Date(2023, time.March, 9, 4, 5, 6, 0, time.UTC)
	assert.Equal(t, "4:5:6 9-3-2023", f.LastUpdate(ts))
}

func TestLastUpdate_TwentyFourHour(t *testing.T) {
	f := Default()
	ts := time.Date(2021, time.December, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "23:59:0 31-12-2021", f.LastUpdate(ts))
}

func TestLastUpdate_Zero(t *testing.T) {
	assert.Equal(t, "", Default().LastUpdate(time.Time{}))
}

func TestLastUpdate_DisplayZone(t *testing.T) {
	f, err := New("en", "Asia/Jakarta")
	require.NoError(t, err)

	// 1700000000000 ms is 2023-11-14 22:13:20 UTC, 05:13:20 next day in WIB.
	ts := time.UnixMilli(1700000000000)
	assert.Equal(t, "5:13:20 15-11-2023", f.LastUpdate(ts))
}

func TestNew_Errors(t *testing.T) {
	_, err := New("not a locale!!", "")
	assert.Error(t, err)

	_, err = New("en", "Mars/Olympus_Mons")
	assert.Error(t, err)
}
