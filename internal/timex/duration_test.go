package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`"15m"`), &d))
		assert.Equal(t, 15*time.Minute, d.Duration)
	})

	t.Run("numeric nanoseconds", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
		assert.Equal(t, time.Second, d.Duration)
	})

	t.Run("bad string", func(t *testing.T) {
		var d Duration
		require.Error(t, json.Unmarshal([]byte(`"fifteen minutes"`), &d))
	})

	t.Run("wrong type", func(t *testing.T) {
		var d Duration
		require.Error(t, json.Unmarshal([]byte(`{"m":15}`), &d))
	})
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration{Duration: 90 * time.Second}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestDuration_RoundTrip(t *testing.T) {
	in := Duration{Duration: 10 * time.Minute}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out Duration
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in.Duration, out.Duration)
}
