package bracelet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jerrors "github.com/matzehuels/jeweler/pkg/errors"
)

func TestNewSpec(t *testing.T) {
	counts := []int{3, 2, 1}
	spec := NewSpec(counts...)
	assert.Equal(t, 6, spec.N)
	assert.Equal(t, 3, spec.K())
	require.NoError(t, spec.Validate())

	counts[0] = 99
	assert.Equal(t, 3, spec.Counts[0], "NewSpec must copy its input")
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"", Bracelet},
		{"bracelet", Bracelet},
		{"Necklaces", Necklace},
		{"lyndon", LyndonWord},
		{"lyndon_word", LyndonWord},
		{"LYNDON-BRACELET", LyndonBracelet},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseMode("anklet")
	require.Error(t, err)
	assert.True(t, jerrors.Is(err, jerrors.ErrCodeInvalidMode))
}

func TestModeAxes(t *testing.T) {
	assert.True(t, Bracelet.Reflect())
	assert.False(t, Bracelet.Aperiodic())
	assert.False(t, Necklace.Reflect())
	assert.False(t, Necklace.Aperiodic())
	assert.False(t, LyndonWord.Reflect())
	assert.True(t, LyndonWord.Aperiodic())
	assert.True(t, LyndonBracelet.Reflect())
	assert.True(t, LyndonBracelet.Aperiodic())
}

func TestModeJSON(t *testing.T) {
	type payload struct {
		Mode Mode `json:"mode"`
	}
	data, err := json.Marshal(payload{Mode: LyndonBracelet})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"lyndon-bracelet"}`, string(data))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"necklace"}`), &p))
	assert.Equal(t, Necklace, p.Mode)

	assert.Error(t, json.Unmarshal([]byte(`{"mode":"chain"}`), &p))
	_, err = json.Marshal(payload{Mode: Mode(9)})
	assert.Error(t, err)
}
