package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("9007199254740993")
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), id.Int64())

	id, err = ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)

	for _, raw := range []string{"", "abc", "1.5", "0x10", "1e3"} {
		_, err := ParseID(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestIDMarshalsAsDecimalString(t *testing.T) {
	// Above 2^53: would lose precision as a bare JSON number.
	data, err := json.Marshal(ID(9007199254740993))
	require.NoError(t, err)
	assert.Equal(t, `"9007199254740993"`, string(data))
}

func TestIDUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`"123"`), &id))
	assert.Equal(t, ID(123), id)

	require.NoError(t, json.Unmarshal([]byte(`456`), &id))
	assert.Equal(t, ID(456), id)

	// Above 2^53: a float64 round trip would round this to ...992.
	require.NoError(t, json.Unmarshal([]byte(`9007199254740993`), &id))
	assert.Equal(t, int64(9007199254740993), id.Int64())

	assert.Error(t, json.Unmarshal([]byte(`1.5`), &id))
	assert.Error(t, json.Unmarshal([]byte(`1e3`), &id))
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
	assert.Error(t, json.Unmarshal([]byte(`"12a"`), &id))
}
