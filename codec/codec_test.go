package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type describedUpdate struct {
	Op     string   `json:"op"`
	Path   string   `json:"path"`
	Values []string `json:"values,omitempty"`
}

func TestCodecs(t *testing.T) {
	in := describedUpdate{Op: "add", Path: "tags", Values: []string{"a", "b"}}
	want := `{"op":"add","path":"tags","values":["a","b"]}`

	for _, name := range []string{"json", "go-json"} {
		t.Run(name, func(t *testing.T) {
			c, err := ByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, c.Name())

			data, err := c.Marshal(in)
			require.NoError(t, err)
			assert.JSONEq(t, want, string(data))

			var out describedUpdate
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}

	_, err := ByName("msgpack")
	assert.Error(t, err)

	c, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, Default.Name(), c.Name())
}
