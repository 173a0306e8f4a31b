package gateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	var tests = []struct {
		name string
		body string
		want Payload
	}{
		{"empty body", "", Payload{}},
		{"whitespace body", "  \n", Payload{}},
		{"empty object", "{}", Payload{}},
		{"keeps order", `{"name":"Ann","email":"a@x.com","age":30}`,
			Payload{{"name", "Ann"}, {"email", "a@x.com"}, {"age", int64(30)}}},
		{"reverse order", `{"email":"a@x.com","name":"Ann"}`,
			Payload{{"email", "a@x.com"}, {"name", "Ann"}}},
		{"scalars", `{"a":null,"b":true,"c":false,"d":1.5,"e":-7}`,
			Payload{{"a", nil}, {"b", true}, {"c", false}, {"d", 1.5}, {"e", int64(-7)}}},
		{"big integer stays exact", `{"n":123456789012345678901234567890}`,
			Payload{{"n", "123456789012345678901234567890"}}},
		{"nested as json text", `{"tags":["a", "b"],"meta":{ "k" : 1 }}`,
			Payload{{"tags", `["a","b"]`}, {"meta", `{"k":1}`}}},
		{"duplicate keeps first position", `{"a":1,"b":2,"a":3}`,
			Payload{{"a", int64(3)}, {"b", int64(2)}}},
		{"odd keys", `{"first name":"x","a\"b":"y"}`,
			Payload{{"first name", "x"}, {`a"b`, "y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePayload(strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	for _, body := range []string{
		`[1,2]`,
		`"text"`,
		`42`,
		`{"a":}`,
		`{"a":1`,
		`{"a":1}{"b":2}`,
		`{"a":1} trailing`,
		`not json`,
	} {
		t.Run(body, func(t *testing.T) {
			_, err := DecodePayload(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestPayloadAccessors(t *testing.T) {
	p := Payload{{"name", "Ann"}, {"id", int64(4)}}
	assert.Equal(t, []string{"name", "id"}, p.Columns())

	v, ok := p.Get("id")
	assert.True(t, ok)
	assert.Equal(t, int64(4), v)

	_, ok = p.Get("email")
	assert.False(t, ok)
}
