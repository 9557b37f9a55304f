// internal/content/record/record_test.go
package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Parse Tests
// ==========================

func TestParse_PreservesKeyOrder(t *testing.T) {
	v, err := ParseString(`{"month":"Jan","sales":4000,"profit":2400,"name":"x"}`)
	require.NoError(t, err)

	rec, ok := v.AsRecord()
	require.True(t, ok)
	assert.Equal(t, []string{"month", "sales", "profit", "name"}, rec.Keys())

	sales, _ := rec.Get("sales")
	n, ok := sales.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 4000.0, n)
}

func TestParse_NestedValues(t *testing.T) {
	v, err := ParseString(`{"a":[1,"two",true,null,{"b":{}}]}`)
	require.NoError(t, err)

	rec, _ := v.AsRecord()
	a, _ := rec.Get("a")
	items, ok := a.AsList()
	require.True(t, ok)
	require.Len(t, items, 5)
	assert.Equal(t, KindNumber, items[0].Kind())
	assert.Equal(t, KindString, items[1].Kind())
	assert.Equal(t, KindBool, items[2].Kind())
	assert.True(t, items[3].IsNull())
	assert.Equal(t, KindRecord, items[4].Kind())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated", `{"a":1`},
		{"trailing comma", `{"a":1,}`},
		{"trailing data", `{"a":1} extra`},
		{"bare word", `chart`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidJSON))
		})
	}
}

func TestParse_TrailingWhitespaceAllowed(t *testing.T) {
	_, err := ParseString("[1,2]\n\t ")
	assert.NoError(t, err)
}

// ==========================
// Record Tests
// ==========================

func TestRecord_SetKeepsPosition(t *testing.T) {
	var r Record
	r.Set("a", Number(1))
	r.Set("b", Number(2))
	r.Set("a", String("updated"))

	assert.Equal(t, []string{"a", "b"}, r.Keys())
	s, ok := r.GetString("a")
	assert.True(t, ok)
	assert.Equal(t, "updated", s)
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	orig := New(
		Field{Name: "name", Value: String("Acme")},
		Field{Name: "tags", Value: List(String("x"))},
	)
	c := orig.Clone()
	c.Set("name", String("Other"))
	c.Set("extra", Bool(true))

	name, _ := orig.GetString("name")
	assert.Equal(t, "Acme", name)
	assert.False(t, orig.Has("extra"))
	assert.Equal(t, 2, orig.Len())
}

func TestRecord_MarshalJSONOrdered(t *testing.T) {
	r := New(
		Field{Name: "z", Value: Number(1.5)},
		Field{Name: "a", Value: String("q\"uote")},
		Field{Name: "m", Value: Null()},
		Field{Name: "l", Value: List(Bool(false), Number(3))},
	)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1.5,"a":"q\"uote","m":null,"l":[false,3]}`, string(b))
}

func TestRecord_UnmarshalJSONRejectsNonObject(t *testing.T) {
	var r Record
	err := json.Unmarshal([]byte(`[1,2]`), &r)
	assert.Error(t, err)
}

func TestRecord_UnmarshalInsideStruct(t *testing.T) {
	var payload struct {
		Record Record `json:"record"`
	}
	err := json.Unmarshal([]byte(`{"record":{"b":1,"a":2}}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, payload.Record.Keys())
}

func TestFromMap_SortsKeys(t *testing.T) {
	r := FromMap(map[string]interface{}{
		"value": 10,
		"name":  "A",
		"meta":  map[string]interface{}{"k": []interface{}{"v"}},
	})

	assert.Equal(t, []string{"meta", "name", "value"}, r.Keys())
	v, _ := r.Get("value")
	n, _ := v.AsNumber()
	assert.Equal(t, 10.0, n)
	assert.Equal(t, map[string]interface{}{
		"value": 10.0,
		"name":  "A",
		"meta":  map[string]interface{}{"k": []interface{}{"v"}},
	}, r.ToMap())
}
