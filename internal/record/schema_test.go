package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySchema(t *testing.T) {
	assert.Equal(t, "syslog.Key", KeySchema.Name())

	f, ok := KeySchema.Field(FieldRemoteAddress)
	require.True(t, ok)
	assert.Equal(t, TypeString, f.Type)
	assert.False(t, f.Optional, "key remote_address must be required")

	assert.Len(t, KeySchema.Fields(), 1)
}

func TestValueSchema(t *testing.T) {
	assert.Equal(t, "syslog.Value", ValueSchema.Name())

	wantTypes := map[string]Type{
		FieldDate:          TypeTimestamp,
		FieldFacility:      TypeInt32,
		FieldHost:          TypeString,
		FieldLevel:         TypeInt32,
		FieldMessage:       TypeString,
		FieldCharset:       TypeString,
		FieldRemoteAddress: TypeString,
		FieldHostname:      TypeString,
	}
	assert.Len(t, ValueSchema.Fields(), len(wantTypes))

	for name, typ := range wantTypes {
		f, ok := ValueSchema.Field(name)
		require.True(t, ok, "field %s missing", name)
		assert.Equal(t, typ, f.Type, "field %s", name)
		assert.True(t, f.Optional, "value field %s must be optional", name)
	}
}

func TestSchemaFieldsCopies(t *testing.T) {
	fields := ValueSchema.Fields()
	fields[0].Name = "mutated"

	f, ok := ValueSchema.Field(FieldDate)
	require.True(t, ok)
	assert.Equal(t, FieldDate, f.Name)
}

func TestNewSchemaDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("dup", "",
			Field{Name: "a", Type: TypeString},
			Field{Name: "a", Type: TypeString},
		)
	})
}

func TestStructPut(t *testing.T) {
	s := NewStruct(ValueSchema)

	require.NoError(t, s.Put(FieldMessage, "hello"))
	require.NoError(t, s.Put(FieldFacility, int32(4)))
	require.NoError(t, s.Put(FieldDate, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)))

	err := s.Put("not_a_field", "x")
	assert.Error(t, err)

	err = s.Put(FieldFacility, "not an int32")
	assert.Error(t, err)

	err = s.Put(FieldMessage, 7)
	assert.Error(t, err)
}

func TestStructAbsenceIsNotZero(t *testing.T) {
	s := NewStruct(ValueSchema)
	require.NoError(t, s.Put(FieldMessage, ""))

	assert.True(t, s.Has(FieldMessage), "explicit empty string is present")
	assert.False(t, s.Has(FieldHost), "untouched field is absent")

	host, ok := s.GetString(FieldHost)
	assert.False(t, ok)
	assert.Equal(t, "", host)
}

func TestStructValidate(t *testing.T) {
	key := NewStruct(KeySchema)
	assert.Error(t, key.Validate(), "missing required remote_address")

	require.NoError(t, key.Put(FieldRemoteAddress, "203.0.113.5:514"))
	assert.NoError(t, key.Validate())

	// All value fields are optional; an empty value struct is valid.
	assert.NoError(t, NewStruct(ValueSchema).Validate())
}

func TestStructMarshalJSONPresentOnly(t *testing.T) {
	s := NewStruct(ValueSchema)
	require.NoError(t, s.Put(FieldMessage, "test"))
	require.NoError(t, s.Put(FieldLevel, int32(2)))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "test", decoded[FieldMessage])
	assert.Equal(t, float64(2), decoded[FieldLevel])
	_, hasHostname := decoded[FieldHostname]
	assert.False(t, hasHostname, "absent field must not be serialized")
}

func TestNewRecord(t *testing.T) {
	key := NewStruct(KeySchema)
	require.NoError(t, key.Put(FieldRemoteAddress, "203.0.113.5:514"))
	value := NewStruct(ValueSchema)
	require.NoError(t, value.Put(FieldHost, "web1"))

	rec, err := New("syslog", map[string]string{FieldHost: "web1"}, key, value)
	require.NoError(t, err)

	assert.Equal(t, "syslog", rec.Topic)
	assert.Equal(t, map[string]string{FieldHost: "web1"}, rec.SourcePartition)
	assert.NotNil(t, rec.SourceOffset)
	assert.Empty(t, rec.SourceOffset)

	_, err = New("syslog", nil, nil, value)
	assert.Error(t, err, "nil key must be rejected")

	_, err = New("syslog", nil, key, nil)
	assert.Error(t, err, "nil value must be rejected")

	_, err = New("syslog", nil, NewStruct(KeySchema), value)
	assert.Error(t, err, "key missing remote_address must be rejected")
}
