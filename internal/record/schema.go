// Package record defines the fixed key/value schema for translated syslog
// records and a typed struct container that enforces it.
package record

import "fmt"

// Type is the semantic type of a schema field.
type Type int

const (
	TypeString Type = iota
	TypeInt32
	TypeTimestamp
)

// String returns the wire name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt32:
		return "int32"
	case TypeTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Field describes one field of a schema.
type Field struct {
	Name     string
	Type     Type
	Optional bool
	Doc      string
}

// Schema is an immutable description of a record key or value shape.
// Schemas are fixed at process start and never mutated.
type Schema struct {
	name   string
	doc    string
	fields []Field
	byName map[string]int
}

// NewSchema builds a schema from the given fields. It panics on duplicate
// field names; schemas are package-level constants, so this fires at init
// time only.
func NewSchema(name, doc string, fields ...Field) *Schema {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := byName[f.Name]; dup {
			panic(fmt.Sprintf("record: duplicate field %q in schema %s", f.Name, name))
		}
		byName[f.Name] = i
	}
	return &Schema{
		name:   name,
		doc:    doc,
		fields: fields,
		byName: byName,
	}
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Doc returns the schema documentation string.
func (s *Schema) Doc() string { return s.doc }

// Fields returns a copy of the schema's fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Field names shared by the key and value schemas.
const (
	FieldDate          = "date"
	FieldFacility      = "facility"
	FieldHost          = "host"
	FieldLevel         = "level"
	FieldMessage       = "message"
	FieldCharset       = "charset"
	FieldRemoteAddress = "remote_address"
	FieldHostname      = "hostname"
)

// KeySchema is the shape of the record key. Keying every record by the
// sender's socket address routes all messages from one remote to the same
// downstream partition.
var KeySchema = NewSchema(
	"syslog.Key",
	"Key written downstream for syslog data. Ensures all data from a host ends up in the same partition.",
	Field{Name: FieldRemoteAddress, Type: TypeString, Doc: "The address of the host that sent the syslog message."},
)

// ValueSchema is the shape of the record value. Every field is optional;
// absence means the sender did not supply it or a lookup failed.
var ValueSchema = NewSchema(
	"syslog.Value",
	"A syslog message written downstream.",
	Field{Name: FieldDate, Type: TypeTimestamp, Optional: true, Doc: "The timestamp of the message."},
	Field{Name: FieldFacility, Type: TypeInt32, Optional: true, Doc: "The facility of the message."},
	Field{Name: FieldHost, Type: TypeString, Optional: true, Doc: "The host of the message as reported by the sender."},
	Field{Name: FieldLevel, Type: TypeInt32, Optional: true, Doc: "The level of the syslog message as defined by RFC 5424."},
	Field{Name: FieldMessage, Type: TypeString, Optional: true, Doc: "The text for the message."},
	Field{Name: FieldCharset, Type: TypeString, Optional: true, Doc: "The character set of the message."},
	Field{Name: FieldRemoteAddress, Type: TypeString, Optional: true, Doc: "The address of the host that sent the syslog message."},
	Field{Name: FieldHostname, Type: TypeString, Optional: true, Doc: "The reverse DNS of the remote_address field."},
)
