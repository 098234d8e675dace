package record

import "errors"

// Record is the unit handed to the queue: a schema-conformant key/value
// pair plus the partition and offset metadata the downstream system needs.
// The offset map is always empty; offset tracking is delegated upstream.
type Record struct {
	SourcePartition map[string]string `json:"source_partition"`
	SourceOffset    map[string]string `json:"source_offset"`
	Topic           string            `json:"topic"`
	Key             *Struct           `json:"key"`
	Value           *Struct           `json:"value"`
}

// New builds a record and enforces the core invariant: a non-nil,
// schema-valid key and value on every record. The partition map is keyed
// by the sender-reported host, not the resolved hostname; downstream
// partition routing depends on that choice.
func New(topic string, partition map[string]string, key, value *Struct) (*Record, error) {
	if key == nil {
		return nil, errors.New("record: nil key")
	}
	if value == nil {
		return nil, errors.New("record: nil value")
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if err := value.Validate(); err != nil {
		return nil, err
	}
	if partition == nil {
		partition = map[string]string{}
	}
	return &Record{
		SourcePartition: partition,
		SourceOffset:    map[string]string{},
		Topic:           topic,
		Key:             key,
		Value:           value,
	}, nil
}
