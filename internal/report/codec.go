// Package report encodes scheduler summaries for external consumers.
package report

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/azargarov/tasksched"
)

// Codec serializes a summary record.
type Codec interface {
	Encode(rec tasksched.Record) ([]byte, error)

	// Name returns the codec identifier ("json", "msgpack").
	Name() string
}

const (
	CodecNameJSON    = "json"
	CodecNameMsgpack = "msgpack"
)

// GetCodec returns a codec by name. Unknown names yield false.
func GetCodec(name string) (Codec, bool) {
	switch name {
	case CodecNameJSON, "":
		return JSONCodec{}, true
	case CodecNameMsgpack:
		return MsgpackCodec{}, true
	default:
		return nil, false
	}
}

// JSONCodec writes the record as indented JSON with a trailing newline.
type JSONCodec struct{}

func (JSONCodec) Encode(rec tasksched.Record) ([]byte, error) {
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func (JSONCodec) Name() string { return CodecNameJSON }

// MsgpackCodec writes the record as a MessagePack map.
type MsgpackCodec struct{}

func (MsgpackCodec) Encode(rec tasksched.Record) ([]byte, error) {
	return msgpack.Marshal(rec)
}

func (MsgpackCodec) Name() string { return CodecNameMsgpack }
