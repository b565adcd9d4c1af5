/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotObject     = errors.New("device record must be a JSON object")
	ErrInvalidRecord = errors.New("invalid device record")
)

// Known device record fields reported by the inventory agents.
const (
	FieldHostname          = "hostname"
	FieldIPAddress         = "ip_address"
	FieldMACAddress        = "mac_address"
	FieldOS                = "os"
	FieldOSVersion         = "os_version"
	FieldCPU               = "cpu"
	FieldCPUCores          = "cpu_cores"
	FieldMemoryTotal       = "memory_total"
	FieldSerialNumber      = "serial_number"
	FieldHWID              = "hwid"
	FieldBIOSVersion       = "bios_version"
	FieldInstalledSoftware = "installed_software"
	FieldDisks             = "disks"
	FieldLastSeen          = "last_seen"
)

// Field is a single key/value pair used to build a DeviceRecord in order.
type Field struct {
	Key   string
	Value any
}

// DeviceRecord is an ordered mapping of field name to value. Key order is the
// order in which the fields appeared in the inventory payload.
//
// Values are one of nil (JSON null), string, json.Number, bool, []any or
// *DeviceRecord for nested objects. A DeviceRecord is never modified after it
// has been decoded.
type DeviceRecord struct {
	keys   []string
	values map[string]any
}

// NewDeviceRecord builds a record from fields in the given order. Go native
// numbers, string slices and Disk values are normalized to the decoded
// representation so fixtures behave like records read off the wire.
func NewDeviceRecord(fields ...Field) *DeviceRecord {
	r := newRecord(len(fields))
	for _, f := range fields {
		r.set(f.Key, normalizeValue(f.Value))
	}

	return r
}

func newRecord(size int) *DeviceRecord {
	return &DeviceRecord{
		keys:   make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

// set keeps the position of the first occurrence of a key and the value of the
// last one, which is how browsers treat duplicate keys in JSON.parse.
func (r *DeviceRecord) set(key string, value any) {
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}

	r.values[key] = value
}

// Keys returns the field names in record order.
func (r *DeviceRecord) Keys() []string {
	if r == nil {
		return nil
	}

	return append([]string(nil), r.keys...)
}

// Len returns the number of fields.
func (r *DeviceRecord) Len() int {
	if r == nil {
		return 0
	}

	return len(r.keys)
}

// Get returns the value stored under key and whether the key is present.
// A present key may still hold nil when the payload carried a JSON null.
func (r *DeviceRecord) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}

	v, ok := r.values[key]

	return v, ok
}

// Range calls fn for every field in record order until fn returns false.
func (r *DeviceRecord) Range(fn func(key string, value any) bool) {
	if r == nil {
		return
	}

	for _, k := range r.keys {
		if !fn(k, r.values[k]) {
			return
		}
	}
}

// String returns the text form of a field, or "" when it is missing or null.
func (r *DeviceRecord) String(key string) string {
	v, _ := r.Get(key)

	return ValueString(v)
}

// Software returns the installed_software list, or nil if it is not a sequence.
func (r *DeviceRecord) Software() []string {
	v, _ := r.Get(FieldInstalledSoftware)

	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, ValueString(item))
	}

	return out
}

// Disks returns the disks list. Elements that are not objects are skipped.
func (r *DeviceRecord) Disks() []Disk {
	v, _ := r.Get(FieldDisks)

	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]Disk, 0, len(items))
	for _, item := range items {
		if sub, ok := item.(*DeviceRecord); ok {
			out = append(out, DiskFromRecord(sub))
		}
	}

	return out
}

// Identifier is the key used to address a device on the logs endpoint.
func (r *DeviceRecord) Identifier() string {
	if ip := r.String(FieldIPAddress); ip != "" {
		return ip
	}

	return r.String(FieldHostname)
}

// ValueString renders a record value as plain text. Nested records use their
// canonical JSON form and sequences are joined with commas, which mirrors how
// the values are compared.
func ValueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, ValueString(item))
		}

		return strings.Join(parts, ",")
	case *DeviceRecord:
		return CanonicalJSON(val)
	default:
		return fmt.Sprint(val)
	}
}

// CanonicalJSON returns the compact, order-preserving JSON text of v without
// HTML escaping.
func CanonicalJSON(v any) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// MarshalJSON writes the record as a JSON object in record order.
func (r *DeviceRecord) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')

	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := enc.Encode(k); err != nil {
			return nil, err
		}

		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')

		if err := enc.Encode(r.values[k]); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}

		buf.Truncate(buf.Len() - 1)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (r *DeviceRecord) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)

	v, err := decodeValue(dec)
	if err != nil {
		return err
	}

	rec, ok := v.(*DeviceRecord)
	if !ok {
		return ErrNotObject
	}

	*r = *rec

	return nil
}

// DecodeDeviceList decodes the /devices payload. A payload that is valid JSON
// but not an array yields an empty list; array elements that are not objects
// are dropped.
func DecodeDeviceList(data []byte) ([]*DeviceRecord, error) {
	dec := newDecoder(data)

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		return []*DeviceRecord{}, nil
	}

	out := make([]*DeviceRecord, 0, len(items))

	for _, item := range items {
		if rec, ok := item.(*DeviceRecord); ok {
			out = append(out, rec)
		}
	}

	return out, nil
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrInvalidRecord, t)
		}
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*DeviceRecord, error) {
	rec := newRecord(0)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key %v", ErrInvalidRecord, tok)
		}

		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		rec.set(key, val)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return rec, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	out := make([]any, 0)

	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		out = append(out, val)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	return out, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return json.Number(strconv.Itoa(val))
	case int64:
		return json.Number(strconv.FormatInt(val, 10))
	case float64:
		return json.Number(strconv.FormatFloat(val, 'f', -1, 64))
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}

		return out
	case Disk:
		return val.Record()
	case []Disk:
		out := make([]any, len(val))
		for i, d := range val {
			out[i] = d.Record()
		}

		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}

		return out
	default:
		return v
	}
}
