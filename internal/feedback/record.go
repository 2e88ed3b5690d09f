package feedback

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"time"
)

type Type string

const (
	TypeUpdate Type = "update"
	TypeCreate Type = "create"
	TypeDelete Type = "delete"
	TypeFix    Type = "fix"
	TypeDesign Type = "design"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"

	// Client-local statuses, set by the submitting client on its cached copy.
	StatusSubmitted       Status = "submitted"
	StatusSentToDeveloper Status = "sent-to-developer"
	StatusServerOffline   Status = "server-offline"
	StatusSentViaEmail    Status = "sent-via-email"
	StatusSubmissionError Status = "submission-error"
)

// ServerStatuses are the workflow statuses the developer side moves records through.
var ServerStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusRejected}

func (s Status) IsServerStatus() bool {
	for _, v := range ServerStatuses {
		if v == s {
			return true
		}
	}
	return false
}

var ErrNotFound = errors.New("feedback not found")

// ErrUnreadableDocument marks a stored document that is valid JSON but not a
// list of records. Writers refuse to replace it.
var ErrUnreadableDocument = errors.New("feedback document is not a list of records")

// ValidationError reports a field that could not be accepted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// LogEntry is one append-only implementation note.
type LogEntry struct {
	Timestamp    string   `json:"timestamp"`
	Notes        string   `json:"notes"`
	FilesChanged []string `json:"files_changed"`
}

// Record is a single feedback submission. Keys that are not modelled here are
// kept in Extra and written back unchanged.
type Record struct {
	ID                  int64      `json:"id"`
	Type                Type       `json:"type"`
	Priority            Priority   `json:"priority"`
	PageSection         string     `json:"pageSection"`
	Text                string     `json:"text"`
	ExpectedResult      string     `json:"expectedResult"`
	Status              Status     `json:"status"`
	Timestamp           string     `json:"timestamp"`
	CreatedAt           string     `json:"createdAt"`
	Implemented         bool       `json:"implemented"`
	LastUpdated         string     `json:"lastUpdated"`
	ImplementationNotes string     `json:"implementation_notes"`
	ImplementationLog   []LogEntry `json:"implementation_log"`

	Extra map[string]json.RawMessage `json:"-"`

	// source holds every modelled key as it was read. While a field still
	// decodes to the same value, the original bytes are written back.
	source map[string]sourceValue
	// invalid lists modelled keys whose value had the wrong JSON type.
	invalid []string
}

type sourceValue struct {
	raw     json.RawMessage
	decoded json.RawMessage
}

// recordKeys is the order modelled keys are written in.
var recordKeys = []string{
	"id", "type", "priority", "pageSection", "text", "expectedResult", "status",
	"timestamp", "createdAt", "implemented", "lastUpdated", "implementation_notes",
	"implementation_log",
}

var knownFields = func() map[string]bool {
	m := make(map[string]bool, len(recordKeys))
	for _, k := range recordKeys {
		m[k] = true
	}
	return m
}()

// optionalFields are left out when empty, unless the source document had them.
var optionalFields = map[string]bool{
	"expectedResult":       true,
	"lastUpdated":          true,
	"implementation_notes": true,
	"implementation_log":   true,
}

// immutableFields cannot be changed by a merge patch.
var immutableFields = map[string]bool{
	"id":                 true,
	"type":               true,
	"priority":           true,
	"pageSection":        true,
	"text":               true,
	"timestamp":          true,
	"createdAt":          true,
	"implementation_log": true,
}

type plainRecord Record

// field returns a pointer to the struct field stored under key k.
func (p *plainRecord) field(k string) any {
	switch k {
	case "id":
		return &p.ID
	case "type":
		return &p.Type
	case "priority":
		return &p.Priority
	case "pageSection":
		return &p.PageSection
	case "text":
		return &p.Text
	case "expectedResult":
		return &p.ExpectedResult
	case "status":
		return &p.Status
	case "timestamp":
		return &p.Timestamp
	case "createdAt":
		return &p.CreatedAt
	case "implemented":
		return &p.Implemented
	case "lastUpdated":
		return &p.LastUpdated
	case "implementation_notes":
		return &p.ImplementationNotes
	case "implementation_log":
		return &p.ImplementationLog
	}
	return nil
}

// typedFields encodes the modelled fields one by one.
func typedFields(p plainRecord) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func isEmptyJSON(v json.RawMessage) bool {
	switch string(v) {
	case `""`, "null", "[]":
		return true
	}
	return false
}

func (r Record) MarshalJSON() ([]byte, error) {
	typed, err := typedFields(plainRecord(r))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(k string, v json.RawMessage) {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(v)
	}

	for _, k := range recordKeys {
		v := typed[k]
		if src, ok := r.source[k]; ok {
			if bytes.Equal(v, src.decoded) {
				v = src.raw
			}
		} else if optionalFields[k] && isEmptyJSON(v) {
			continue
		}
		write(k, v)
	}

	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		if !knownFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		write(k, r.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts any JSON object. A modelled key holding the wrong
// JSON type leaves the field empty, is listed in invalid and keeps its
// original value on the way out. String ids holding a number are read as ids.
func (r *Record) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	if all == nil {
		return fmt.Errorf("feedback record must be a JSON object")
	}

	var p plainRecord
	for k, v := range all {
		if !knownFields[k] {
			if p.Extra == nil {
				p.Extra = make(map[string]json.RawMessage)
			}
			p.Extra[k] = v
			continue
		}
		var scratch plainRecord
		if err := json.Unmarshal(v, scratch.field(k)); err != nil {
			if k == "id" {
				if id, ok := numericStringID(v); ok {
					p.ID = id
					continue
				}
			}
			p.invalid = append(p.invalid, k)
			continue
		}
		_ = json.Unmarshal(v, p.field(k))
	}
	sort.Strings(p.invalid)

	typed, err := typedFields(p)
	if err != nil {
		return err
	}
	for k, v := range all {
		if !knownFields[k] {
			continue
		}
		if p.source == nil {
			p.source = make(map[string]sourceValue)
		}
		p.source[k] = sourceValue{raw: v, decoded: typed[k]}
	}
	*r = Record(p)
	return nil
}

func numericStringID(v json.RawMessage) (int64, bool) {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

// InvalidFields lists modelled keys that held a value of the wrong JSON type.
func (r Record) InvalidFields() []string {
	return r.invalid
}

// forget drops the source bytes of keys the caller has just assigned.
func (r *Record) forget(keys ...string) {
	if len(r.source) == 0 {
		return
	}
	src := make(map[string]sourceValue, len(r.source))
	for k, v := range r.source {
		src[k] = v
	}
	for _, k := range keys {
		delete(src, k)
	}
	r.source = src

	invalid := r.invalid[:0:0]
	for _, k := range r.invalid {
		if !slices.Contains(keys, k) {
			invalid = append(invalid, k)
		}
	}
	r.invalid = invalid
}

// Fields decodes a JSON object body into top-level fields.
func Fields(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &ValidationError{Reason: "body must be a JSON object"}
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// Merge returns a copy of r with the patch keys shallow-merged on top.
// Immutable keys in the patch are ignored.
func Merge(r Record, patch map[string]json.RawMessage) (Record, error) {
	cur, err := json.Marshal(r)
	if err != nil {
		return Record{}, fmt.Errorf("encode record: %w", err)
	}
	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(cur, &doc); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	for k, v := range patch {
		if immutableFields[k] {
			continue
		}
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return Record{}, fmt.Errorf("encode merged record: %w", err)
	}
	var out Record
	if err := json.Unmarshal(merged, &out); err != nil {
		return Record{}, fmt.Errorf("decode merged record: %w", err)
	}
	for _, k := range out.invalid {
		if _, patched := patch[k]; patched && !immutableFields[k] {
			return Record{}, &ValidationError{Field: k, Reason: "patch has a value of the wrong type"}
		}
	}
	return out, nil
}

// FromFields builds a new record from caller-supplied fields. Unlike stored
// documents, a submission with a wrongly typed field is rejected.
func FromFields(fields map[string]json.RawMessage) (Record, error) {
	b, err := json.Marshal(fields)
	if err != nil {
		return Record{}, fmt.Errorf("encode fields: %w", err)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, &ValidationError{Reason: fmt.Sprintf("submission is not an object: %v", err)}
	}
	if len(r.invalid) > 0 {
		return Record{}, &ValidationError{Field: r.invalid[0], Reason: "submission has a value of the wrong type"}
	}
	return r, nil
}

// DecodeRecords reads a JSON array of records. Invalid JSON is a plain error.
// Valid JSON that is not an array, or elements that are not objects, are
// reported with ErrUnreadableDocument; the readable records are still returned.
func DecodeRecords(data []byte) ([]Record, error) {
	if !json.Valid(data) {
		return []Record{}, errors.New("not valid JSON")
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return []Record{}, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	records := make([]Record, 0, len(elems))
	var skipped int
	for _, e := range elems {
		var r Record
		if err := json.Unmarshal(e, &r); err != nil {
			skipped++
			continue
		}
		records = append(records, r)
	}
	if skipped > 0 {
		return records, fmt.Errorf("%w: %d elements are not records", ErrUnreadableDocument, skipped)
	}
	return records, nil
}

const (
	isoLayout    = "2006-01-02T15:04:05.000Z07:00"
	localeLayout = "1/2/2006, 3:04:05 PM"
)

// ISOTime formats t the way record timestamps are stored.
func ISOTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// LocaleTime formats t as the human-readable createdAt value.
func LocaleTime(t time.Time) string {
	return t.Local().Format(localeLayout)
}
