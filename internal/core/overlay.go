package core

import "github.com/google/uuid"

// DetailField is one labelled value in a detail overlay.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Detail is the read-only content of an open overlay.
type Detail struct {
	ID     int           `json:"id"`
	Title  string        `json:"title"`
	Fields []DetailField `json:"fields"`
	Token  string        `json:"token"` // Identifies this opening; stale close requests carry an old token
}

// Overlay tracks the single open detail view of a table.
type Overlay struct {
	open     bool
	recordID int
	token    uuid.UUID
}

// Open binds the overlay to id, replacing whatever was open.
// Returns false and leaves the overlay unchanged when id is absent.
func (o *Overlay) Open(id int, store *RowStore, schema Schema) (Detail, bool) {
	rec, ok := store.Get(id)
	if !ok {
		return Detail{}, false
	}

	o.open = true
	o.recordID = id
	o.token = uuid.New()

	return BuildDetail(rec, schema, o.token.String()), true
}

// Close closes the overlay and returns the id of the row that opened it
// so the view can restore focus. A non-empty token must match the current
// opening; a mismatch means the overlay was already replaced and nothing
// happens.
func (o *Overlay) Close(token string) (int, bool) {
	if !o.open {
		return 0, false
	}
	if token != "" && token != o.token.String() {
		return 0, false
	}
	id := o.recordID
	*o = Overlay{}
	return id, true
}

// Current returns the bound record id while open.
func (o *Overlay) Current() (int, bool) {
	return o.recordID, o.open
}

// Token returns the current opening's token, or "" when closed.
func (o *Overlay) Token() string {
	if !o.open {
		return ""
	}
	return o.token.String()
}

// BuildDetail lays out rec using the schema's column labels.
func BuildDetail(rec Record, schema Schema, token string) Detail {
	d := Detail{
		ID:     rec.ID,
		Title:  rec.Get(schema.TitleField).String(),
		Fields: make([]DetailField, 0, len(schema.Columns)),
		Token:  token,
	}
	for _, c := range schema.Columns {
		d.Fields = append(d.Fields, DetailField{Label: c.Label, Value: rec.Get(c.Key).String()})
	}
	return d
}
