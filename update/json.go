package update

import (
	json "github.com/goccy/go-json"

	"github.com/hupe1980/docupdate/document"
)

type jsonUpdate struct {
	Op           string `json:"op"`
	DocumentType string `json:"documentType"`
	Path         string `json:"path"`
	Where        string `json:"where,omitempty"`
	Value        any    `json:"value,omitempty"`
	Values       any    `json:"values,omitempty"`

	CreateMissingPath bool `json:"createMissingPath,omitempty"`
	RemoveIfZero      bool `json:"removeIfZero,omitempty"`
}

func (b *base) jsonBase(op Op) jsonUpdate {
	return jsonUpdate{Op: op.String(), DocumentType: b.docType, Path: b.expr, Where: b.where}
}

// MarshalJSON implements json.Marshaler.
func (u *Add) MarshalJSON() ([]byte, error) {
	j := u.jsonBase(OpAdd)
	values := document.ToAny(u.values)
	if values == nil {
		values = []any{}
	}
	j.Values = values
	return json.Marshal(j)
}

// MarshalJSON implements json.Marshaler.
func (u *Assign) MarshalJSON() ([]byte, error) {
	j := u.jsonBase(OpAssign)
	j.Value = document.ToAny(u.value)
	j.CreateMissingPath = u.opts.CreateMissingPath
	j.RemoveIfZero = u.opts.RemoveIfZero
	return json.Marshal(j)
}

// MarshalJSON implements json.Marshaler.
func (u *Remove) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.jsonBase(OpRemove))
}
