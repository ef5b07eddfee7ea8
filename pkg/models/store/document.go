package store

import (
	"encoding/json"

	"github.com/de-tools/patient-reports/pkg/store/collate"
)

const (
	TypePatient   = "patient"
	TypeVisit     = "visit"
	TypeProcedure = "procedure"
	TypeImaging   = "imaging"
	TypeLab       = "lab"
)

// Document is a raw record as kept by the document store.
type Document struct {
	ID   string          `json:"_id"`
	Type string          `json:"type"`
	Body json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the whole object as the body and lifts _id and type.
func (d *Document) UnmarshalJSON(data []byte) error {
	var head struct {
		ID   string `json:"_id"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	d.ID = head.ID
	d.Type = head.Type
	d.Body = append(json.RawMessage(nil), data...)
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.Body) == 0 {
		return json.Marshal(map[string]string{"_id": d.ID, "type": d.Type})
	}
	return d.Body, nil
}

// QueryOptions bounds a view range query. Both bounds are inclusive; a nil
// EndKey leaves the range open.
type QueryOptions struct {
	StartKey collate.Key
	EndKey   collate.Key
}

// ViewRow is one emitted index entry of a view.
type ViewRow struct {
	Key   collate.Key
	DocID string
}
