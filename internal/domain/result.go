package domain

import (
	"encoding/xml"
	"time"
)

// Result is one scored outcome of a user. ID stays 0 until the store assigns it.
type Result struct {
	XMLName    xml.Name  `json:"-" xml:"result"`
	ID         int64     `json:"id" xml:"id,attr"`
	Value      int       `json:"value" xml:"value"`
	Owner      *Users    `json:"owner" xml:"owner"`
	RecordedAt time.Time `json:"recorded_at" xml:"recorded_at"`
}

// NewResult builds an unsaved result. A zero recordedAt means now.
func NewResult(value int, owner *Users, recordedAt time.Time) *Result {
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	return &Result{
		Value:      value,
		Owner:      owner,
		RecordedAt: recordedAt,
	}
}

func (r *Result) OwnerID() int64 {
	if r.Owner == nil {
		return 0
	}
	return r.Owner.ID
}

// ResultList is the collection payload of the list action.
type ResultList struct {
	XMLName xml.Name  `json:"-" xml:"results"`
	Results []*Result `json:"results" xml:"result"`
}

// ResultRow is the flat row shape of the results table.
type ResultRow struct {
	ID         int64     `db:"id"`
	Value      int       `db:"result"`
	UserID     int64     `db:"user_id"`
	RecordedAt time.Time `db:"time"`
}

type ResultsTable struct {
	ID         string
	Value      string
	UserID     string
	RecordedAt string
}

func GetResultTable() ResultsTable {
	return ResultsTable{
		ID:         "id",
		Value:      "result",
		UserID:     "user_id",
		RecordedAt: "time",
	}
}

func (t ResultsTable) GetTableName() string {
	return "results"
}
