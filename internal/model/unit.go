package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnitID identifies one answerable unit: a whole question, or one lettered
// sub-part of a composite question. Part holds the bare sub-part letter
// ("b"); an empty Part means the question itself.
//
// The zero value is not a valid identifier.
type UnitID struct {
	Question int
	Part     string
}

// QuestionUnit returns the identifier for answering question n as a whole.
func QuestionUnit(n int) UnitID { return UnitID{Question: n} }

// SubPartUnit returns the identifier for sub-part label of question n.
func SubPartUnit(n int, label string) UnitID { return UnitID{Question: n, Part: label} }

// IsSubPart reports whether the unit is a sub-part of a composite question.
func (u UnitID) IsSubPart() bool { return u.Part != "" }

// String renders the wire form used on the grading exchange: "7" for a
// whole question, "7-b)" for a sub-part.
func (u UnitID) String() string {
	if u.Part == "" {
		return strconv.Itoa(u.Question)
	}
	return fmt.Sprintf("%d-%s)", u.Question, u.Part)
}

// ParseUnitID decodes the wire form back into its parts. It is the single
// decode path shared by decomposition, grading, and the API, so a sub-part
// identifier always recovers its owning question number the same way.
func ParseUnitID(s string) (UnitID, error) {
	num, part, found := strings.Cut(s, "-")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return UnitID{}, fmt.Errorf("unit id %q: bad question number: %w", s, err)
	}
	if !found {
		return UnitID{Question: n}, nil
	}
	part = strings.TrimSuffix(strings.TrimSpace(part), ")")
	if part == "" {
		return UnitID{}, fmt.Errorf("unit id %q: empty sub-part label", s)
	}
	return UnitID{Question: n, Part: part}, nil
}

// MarshalJSON emits a bare number for whole-question units and a string for
// sub-parts, matching the upload and grading contracts.
func (u UnitID) MarshalJSON() ([]byte, error) {
	if u.Part == "" {
		return json.Marshal(u.Question)
	}
	return json.Marshal(u.String())
}

// UnmarshalJSON accepts either form: 7 or "7", and "7-b)" for sub-parts.
func (u *UnitID) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*u = UnitID{Question: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unit id: %w", err)
	}
	id, err := ParseUnitID(s)
	if err != nil {
		return err
	}
	*u = id
	return nil
}

// MarshalText makes UnitID usable as a JSON map key.
func (u UnitID) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText is the map-key counterpart of MarshalText.
func (u *UnitID) UnmarshalText(text []byte) error {
	id, err := ParseUnitID(string(text))
	if err != nil {
		return err
	}
	*u = id
	return nil
}
