package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CategoryKind says which shape a project's category takes.
type CategoryKind int

const (
	CategoryNone CategoryKind = iota
	CategoryReference
	CategoryCustom
)

// CategoryRef is either a reference to a Category row or free text carried
// over from older records.
type CategoryRef struct {
	Kind CategoryKind
	ID   int64
	Text string
}

func ReferenceCategory(id int64) CategoryRef {
	return CategoryRef{Kind: CategoryReference, ID: id}
}

func CustomCategory(text string) CategoryRef {
	text = strings.TrimSpace(text)
	if text == "" {
		return CategoryRef{}
	}
	return CategoryRef{Kind: CategoryCustom, Text: text}
}

// UnmarshalJSON accepts a numeric id, {"id": n}, a plain string or null.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = CategoryRef{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CustomCategory(s)
		return nil
	case '{':
		var obj struct {
			ID json.Number `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		id, err := obj.ID.Int64()
		if err != nil || id <= 0 {
			return fmt.Errorf("category reference needs a positive id")
		}
		*c = ReferenceCategory(id)
		return nil
	default:
		id, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid category %s", string(data))
		}
		*c = ReferenceCategory(id)
		return nil
	}
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CategoryReference:
		return json.Marshal(c.ID)
	case CategoryCustom:
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}

const (
	CategoryNotFound = "Category not found"
	NotAvailable     = "N/A"
)

// Resolve turns the reference into a display name using names. Missing
// references degrade to CategoryNotFound rather than failing.
func (c CategoryRef) Resolve(names map[int64]string) string {
	switch c.Kind {
	case CategoryReference:
		if name, ok := names[c.ID]; ok {
			return name
		}
		return CategoryNotFound
	case CategoryCustom:
		return c.Text
	default:
		return NotAvailable
	}
}

// SOWItem is one named deliverable of a bundled statement of work.
type SOWItem struct {
	SOW     string `json:"sow"`
	Content string `json:"content"`
}

type SOWKind int

const (
	SOWNone SOWKind = iota
	SOWCustom
	SOWBundle
)

// SOW is a statement of work held either as free text or as a bundle of
// items. A single {sow, content} object is read as a bundle of one.
type SOW struct {
	Kind  SOWKind
	Text  string
	Items []SOWItem
}

func CustomSOW(text string) SOW {
	if strings.TrimSpace(text) == "" {
		return SOW{}
	}
	return SOW{Kind: SOWCustom, Text: text}
}

func BundleSOW(items ...SOWItem) SOW {
	if len(items) == 0 {
		return SOW{}
	}
	return SOW{Kind: SOWBundle, Items: items}
}

func (s *SOW) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = SOW{}
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = CustomSOW(text)
	case '{':
		var item SOWItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*s = BundleSOW(item)
	case '[':
		var items []SOWItem
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*s = BundleSOW(items...)
	default:
		return fmt.Errorf("sow must be a string, an object or a list of objects")
	}
	return nil
}

func (s SOW) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SOWCustom:
		return json.Marshal(s.Text)
	case SOWBundle:
		return json.Marshal(s.Items)
	default:
		return []byte("null"), nil
	}
}

// StringList reads either a single string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = StringList{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*l = StringList{}
		} else {
			*l = StringList{s}
		}
		return nil
	}

	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	out := make(StringList, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	*l = out
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
