// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dictionary implements the DataDictionary validator: a per-version
// description of which tags a message type may carry, with what data types
// and enumerated values, and validates parsed messages against it. Tag
// order is not validated. Loading a dictionary from the QuickFIX-style XML format is
// explicitly out of scope (spec.md Non-goals) — callers build a Dictionary
// with Go struct literals, generated code, or any loader of their own.
package dictionary

import (
	"fmt"
	"strconv"

	"github.com/destiny/fixengine/fix"
)

// FieldType names the data type a tag's value must satisfy.
type FieldType int

const (
	TypeString FieldType = iota
	TypeChar
	TypeInt
	TypeFloat
	TypeBoolean
	TypeUTCTimestamp
	TypeData
)

// FieldDef describes one tag's type and, optionally, its closed set of
// legal values.
type FieldDef struct {
	Tag      fix.Tag
	Name     string
	Type     FieldType
	Enum     []string // empty means unconstrained
	Required bool     // required within whichever MsgDef.Fields list it appears in
}

// GroupDef describes a repeating group: the count tag, the ordered member
// field tags (delimiter first), and whether the group itself is required.
type GroupDef struct {
	CountTag fix.Tag
	Fields   []FieldDef
	Required bool
}

// MsgDef describes one MsgType's allowed shape.
type MsgDef struct {
	MsgType string
	Fields  []FieldDef
	Groups  []GroupDef
}

// Dictionary is a validated set of message definitions for one BeginString,
// optionally paired with an application dictionary keyed by DefaultApplVerID
// (the FIXT.1.1 two-dictionary composition described in spec.md §4.3).
type Dictionary struct {
	BeginString     string
	Header          []FieldDef
	Trailer         []FieldDef
	Messages        map[string]*MsgDef
	CheckUnknown    bool // reject tags not named by any FieldDef
	AppDataDict     *Dictionary
	ApplVerIDHeader bool // true when Header/Trailer belong to a FIXT.1.1 transport dictionary
}

// New returns an empty Dictionary for beginString.
func New(beginString string) *Dictionary {
	return &Dictionary{
		BeginString: beginString,
		Messages:    make(map[string]*MsgDef),
	}
}

// AddMessage registers def under its MsgType, overwriting any prior
// definition for that type.
func (d *Dictionary) AddMessage(def *MsgDef) {
	d.Messages[def.MsgType] = def
}

// WithAppDictionary composes app as the application-layer dictionary used
// for MsgType lookups that the transport dictionary doesn't itself define —
// the FIXT.1.1 split of spec.md §4.3.
func (d *Dictionary) WithAppDictionary(app *Dictionary) *Dictionary {
	d.AppDataDict = app
	return d
}

func (d *Dictionary) lookupMessage(msgType string) *MsgDef {
	if def, ok := d.Messages[msgType]; ok {
		return def
	}
	if d.AppDataDict != nil {
		return d.AppDataDict.Messages[msgType]
	}
	return nil
}

// Validate checks msg against the dictionary: unknown MsgType, required
// tags missing, unknown tags (when CheckUnknown is set), enumerated values,
// data types, and group instance counts. It does not check the order of
// tags within header, body or trailer. It returns the first violation
// found as a *fix.Error of kind fix.ErrKindDictionary.
func (d *Dictionary) Validate(msg *fix.Message) error {
	msgType := msg.MsgType()
	def := d.lookupMessage(msgType)
	if def == nil {
		return fix.NewDictionaryError(fmt.Sprintf("unknown MsgType %q", msgType), nil)
	}

	if err := validateFieldMap(msg.Header, d.Header, d.CheckUnknown); err != nil {
		return err
	}
	if err := validateFieldMap(msg.Trailer, d.Trailer, d.CheckUnknown); err != nil {
		return err
	}
	if err := validateFieldMap(msg.Body, def.Fields, d.CheckUnknown); err != nil {
		return err
	}
	for _, g := range def.Groups {
		if err := validateGroup(msg.Body, g); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldMap(fm *fix.FieldMap, defs []FieldDef, checkUnknown bool) error {
	known := make(map[fix.Tag]FieldDef, len(defs))
	for _, def := range defs {
		known[def.Tag] = def
	}

	for _, def := range defs {
		if !def.Required {
			continue
		}
		if !fm.Has(def.Tag) {
			return fix.NewDictionaryError(fmt.Sprintf("required tag %d (%s) missing", def.Tag, def.Name), nil)
		}
	}

	if checkUnknown {
		for _, tag := range fm.Tags() {
			if _, ok := known[tag]; !ok {
				return fix.NewDictionaryError(fmt.Sprintf("unknown tag %d", tag), nil)
			}
		}
	}

	for _, def := range defs {
		value, err := fm.GetField(def.Tag)
		if err != nil {
			continue // absent and not required; already checked above
		}
		if err := validateValue(def, value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(def FieldDef, value string) error {
	if len(def.Enum) > 0 {
		ok := false
		for _, allowed := range def.Enum {
			if value == allowed {
				ok = true
				break
			}
		}
		if !ok {
			return fix.NewDictionaryError(fmt.Sprintf("tag %d (%s) value %q not in enumeration", def.Tag, def.Name, value), nil)
		}
	}
	switch def.Type {
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fix.NewDictionaryError(fmt.Sprintf("tag %d (%s) value %q is not an int", def.Tag, def.Name, value), err)
		}
	case TypeFloat:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fix.NewDictionaryError(fmt.Sprintf("tag %d (%s) value %q is not a float", def.Tag, def.Name, value), err)
		}
	case TypeBoolean:
		if value != "Y" && value != "N" {
			return fix.NewDictionaryError(fmt.Sprintf("tag %d (%s) value %q is not Y/N", def.Tag, def.Name, value), nil)
		}
	case TypeChar:
		if len(value) != 1 {
			return fix.NewDictionaryError(fmt.Sprintf("tag %d (%s) value %q is not a single character", def.Tag, def.Name, value), nil)
		}
	case TypeUTCTimestamp:
		if _, err := fix.ParseSendingTime(value); err != nil {
			return fix.NewDictionaryError(fmt.Sprintf("tag %d (%s) value %q is not a UTCTimestamp", def.Tag, def.Name, value), err)
		}
	case TypeString, TypeData:
		// unconstrained beyond enumeration, already checked above
	}
	return nil
}

func validateGroup(fm *fix.FieldMap, g GroupDef) error {
	count := fm.GroupCount(g.Fields[0].Tag)
	if count == 0 {
		if g.Required {
			return fix.NewDictionaryError(fmt.Sprintf("required group %d missing", g.CountTag), nil)
		}
		return nil
	}
	for n := 1; n <= count; n++ {
		instance, err := fm.GetGroup(n, g.Fields[0].Tag)
		if err != nil {
			return fix.NewDictionaryError(fmt.Sprintf("group %d instance %d: %v", g.CountTag, n, err), err)
		}
		if err := validateFieldMap(instance.FieldMap, g.Fields, false); err != nil {
			return err
		}
	}
	return nil
}
