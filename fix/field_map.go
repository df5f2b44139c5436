// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fix

import (
	"strconv"
)

// entry records the order in which a FieldMap learned about a tag: either a
// plain scalar field or the first appearance of a repeating group (keyed by
// its delimiter tag, the first field tag of each group instance).
type entry struct {
	tag     Tag
	isGroup bool
}

// FieldMap is an ordered tag→value container, used for a Message's Header,
// Body and Trailer, and for each repeating-group instance. Overwriting a
// scalar field keeps its original position; new fields are appended in
// insertion order, matching spec §4.2.
type FieldMap struct {
	values map[Tag]string
	order  []entry
	groups map[Tag][]*Group // keyed by delimiter tag
}

// NewFieldMap returns an empty FieldMap ready for use.
func NewFieldMap() *FieldMap {
	return &FieldMap{values: make(map[Tag]string)}
}

// SetField sets tag to value. If overwrite is false and tag is already
// present, the existing value is kept.
func (fm *FieldMap) SetField(tag Tag, value string, overwrite bool) {
	if fm.values == nil {
		fm.values = make(map[Tag]string)
	}
	_, exists := fm.values[tag]
	if exists && !overwrite {
		return
	}
	fm.values[tag] = value
	if !exists {
		fm.order = append(fm.order, entry{tag: tag})
	}
}

// Set is shorthand for SetField(tag, value, true).
func (fm *FieldMap) Set(tag Tag, value string) {
	fm.SetField(tag, value, true)
}

// SetInt sets tag to the base-10 string form of value.
func (fm *FieldMap) SetInt(tag Tag, value int) {
	fm.Set(tag, strconv.Itoa(value))
}

// GetField returns the string value stored at tag, or ErrFieldNotFound.
func (fm *FieldMap) GetField(tag Tag) (string, error) {
	v, ok := fm.values[tag]
	if !ok {
		return "", ErrFieldNotFound
	}
	return v, nil
}

// GetFieldDefault returns the value at tag, or def if absent.
func (fm *FieldMap) GetFieldDefault(tag Tag, def string) string {
	if v, ok := fm.values[tag]; ok {
		return v
	}
	return def
}

// GetInt parses the value at tag as a base-10 integer.
func (fm *FieldMap) GetInt(tag Tag) (int, error) {
	v, err := fm.GetField(tag)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, NewDictionaryError("field "+strconv.Itoa(int(tag))+" is not an integer", err)
	}
	return n, nil
}

// Has reports whether tag is present.
func (fm *FieldMap) Has(tag Tag) bool {
	_, ok := fm.values[tag]
	return ok
}

// Remove deletes tag, if present, preserving the relative order of the
// remaining fields.
func (fm *FieldMap) Remove(tag Tag) {
	if !fm.Has(tag) {
		return
	}
	delete(fm.values, tag)
	for i, e := range fm.order {
		if !e.isGroup && e.tag == tag {
			fm.order = append(fm.order[:i], fm.order[i+1:]...)
			break
		}
	}
}

// Tags returns the scalar tags present, in insertion order.
func (fm *FieldMap) Tags() []Tag {
	tags := make([]Tag, 0, len(fm.order))
	for _, e := range fm.order {
		if !e.isGroup {
			tags = append(tags, e.tag)
		}
	}
	return tags
}

// Group is one instance of a repeating group: an ordered FieldMap plus the
// template (declared field order, delimiter tag first) it was built from.
type Group struct {
	*FieldMap
	Delim    Tag
	Template []Tag
}

// NewGroup returns an empty group instance for the given template. The
// template's first tag is the group's delimiter tag.
func NewGroup(template []Tag) *Group {
	if len(template) == 0 {
		panic("fix: group template must name at least the delimiter tag")
	}
	return &Group{FieldMap: NewFieldMap(), Delim: template[0], Template: template}
}

// AddGroup appends group as the next instance under its delimiter tag,
// recording the count-tag position in the owning FieldMap's serialization
// order on first use.
func (fm *FieldMap) AddGroup(countTag Tag, group *Group) {
	if fm.groups == nil {
		fm.groups = make(map[Tag][]*Group)
	}
	if _, exists := fm.groups[group.Delim]; !exists {
		fm.order = append(fm.order, entry{tag: countTag, isGroup: true})
	}
	fm.groups[group.Delim] = append(fm.groups[group.Delim], group)
}

// GetGroup returns the n'th (1-based) instance of the repeating group
// identified by its delimiter tag. Out-of-range n fails with
// ErrFieldNotFound, same as a missing scalar tag.
func (fm *FieldMap) GetGroup(n int, delim Tag) (*Group, error) {
	instances, ok := fm.groups[delim]
	if !ok || n < 1 || n > len(instances) {
		return nil, ErrFieldNotFound
	}
	return instances[n-1], nil
}

// GroupCount returns the number of instances of the repeating group
// identified by its delimiter tag.
func (fm *FieldMap) GroupCount(delim Tag) int {
	return len(fm.groups[delim])
}

// RemoveGroup removes the n'th (1-based) instance of the repeating group
// identified by its delimiter tag. 1-based throughout, per spec §9 (the
// source's 0-based-index-after-1-based-bounds-check is treated as a bug).
// Out-of-range n fails with ErrFieldNotFound, same as a missing scalar tag.
func (fm *FieldMap) RemoveGroup(n int, delim Tag) error {
	instances, ok := fm.groups[delim]
	if !ok || n < 1 || n > len(instances) {
		return ErrFieldNotFound
	}
	fm.groups[delim] = append(instances[:n-1], instances[n:]...)
	return nil
}
