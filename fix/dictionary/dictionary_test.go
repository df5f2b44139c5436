// Copyright 2025 The go-fixengine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/destiny/fixengine/fix"
)

func newOrderDict() *Dictionary {
	d := New(fix.BeginStringFIX44)
	d.CheckUnknown = true
	d.Header = []FieldDef{
		{Tag: fix.TagBeginString, Name: "BeginString", Type: TypeString, Required: true},
		{Tag: fix.TagMsgType, Name: "MsgType", Type: TypeString, Required: true},
	}
	d.AddMessage(&MsgDef{
		MsgType: "D",
		Fields: []FieldDef{
			{Tag: 11, Name: "ClOrdID", Type: TypeString, Required: true},
			{Tag: 54, Name: "Side", Type: TypeChar, Required: true, Enum: []string{"1", "2"}},
			{Tag: 38, Name: "OrderQty", Type: TypeFloat, Required: true},
		},
	})
	return d
}

func buildOrder(side string, withQty bool) *fix.Message {
	m := fix.NewMessage()
	m.Header.Set(fix.TagBeginString, fix.BeginStringFIX44)
	m.Header.Set(fix.TagMsgType, "D")
	m.Body.Set(11, "ORD-1")
	m.Body.Set(54, side)
	if withQty {
		m.Body.Set(38, "100.5")
	}
	return m
}

func TestValidateAcceptsWellFormedMessage(t *testing.T) {
	d := newOrderDict()
	err := d.Validate(buildOrder("1", true))
	assert.NoError(t, err)
}

func TestValidateRejectsMissingRequiredTag(t *testing.T) {
	d := newOrderDict()
	err := d.Validate(buildOrder("1", false))
	require.Error(t, err)
	var fixErr *fix.Error
	require.ErrorAs(t, err, &fixErr)
	assert.Equal(t, fix.ErrKindDictionary, fixErr.Kind)
}

func TestValidateRejectsValueOutsideEnum(t *testing.T) {
	d := newOrderDict()
	err := d.Validate(buildOrder("Z", true))
	require.Error(t, err)
}

func TestValidateRejectsUnknownTagWhenConfigured(t *testing.T) {
	d := newOrderDict()
	msg := buildOrder("1", true)
	msg.Body.Set(9999, "surprise")
	err := d.Validate(msg)
	require.Error(t, err)
}

func TestValidateRejectsUnknownMsgType(t *testing.T) {
	d := newOrderDict()
	msg := buildOrder("1", true)
	msg.Header.Set(fix.TagMsgType, "Q")
	err := d.Validate(msg)
	require.Error(t, err)
}

func TestValidateGroupCardinality(t *testing.T) {
	d := New(fix.BeginStringFIX44)
	d.AddMessage(&MsgDef{
		MsgType: "E",
		Fields: []FieldDef{
			{Tag: 11, Name: "ClOrdID", Type: TypeString, Required: true},
		},
		Groups: []GroupDef{
			{
				CountTag: 73,
				Required: true,
				Fields: []FieldDef{
					{Tag: 11, Name: "ClOrdID", Type: TypeString, Required: true},
				},
			},
		},
	})

	msg := fix.NewMessage()
	msg.Header.Set(fix.TagBeginString, fix.BeginStringFIX44)
	msg.Header.Set(fix.TagMsgType, "E")
	msg.Body.Set(11, "LIST-1")

	err := d.Validate(msg)
	require.Error(t, err, "group with zero instances must fail when Required")

	g := fix.NewGroup([]fix.Tag{11})
	g.Set(11, "CHILD-1")
	msg.Body.AddGroup(73, g)

	assert.NoError(t, d.Validate(msg))
}

func TestAppDictionaryCompositionForFIXT(t *testing.T) {
	transport := New(fix.BeginStringFIXT11)
	app := New(fix.BeginStringFIXT11)
	app.AddMessage(&MsgDef{
		MsgType: "D",
		Fields: []FieldDef{
			{Tag: 11, Name: "ClOrdID", Type: TypeString, Required: true},
		},
	})
	transport.WithAppDictionary(app)

	msg := fix.NewMessage()
	msg.Header.Set(fix.TagBeginString, fix.BeginStringFIXT11)
	msg.Header.Set(fix.TagMsgType, "D")
	msg.Body.Set(11, "ORD-1")

	assert.NoError(t, transport.Validate(msg))
}
