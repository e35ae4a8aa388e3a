package gameevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestExtract_OrderAndDisplay(t *testing.T) {
	text := "<event>HEALTH:-10</event> text <event>ITEM_FOUND:Sword</event>"

	events := Extract(text, language.French)
	assert.Equal(t, []Event{
		{Type: TypeHealth, Value: "-10", Amount: -10, Display: "Santé -10"},
		{Type: TypeItemFound, Value: "Sword", Display: "Objet trouvé: Sword"},
	}, events)
}

func TestExtract_English(t *testing.T) {
	events := Extract("<event>MANA:5</event><event>ITEM_FOUND:Torch</event><event>XP:0</event>", language.English)
	displays := make([]string, 0, len(events))
	for _, e := range events {
		displays = append(displays, e.Display)
	}
	assert.Equal(t, []string{"Mana +5", "Item found: Torch", "XP 0"}, displays)
}

func TestExtract_Variants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Event
	}{
		{
			name: "no markers",
			text: "Nothing happens.",
			want: []Event{},
		},
		{
			name: "positive delta gets plus sign",
			text: "<event>HEALTH:+15</event>",
			want: []Event{{Type: TypeHealth, Value: "+15", Amount: 15, Display: "Santé +15"}},
		},
		{
			name: "lowercase type is normalised",
			text: "<event>xp:50</event>",
			want: []Event{{Type: TypeXP, Value: "50", Amount: 50, Display: "XP +50"}},
		},
		{
			name: "unterminated marker does not hide the next one",
			text: "<event>HEALTH:-5 oops <event>MANA:-3</event>",
			want: []Event{{Type: TypeMana, Value: "-3", Amount: -3, Display: "Mana -3"}},
		},
		{
			name: "unknown type passes through",
			text: "<event>GOLD:12</event>",
			want: []Event{{Type: "GOLD", Value: "12", Display: "GOLD: 12"}},
		},
		{
			name: "non-integer numeric value skipped",
			text: "<event>HEALTH:lots</event><event>MANA:-3</event>",
			want: []Event{{Type: TypeMana, Value: "-3", Amount: -3, Display: "Mana -3"}},
		},
		{
			name: "empty value skipped",
			text: "<event>ITEM_FOUND: </event>",
			want: []Event{},
		},
		{
			name: "value keeps inner colons",
			text: "<event>ITEM_FOUND:Map: northern reaches</event>",
			want: []Event{{Type: TypeItemFound, Value: "Map: northern reaches", Display: "Objet trouvé: Map: northern reaches"}},
		},
		{
			name: "inside the envelope",
			text: "<response><message>Ouch <event>HEALTH:-2</event></message></response>",
			want: []Event{{Type: TypeHealth, Value: "-2", Amount: -2, Display: "Santé -2"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text, DefaultLanguage))
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"You fall. <event>HEALTH:-10</event>Ouch.", "You fall. Ouch."},
		{"<event>ITEM_FOUND:Sword</event>", ""},
		{"malformed <event>no colon here</event> marker", "malformed  marker"},
		{"a<event>\nXP:5\n</event>b", "ab"},
		{"<event>HEALTH:-5 oops <event>MANA:-3</event>!", "<event>HEALTH:-5 oops !"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Strip(tt.in))
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		pref string
		want language.Tag
	}{
		{"", language.French},
		{"fr", language.French},
		{"fr-CA", language.French},
		{"en", language.English},
		{"en-GB,en;q=0.8", language.English},
		{"de", language.French},
		{"not a tag!!", language.French},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchLanguage(tt.pref), tt.pref)
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("fr-FR"))
	assert.False(t, IsSupported("ja"))
	assert.False(t, IsSupported(""))
}
