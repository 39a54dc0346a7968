package sortstate

import (
	"reflect"
	"testing"
)

func TestMetaUpsert(t *testing.T) {
	var m Meta
	m.Upsert(Criterion{ColumnID: "a", Order: Ascending})
	m.Upsert(Criterion{ColumnID: "b", Order: Descending})
	m.Upsert(Criterion{ColumnID: "a", Order: Descending})
	m.Upsert(Criterion{ColumnID: "", Order: Ascending})
	m.Upsert(Criterion{ColumnID: "c", Order: Unsorted})

	want := Meta{{ColumnID: "a", Order: Descending}, {ColumnID: "b", Order: Descending}}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("meta = %v, want %v", m, want)
	}
}

func TestMetaRemoveAndReset(t *testing.T) {
	m := Meta{{ColumnID: "a", Order: Ascending}, {ColumnID: "b", Order: Ascending}, {ColumnID: "c", Order: Descending}}
	m.Remove("b")
	if got := m.ColumnIDs(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("after remove = %v", got)
	}

	clone := m.Clone()
	m.Reset()
	if m.Len() != 0 {
		t.Errorf("after reset len = %d", m.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone affected by reset: %v", clone)
	}
}

func TestMetaString(t *testing.T) {
	tests := []struct {
		meta Meta
		want string
	}{
		{nil, ""},
		{Meta{{ColumnID: "name", Order: Ascending}}, "name"},
		{Meta{{ColumnID: "name", Order: Ascending}, {ColumnID: "age", Order: Descending}}, "name,-age"},
	}

	for _, tt := range tests {
		if got := tt.meta.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseMeta(t *testing.T) {
	tests := []struct {
		in   string
		want Meta
	}{
		{"", nil},
		{" , -,", nil},
		{"name", Meta{{ColumnID: "name", Order: Ascending}}},
		{"-age, name", Meta{{ColumnID: "age", Order: Descending}, {ColumnID: "name", Order: Ascending}}},
		{"a,b,-a", Meta{{ColumnID: "a", Order: Descending}, {ColumnID: "b", Order: Ascending}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseMeta(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseMeta(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"1":    Ascending,
		"-1":   Descending,
		"0":    Unsorted,
		"ASC":  Ascending,
		"desc": Descending,
		"x":    Unsorted,
	}
	for in, want := range tests {
		if got := ParseDirection(in); got != want {
			t.Errorf("ParseDirection(%q) = %v, want %v", in, got, want)
		}
	}
	if Descending.Wire() != "-1" || Ascending.Reverse() != Descending {
		t.Error("wire/reverse mismatch")
	}
}
